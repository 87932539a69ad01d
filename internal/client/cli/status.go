package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okonstantinov/wrench/internal/client/storage"
	"github.com/okonstantinov/wrench/internal/models"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	c.io.Printf("Network: %s\n", networkLabel(c.monitor.Status()))

	// Сессия
	session, err := c.authService.CurrentSession(ctx)
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		c.io.Println("Session: not authenticated")
		c.io.Println()
		c.io.Println("Run 'wrench login' to authenticate.")
	case err != nil:
		return fmt.Errorf("failed to read session: %w", err)
	case session.Expired(time.Now()):
		c.io.Printf("Session: %s (expired)\n", session.Username)
		c.io.Println("⚠️  Token has expired. Please login again.")
	default:
		expiresAt := time.Unix(session.ExpiresAt, 0)
		c.io.Printf("Session: %s\n", session.Username)
		c.io.Printf("Token expires: %s (in %s)\n",
			expiresAt.Format(time.RFC3339),
			time.Until(expiresAt).Round(time.Second))
	}

	// Бейдж отложенных операций
	pending, err := c.orders.PendingOperationsCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending operations count: %w", err)
	}

	c.io.Println()
	if pending > 0 {
		c.io.Printf("⚠️  Pending sync: %d operation(s) waiting to be synchronized\n", pending)
		c.io.Println("Run 'wrench sync' to synchronize with the server.")
	} else {
		c.io.Println("✓ All changes synchronized with the server")
	}

	return nil
}

func networkLabel(status models.NetworkStatus) string {
	switch {
	case status.IsConnecting:
		return "reconnecting"
	case status.IsOnline:
		return "online"
	default:
		return "offline"
	}
}
