package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/okonstantinov/wrench/internal/client/sync"
)

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.io.Println()

	// Принудительный прогон в offline бессмыслен: очередь все равно
	// не сможет доехать до сервера
	if !c.monitor.Status().Online() {
		c.io.Println("You are offline, nothing to do.")
		c.io.Println("Changes will be synchronized automatically on reconnect.")
		return nil
	}

	c.io.Println("Starting synchronization with the server...")

	stats, err := c.reconciler.Drain(ctx)
	if err != nil {
		if errors.Is(err, sync.ErrSyncInProgress) {
			c.io.Println("Synchronization is already in progress.")
			return nil
		}
		return fmt.Errorf("synchronization failed: %w", err)
	}

	c.io.Println()
	if stats.Total == 0 {
		c.io.Println("✓ Nothing to synchronize, all changes are on the server.")
		return nil
	}

	c.io.Println("✓ Synchronization completed!")
	c.io.Println()
	c.io.Printf("Processed: %d\n", stats.Processed)
	c.io.Printf("Succeeded: %d\n", stats.Success)
	if stats.Errors > 0 {
		c.io.Printf("Failed:    %d\n", stats.Errors)
	}

	return nil
}
