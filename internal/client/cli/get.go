package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/okonstantinov/wrench/internal/client/repository"
)

func (c *Cli) runGet(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing order ID. Usage: wrench get <id>")
	}

	order, err := c.orders.GetByID(ctx, args[0])
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return fmt.Errorf("order not found with ID: %s", args[0])
		}
		return fmt.Errorf("failed to get order: %w", err)
	}

	c.io.Println("=== Order Details ===")
	c.io.Println()
	c.printOrder(order)

	return nil
}
