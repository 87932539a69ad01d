package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/okonstantinov/wrench/internal/client/repository"
)

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing order ID. Usage: wrench delete <id>")
	}
	orderID := args[0]

	c.io.Println("=== Delete Order ===")
	c.io.Println()

	order, err := c.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return fmt.Errorf("order not found with ID: %s", orderID)
		}
		return fmt.Errorf("failed to get order: %w", err)
	}

	c.io.Println("About to delete:")
	c.io.Printf("  Customer: %s\n", order.CustomerName)
	if order.Vehicle != "" {
		c.io.Printf("  Vehicle:  %s\n", order.Vehicle)
	}
	c.io.Printf("  Status:   %s\n", order.Status)
	c.io.Println()

	confirm, err := c.io.ReadInput("Are you sure you want to delete this order? (yes/no): ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if confirm != "yes" && confirm != "y" {
		c.io.Println()
		c.io.Println("Deletion cancelled.")
		return nil
	}

	if err := c.orders.Delete(ctx, orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Order deleted successfully!")

	if !c.monitor.Status().Online() {
		c.io.Println("Note: you are offline. The deletion will reach the server")
		c.io.Println("      when the connection is back.")
	}

	return nil
}
