package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/okonstantinov/wrench/internal/models"
)

func (c *Cli) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	statusFilter := fs.String("status", "", "filter by order status (new, in_progress, done, cancelled)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		orders []*models.Order
		err    error
	)

	if *statusFilter != "" {
		status := models.OrderStatus(*statusFilter)
		if !status.Valid() {
			return fmt.Errorf("unknown status: %s", *statusFilter)
		}
		orders, err = c.orders.GetByStatus(ctx, status)
	} else {
		orders, err = c.orders.GetAll(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}

	c.io.Println("=== Repair Orders ===")
	c.io.Println()

	if len(orders) == 0 {
		c.io.Println("No orders found.")
		return nil
	}

	for _, order := range orders {
		c.io.Printf("%-36s  %-12s  %10s  %s\n",
			order.ID, order.Status, formatPrice(order.Price), order.CustomerName)
	}

	c.io.Println()
	c.io.Printf("Total: %d order(s)\n", len(orders))

	return nil
}
