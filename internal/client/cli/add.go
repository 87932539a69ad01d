package cli

import (
	"context"
	"fmt"

	"github.com/okonstantinov/wrench/internal/models"
)

func (c *Cli) runAdd(ctx context.Context) error {
	c.io.Println("=== Add Repair Order ===")
	c.io.Println()
	c.io.Println("Enter order details:")
	c.io.Println()

	customer, err := c.io.ReadInput("Customer name: ")
	if err != nil {
		return fmt.Errorf("failed to read customer name: %w", err)
	}
	if customer == "" {
		return fmt.Errorf("customer name cannot be empty")
	}

	vehicle, err := c.io.ReadInput("Vehicle (e.g., 'Lada Vesta 2019'): ")
	if err != nil {
		return fmt.Errorf("failed to read vehicle: %w", err)
	}

	description, err := c.io.ReadInput("Work description: ")
	if err != nil {
		return fmt.Errorf("failed to read description: %w", err)
	}

	priceInput, err := c.io.ReadInput("Price, RUB (e.g., 1500.50): ")
	if err != nil {
		return fmt.Errorf("failed to read price: %w", err)
	}
	price, err := parsePrice(priceInput)
	if err != nil {
		return err
	}

	scheduledInput, err := c.io.ReadInput("Scheduled at (YYYY-MM-DD HH:MM, optional): ")
	if err != nil {
		return fmt.Errorf("failed to read scheduled time: %w", err)
	}
	scheduledAt, err := parseSchedule(scheduledInput)
	if err != nil {
		return err
	}

	assignedTo, err := c.io.ReadInput("Assigned employee ID (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read assignee: %w", err)
	}

	order := &models.Order{
		CustomerName: customer,
		Vehicle:      vehicle,
		Description:  description,
		Price:        price,
		ScheduledAt:  scheduledAt,
		AssignedTo:   assignedTo,
	}

	if err := c.orders.Create(ctx, order); err != nil {
		return fmt.Errorf("failed to add order: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Order added successfully!")
	c.io.Printf("ID: %s\n", order.ID)
	c.io.Printf("Customer: %s\n", order.CustomerName)
	c.io.Println()

	if !c.monitor.Status().Online() {
		c.io.Println("Note: you are offline. The order is stored locally and will be")
		c.io.Println("      synchronized automatically when the connection is back.")
	}

	return nil
}
