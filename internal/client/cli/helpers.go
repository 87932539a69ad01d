package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okonstantinov/wrench/internal/models"
)

const scheduleLayout = "2006-01-02 15:04"

// parsePrice converts a decimal ruble amount into kopecks.
func parsePrice(input string) (int64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}

	rub, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", input, err)
	}
	if rub < 0 {
		return 0, fmt.Errorf("price cannot be negative")
	}

	return int64(math.Round(rub * 100)), nil
}

// parseSchedule parses an optional local "YYYY-MM-DD HH:MM" timestamp.
func parseSchedule(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, nil
	}

	t, err := time.ParseInLocation(scheduleLayout, input, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid scheduled time %q, expected YYYY-MM-DD HH:MM", input)
	}
	return t, nil
}

// formatPrice renders kopecks as a decimal ruble amount.
func formatPrice(kopecks int64) string {
	return fmt.Sprintf("%d.%02d ₽", kopecks/100, kopecks%100)
}

// printOrder renders one order in full.
func (c *Cli) printOrder(order *models.Order) {
	c.io.Printf("ID:          %s\n", order.ID)
	c.io.Printf("Customer:    %s\n", order.CustomerName)
	if order.Vehicle != "" {
		c.io.Printf("Vehicle:     %s\n", order.Vehicle)
	}
	if order.Description != "" {
		c.io.Printf("Description: %s\n", order.Description)
	}
	c.io.Printf("Status:      %s\n", order.Status)
	c.io.Printf("Price:       %s\n", formatPrice(order.Price))
	if order.AssignedTo != "" {
		c.io.Printf("Assigned to: %s\n", order.AssignedTo)
	}
	if !order.ScheduledAt.IsZero() {
		c.io.Printf("Scheduled:   %s\n", order.ScheduledAt.Format(scheduleLayout))
	}
	c.io.Printf("Created:     %s\n", order.CreatedAt.Format(time.RFC3339))
	c.io.Printf("Updated:     %s\n", order.UpdatedAt.Format(time.RFC3339))
}
