package validation

import (
	"fmt"
	"strings"

	"github.com/okonstantinov/wrench/internal/models"
)

const (
	// MaxCustomerNameLen максимальная длина имени клиента
	MaxCustomerNameLen = 128
	// MaxDescriptionLen максимальная длина описания работ
	MaxDescriptionLen = 4096
)

// ValidateOrder проверяет доменные поля заказа перед сохранением
func ValidateOrder(order *models.Order) error {
	if order.ID == "" {
		return fmt.Errorf("order id cannot be empty")
	}

	if strings.TrimSpace(order.CustomerName) == "" {
		return fmt.Errorf("customer name cannot be empty")
	}

	if len(order.CustomerName) > MaxCustomerNameLen {
		return fmt.Errorf("customer name must not exceed %d characters", MaxCustomerNameLen)
	}

	if len(order.Description) > MaxDescriptionLen {
		return fmt.Errorf("description must not exceed %d characters", MaxDescriptionLen)
	}

	if !order.Status.Valid() {
		return fmt.Errorf("unknown order status: %q", order.Status)
	}

	if order.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}

	return nil
}
