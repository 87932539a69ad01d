package models

import "time"

// OrderStatus представляет этап жизненного цикла заказа в мастерской.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusDone       OrderStatus = "done"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether the status is one of the known lifecycle stages.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusInProgress, OrderStatusDone, OrderStatusCancelled:
		return true
	}
	return false
}

// Order представляет заказ на ремонт.
// Используется как единственный доменный тип, проходящий через движок синхронизации.
type Order struct {
	ID          string      `json:"id"`           // ID уникальный идентификатор заказа (UUID, генерируется клиентом)
	CustomerName string     `json:"customer_name"` // CustomerName имя клиента
	Vehicle     string      `json:"vehicle"`      // Vehicle описание транспорта или изделия (например, "Lada Vesta 2019")
	Description string      `json:"description"`  // Description описание работ
	Status      OrderStatus `json:"status"`       // Status текущий этап заказа
	Price       int64       `json:"price"`        // Price стоимость работ в копейках
	AssignedTo  string      `json:"assigned_to"`  // AssignedTo идентификатор сотрудника; непустое значение означает, что заказ держит assignment lock
	ScheduledAt time.Time   `json:"scheduled_at"` // ScheduledAt запланированное время работ
	CreatedAt   time.Time   `json:"created_at"`   // CreatedAt время создания записи
	UpdatedAt   time.Time   `json:"updated_at"`   // UpdatedAt время последнего изменения
}
