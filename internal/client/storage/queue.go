package storage

import (
	"context"

	"github.com/okonstantinov/wrench/internal/models"
)

// QueueStorage defines the durable mutation queue table of the local store.
// Очередь физически ключуется по entity id: повторный Enqueue для того же id
// перезаписывает прежний элемент вместо добавления дубликата.
type QueueStorage interface {
	// Enqueue stores the item, replacing any queued item with the same ID
	Enqueue(ctx context.Context, item *models.QueueItem) error

	// DequeueAll returns all queued items ordered by EnqueuedAt ascending
	DequeueAll(ctx context.Context) ([]*models.QueueItem, error)

	// RemoveFromQueue removes the item by entity ID
	// Removing a missing item is not an error
	RemoveFromQueue(ctx context.Context, id string) error

	// QueueLen returns the number of pending items
	QueueLen(ctx context.Context) (int, error)
}
