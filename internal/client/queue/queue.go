package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/okonstantinov/wrench/internal/client/storage"
	"github.com/okonstantinov/wrench/internal/models"
)

// Queue is a thin ordering/idempotency wrapper over the durable queue table.
// Гарантии порядка: для одного entity id в очереди живет не более одной
// мутации (последняя по намерению), между разными id порядок задается
// временем постановки.
type Queue struct {
	store  storage.QueueStorage
	logger *slog.Logger
	now    func() time.Time
}

// New creates a new mutation queue over the given queue storage
func New(store storage.QueueStorage, logger *slog.Logger) *Queue {
	return &Queue{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Enqueue builds a queue item and stores it, overwriting any queued item
// for the same entity id (last-intent-wins).
func (q *Queue) Enqueue(ctx context.Context, collection string, op models.Operation, entityID string, payload *models.Entity) error {
	if !op.Valid() {
		return fmt.Errorf("unknown operation: %s", op)
	}
	if entityID == "" {
		return fmt.Errorf("entity id is empty")
	}

	item := &models.QueueItem{
		ID:         entityID,
		Collection: collection,
		Operation:  op,
		Payload:    payload,
		EnqueuedAt: q.now().UnixMilli(),
		RetryCount: 0,
	}

	if err := q.store.Enqueue(ctx, item); err != nil {
		return fmt.Errorf("failed to enqueue mutation: %w", err)
	}

	q.logger.Debug("mutation enqueued",
		"entity_id", entityID,
		"operation", op,
		"collection", collection)

	return nil
}

// DrainOrdered returns all pending items ordered by EnqueuedAt ascending.
// Вызывающий обязан обрабатывать элементы строго в этом порядке, чтобы
// сохранить причинный порядок собственных мутаций клиента.
func (q *Queue) DrainOrdered(ctx context.Context) ([]*models.QueueItem, error) {
	items, err := q.store.DequeueAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}

	// Бэкенды возвращают элементы уже отсортированными, но контракт
	// очереди не должен зависеть от этого
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].EnqueuedAt < items[j].EnqueuedAt
	})

	return items, nil
}

// Ack removes the item after a confirmed remote success
func (q *Queue) Ack(ctx context.Context, id string) error {
	if err := q.store.RemoveFromQueue(ctx, id); err != nil {
		return fmt.Errorf("failed to ack queue item: %w", err)
	}
	return nil
}

// Retry re-enqueues the item with an incremented retry counter.
// EnqueuedAt сохраняется, поэтому элемент остается в начале очереди,
// а не уходит в конец.
func (q *Queue) Retry(ctx context.Context, item *models.QueueItem) error {
	retried := *item
	retried.RetryCount++

	if err := q.store.Enqueue(ctx, &retried); err != nil {
		return fmt.Errorf("failed to re-enqueue item: %w", err)
	}

	q.logger.Debug("mutation scheduled for retry",
		"entity_id", item.ID,
		"retry_count", retried.RetryCount)

	return nil
}

// Abandon removes the item after the retry ceiling is exceeded.
// Сообщить пользователю об ошибке обязан вызывающий.
func (q *Queue) Abandon(ctx context.Context, item *models.QueueItem) error {
	if err := q.store.RemoveFromQueue(ctx, item.ID); err != nil {
		return fmt.Errorf("failed to abandon queue item: %w", err)
	}

	q.logger.Warn("mutation abandoned after retry ceiling",
		"entity_id", item.ID,
		"operation", item.Operation,
		"retry_count", item.RetryCount)

	return nil
}

// PendingCount returns the number of mutations waiting for replay
func (q *Queue) PendingCount(ctx context.Context) (int, error) {
	count, err := q.store.QueueLen(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return count, nil
}
