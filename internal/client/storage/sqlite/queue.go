package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okonstantinov/wrench/internal/models"
)

// Enqueue stores the item, replacing any queued item with the same ID
// (last-intent-wins).
func (s *Storage) Enqueue(ctx context.Context, item *models.QueueItem) error {
	var payload []byte
	if item.Payload != nil {
		data, err := json.Marshal(item.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal queue payload: %w", err)
		}
		payload = data
	}

	query := `
		INSERT INTO queue (id, collection, operation, payload, enqueued_at, retry_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			collection = excluded.collection,
			operation = excluded.operation,
			payload = excluded.payload,
			enqueued_at = excluded.enqueued_at,
			retry_count = excluded.retry_count
	`

	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.Collection,
		string(item.Operation),
		payload,
		item.EnqueuedAt,
		item.RetryCount,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue item: %w", err)
	}

	return nil
}

// DequeueAll returns all queued items ordered by EnqueuedAt ascending
func (s *Storage) DequeueAll(ctx context.Context) ([]*models.QueueItem, error) {
	query := `
		SELECT id, collection, operation, payload, enqueued_at, retry_count
		FROM queue
		ORDER BY enqueued_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query queue: %w", err)
	}
	defer rows.Close()

	var items []*models.QueueItem

	for rows.Next() {
		var (
			item      models.QueueItem
			operation string
			payload   []byte
		)

		if err := rows.Scan(&item.ID, &item.Collection, &operation, &payload, &item.EnqueuedAt, &item.RetryCount); err != nil {
			return nil, fmt.Errorf("failed to scan queue item: %w", err)
		}

		item.Operation = models.Operation(operation)

		if len(payload) > 0 {
			entity := &models.Entity{}
			if err := json.Unmarshal(payload, entity); err != nil {
				return nil, fmt.Errorf("failed to unmarshal queue payload: %w", err)
			}
			item.Payload = entity
		}

		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return items, nil
}

// RemoveFromQueue removes the item by entity ID.
// Удаление отсутствующего элемента не является ошибкой.
func (s *Storage) RemoveFromQueue(ctx context.Context, id string) error {
	query := `DELETE FROM queue WHERE id = ?`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to remove queue item: %w", err)
	}

	return nil
}

// QueueLen returns the number of pending items
func (s *Storage) QueueLen(ctx context.Context) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM queue`
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count queue items: %w", err)
	}

	return count, nil
}
