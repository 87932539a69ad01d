package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/okonstantinov/wrench/internal/models"
)

// Enqueue stores the item, replacing any queued item with the same ID.
// Перезапись по id реализует last-intent-wins: устаревшая мутация не
// останется в очереди позади более свежей.
func (s *Storage) Enqueue(ctx context.Context, item *models.QueueItem) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}
		timeIdx := tx.Bucket(bucketIdxQueueTime)
		if timeIdx == nil {
			return fmt.Errorf("queue time index not found")
		}

		key := []byte(item.ID)

		// Убираем индексную запись предыдущего элемента с тем же id
		if old := bucket.Get(key); old != nil {
			prev := &models.QueueItem{}
			if err := json.Unmarshal(old, prev); err != nil {
				return fmt.Errorf("failed to unmarshal previous queue item: %w", err)
			}
			if err := timeIdx.Delete(indexKey(i64ToBytes(prev.EnqueuedAt), prev.ID)); err != nil {
				return fmt.Errorf("failed to delete old time index: %w", err)
			}
		}

		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal queue item: %w", err)
		}

		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save queue item: %w", err)
		}
		if err := timeIdx.Put(indexKey(i64ToBytes(item.EnqueuedAt), item.ID), key); err != nil {
			return fmt.Errorf("failed to update time index: %w", err)
		}

		return nil
	})
}

// DequeueAll returns all queued items ordered by EnqueuedAt ascending.
// Порядок обеспечивает индекс по времени постановки.
func (s *Storage) DequeueAll(ctx context.Context) ([]*models.QueueItem, error) {
	var items []*models.QueueItem

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}
		timeIdx := tx.Bucket(bucketIdxQueueTime)
		if timeIdx == nil {
			return fmt.Errorf("queue time index not found")
		}

		return timeIdx.ForEach(func(k, id []byte) error {
			data := bucket.Get(id)
			if data == nil {
				return nil
			}
			item := &models.QueueItem{}
			if err := json.Unmarshal(data, item); err != nil {
				return fmt.Errorf("failed to unmarshal queue item: %w", err)
			}
			items = append(items, item)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return items, nil
}

// RemoveFromQueue removes the item by entity ID.
// Удаление отсутствующего элемента не является ошибкой.
func (s *Storage) RemoveFromQueue(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return nil
		}

		item := &models.QueueItem{}
		if err := json.Unmarshal(data, item); err != nil {
			return fmt.Errorf("failed to unmarshal queue item: %w", err)
		}

		if err := bucket.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete queue item: %w", err)
		}

		timeIdx := tx.Bucket(bucketIdxQueueTime)
		if timeIdx == nil {
			return fmt.Errorf("queue time index not found")
		}
		if err := timeIdx.Delete(indexKey(i64ToBytes(item.EnqueuedAt), item.ID)); err != nil {
			return fmt.Errorf("failed to delete time index: %w", err)
		}

		return nil
	})
}

// QueueLen returns the number of pending items
func (s *Storage) QueueLen(ctx context.Context) (int, error) {
	var count int

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}
		count = bucket.Stats().KeyN
		return nil
	})

	if err != nil {
		return 0, err
	}

	return count, nil
}
