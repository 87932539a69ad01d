package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/okonstantinov/wrench/internal/client/storage"
	"github.com/okonstantinov/wrench/internal/models"
)

// collectionBucket возвращает вложенный bucket коллекции, создавая его при необходимости.
func collectionBucket(tx *bbolt.Tx, root []byte, collection string, create bool) (*bbolt.Bucket, error) {
	parent := tx.Bucket(root)
	if parent == nil {
		return nil, fmt.Errorf("bucket %s not found", root)
	}
	if create {
		return parent.CreateBucketIfNotExists([]byte(collection))
	}
	return parent.Bucket([]byte(collection)), nil
}

// PutEntity stores or replaces an entity snapshot and its index entries
func (s *Storage) PutEntity(ctx context.Context, collection string, entity *models.Entity) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := collectionBucket(tx, bucketEntities, collection, true)
		if err != nil {
			return fmt.Errorf("failed to open entities bucket: %w", err)
		}
		statusIdx, err := collectionBucket(tx, bucketIdxStatus, collection, true)
		if err != nil {
			return fmt.Errorf("failed to open status index: %w", err)
		}
		modifiedIdx, err := collectionBucket(tx, bucketIdxModified, collection, true)
		if err != nil {
			return fmt.Errorf("failed to open modified index: %w", err)
		}

		key := []byte(entity.ID)

		// Убираем старые индексные записи, если снапшот уже существовал
		if old := bucket.Get(key); old != nil {
			prev := &models.Entity{}
			if err := json.Unmarshal(old, prev); err != nil {
				return fmt.Errorf("failed to unmarshal previous entity: %w", err)
			}
			if err := statusIdx.Delete(indexKey([]byte(prev.Status), prev.ID)); err != nil {
				return fmt.Errorf("failed to delete old status index: %w", err)
			}
			if err := modifiedIdx.Delete(indexKey(i64ToBytes(prev.LastModifiedAt.UnixMilli()), prev.ID)); err != nil {
				return fmt.Errorf("failed to delete old modified index: %w", err)
			}
		}

		data, err := json.Marshal(entity)
		if err != nil {
			return fmt.Errorf("failed to marshal entity: %w", err)
		}

		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save entity: %w", err)
		}
		if err := statusIdx.Put(indexKey([]byte(entity.Status), entity.ID), key); err != nil {
			return fmt.Errorf("failed to update status index: %w", err)
		}
		if err := modifiedIdx.Put(indexKey(i64ToBytes(entity.LastModifiedAt.UnixMilli()), entity.ID), key); err != nil {
			return fmt.Errorf("failed to update modified index: %w", err)
		}

		return nil
	})
}

// GetEntity retrieves an entity snapshot by ID
func (s *Storage) GetEntity(ctx context.Context, collection, id string) (*models.Entity, error) {
	var entity *models.Entity

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := collectionBucket(tx, bucketEntities, collection, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			return storage.ErrEntityNotFound
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrEntityNotFound
		}

		entity = &models.Entity{}
		if err := json.Unmarshal(data, entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return entity, nil
}

// GetAllEntities returns all snapshots ordered by LastModifiedAt descending.
// Порядок обеспечивает индекс по времени изменения, полного скана нет.
func (s *Storage) GetAllEntities(ctx context.Context, collection string) ([]*models.Entity, error) {
	var entities []*models.Entity

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := collectionBucket(tx, bucketEntities, collection, false)
		if err != nil {
			return err
		}
		modifiedIdx, err := collectionBucket(tx, bucketIdxModified, collection, false)
		if err != nil {
			return err
		}
		if bucket == nil || modifiedIdx == nil {
			return nil
		}

		// Индекс отсортирован по возрастанию, идем курсором с конца
		c := modifiedIdx.Cursor()
		for k, id := c.Last(); k != nil; k, id = c.Prev() {
			data := bucket.Get(id)
			if data == nil {
				continue
			}
			entity := &models.Entity{}
			if err := json.Unmarshal(data, entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity: %w", err)
			}
			entities = append(entities, entity)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return entities, nil
}

// GetEntitiesByStatus returns snapshots with the given status field,
// served from the status index.
func (s *Storage) GetEntitiesByStatus(ctx context.Context, collection, status string) ([]*models.Entity, error) {
	var entities []*models.Entity

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := collectionBucket(tx, bucketEntities, collection, false)
		if err != nil {
			return err
		}
		statusIdx, err := collectionBucket(tx, bucketIdxStatus, collection, false)
		if err != nil {
			return err
		}
		if bucket == nil || statusIdx == nil {
			return nil
		}

		prefix := indexKey([]byte(status), "")
		c := statusIdx.Cursor()
		for k, id := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, id = c.Next() {
			data := bucket.Get(id)
			if data == nil {
				continue
			}
			entity := &models.Entity{}
			if err := json.Unmarshal(data, entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity: %w", err)
			}
			entities = append(entities, entity)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return entities, nil
}

// DeleteEntity removes the snapshot and its index entries.
// Удаление отсутствующего снапшота не является ошибкой.
func (s *Storage) DeleteEntity(ctx context.Context, collection, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := collectionBucket(tx, bucketEntities, collection, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			return nil
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return nil
		}

		entity := &models.Entity{}
		if err := json.Unmarshal(data, entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}

		if err := bucket.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete entity: %w", err)
		}

		statusIdx, err := collectionBucket(tx, bucketIdxStatus, collection, false)
		if err != nil {
			return err
		}
		if statusIdx != nil {
			if err := statusIdx.Delete(indexKey([]byte(entity.Status), entity.ID)); err != nil {
				return fmt.Errorf("failed to delete status index: %w", err)
			}
		}

		modifiedIdx, err := collectionBucket(tx, bucketIdxModified, collection, false)
		if err != nil {
			return err
		}
		if modifiedIdx != nil {
			if err := modifiedIdx.Delete(indexKey(i64ToBytes(entity.LastModifiedAt.UnixMilli()), entity.ID)); err != nil {
				return fmt.Errorf("failed to delete modified index: %w", err)
			}
		}

		return nil
	})
}
