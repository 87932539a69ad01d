package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/okonstantinov/wrench/internal/client/storage"
	"github.com/okonstantinov/wrench/internal/models"
)

// PutEntity stores or replaces an entity snapshot
func (s *Storage) PutEntity(ctx context.Context, collection string, entity *models.Entity) error {
	query := `
		INSERT INTO entities (collection, id, payload, status, last_modified_at, is_offline)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			payload = excluded.payload,
			status = excluded.status,
			last_modified_at = excluded.last_modified_at,
			is_offline = excluded.is_offline
	`

	_, err := s.db.ExecContext(ctx, query,
		collection,
		entity.ID,
		[]byte(entity.Payload),
		entity.Status,
		entity.LastModifiedAt.UnixMilli(),
		boolToInt(entity.IsOffline),
	)
	if err != nil {
		return fmt.Errorf("failed to save entity: %w", err)
	}

	return nil
}

// GetEntity retrieves an entity snapshot by ID
func (s *Storage) GetEntity(ctx context.Context, collection, id string) (*models.Entity, error) {
	query := `
		SELECT id, payload, status, last_modified_at, is_offline
		FROM entities
		WHERE collection = ? AND id = ?
	`

	entity, err := scanEntity(s.db.QueryRowContext(ctx, query, collection, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}

	return entity, nil
}

// GetAllEntities returns all snapshots ordered by LastModifiedAt descending
func (s *Storage) GetAllEntities(ctx context.Context, collection string) ([]*models.Entity, error) {
	query := `
		SELECT id, payload, status, last_modified_at, is_offline
		FROM entities
		WHERE collection = ?
		ORDER BY last_modified_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	return collectEntities(rows)
}

// GetEntitiesByStatus returns snapshots with the given status field
func (s *Storage) GetEntitiesByStatus(ctx context.Context, collection, status string) ([]*models.Entity, error) {
	query := `
		SELECT id, payload, status, last_modified_at, is_offline
		FROM entities
		WHERE collection = ? AND status = ?
		ORDER BY last_modified_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, collection, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities by status: %w", err)
	}
	defer rows.Close()

	return collectEntities(rows)
}

// DeleteEntity removes the snapshot.
// Удаление отсутствующего снапшота не является ошибкой.
func (s *Storage) DeleteEntity(ctx context.Context, collection, id string) error {
	query := `DELETE FROM entities WHERE collection = ? AND id = ?`

	if _, err := s.db.ExecContext(ctx, query, collection, id); err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}

	return nil
}

// scanner абстрагирует *sql.Row и *sql.Rows для общего кода сканирования.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntity(row scanner) (*models.Entity, error) {
	var (
		entity     models.Entity
		payload    []byte
		modifiedAt int64
		isOffline  int
	)

	if err := row.Scan(&entity.ID, &payload, &entity.Status, &modifiedAt, &isOffline); err != nil {
		return nil, err
	}

	entity.Payload = payload
	entity.LastModifiedAt = time.UnixMilli(modifiedAt)
	entity.IsOffline = isOffline != 0

	return &entity, nil
}

func collectEntities(rows *sql.Rows) ([]*models.Entity, error) {
	var entities []*models.Entity

	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return entities, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
