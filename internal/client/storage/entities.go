package storage

import (
	"context"

	"github.com/okonstantinov/wrench/internal/models"
)

// EntityStorage defines the snapshot table of the local store:
// one row per domain entity holding the latest known state.
// Каждая операция транзакционна: частично примененных записей не бывает.
type EntityStorage interface {
	// PutEntity stores or replaces the snapshot for entity.ID in collection
	PutEntity(ctx context.Context, collection string, entity *models.Entity) error

	// GetEntity retrieves a snapshot by ID
	// Returns ErrEntityNotFound if the snapshot doesn't exist
	GetEntity(ctx context.Context, collection, id string) (*models.Entity, error)

	// GetAllEntities returns all snapshots of the collection
	// ordered by LastModifiedAt descending (newest first)
	GetAllEntities(ctx context.Context, collection string) ([]*models.Entity, error)

	// GetEntitiesByStatus returns snapshots matching the status field,
	// served from a secondary index rather than a full scan
	GetEntitiesByStatus(ctx context.Context, collection, status string) ([]*models.Entity, error)

	// DeleteEntity removes the snapshot; deleting a missing snapshot is not an error
	DeleteEntity(ctx context.Context, collection, id string) error
}
