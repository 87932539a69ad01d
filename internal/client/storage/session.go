package storage

import (
	"context"

	"github.com/okonstantinov/wrench/internal/models"
)

// SessionStorage defines interface for persisting the current API session
type SessionStorage interface {
	// SaveSession stores the session data
	SaveSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves the stored session
	// Returns ErrSessionNotFound if no session exists
	GetSession(ctx context.Context) (*models.Session, error)

	// DeleteSession removes the stored session (logout)
	DeleteSession(ctx context.Context) error
}
