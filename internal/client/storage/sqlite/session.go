package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okonstantinov/wrench/internal/client/storage"
	"github.com/okonstantinov/wrench/internal/models"
)

// SaveSession stores the session data.
// Таблица хранит единственную строку текущей сессии.
func (s *Storage) SaveSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO session (id, username, access_token, expires_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			access_token = excluded.access_token,
			expires_at = excluded.expires_at
	`

	_, err := s.db.ExecContext(ctx, query, session.Username, session.AccessToken, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GetSession retrieves the stored session
func (s *Storage) GetSession(ctx context.Context) (*models.Session, error) {
	query := `SELECT username, access_token, expires_at FROM session WHERE id = 1`

	var session models.Session
	err := s.db.QueryRowContext(ctx, query).Scan(&session.Username, &session.AccessToken, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// DeleteSession removes the stored session (logout)
func (s *Storage) DeleteSession(ctx context.Context) error {
	query := `DELETE FROM session WHERE id = 1`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
