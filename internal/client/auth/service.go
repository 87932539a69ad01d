package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpapi "github.com/okonstantinov/wrench/internal/client/api"
	"github.com/okonstantinov/wrench/internal/client/storage"
	"github.com/okonstantinov/wrench/internal/models"
	"github.com/okonstantinov/wrench/internal/validation"
	"github.com/okonstantinov/wrench/pkg/api"
)

// Service предоставляет функции работы с сессией удаленного хранилища.
type Service struct {
	client   *httpapi.Client
	sessions storage.SessionStorage
	logger   *slog.Logger
}

// NewService создает новый сервис авторизации.
func NewService(client *httpapi.Client, sessions storage.SessionStorage, logger *slog.Logger) *Service {
	return &Service{
		client:   client,
		sessions: sessions,
		logger:   logger,
	}
}

// Login аутентифицирует пользователя и сохраняет сессию локально.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Session, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.client.Login(ctx, api.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	expiresAt := time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	// Если сервер выдал JWT, время истечения берем из exp claim
	if exp, expErr := TokenExpiry(resp.AccessToken); expErr == nil {
		expiresAt = exp
	}

	session := &models.Session{
		Username:    username,
		AccessToken: resp.AccessToken,
		ExpiresAt:   expiresAt.Unix(),
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("logged in", "username", username, "expires_at", expiresAt)

	return session, nil
}

// Logout удаляет сохраненную сессию.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.DeleteSession(ctx); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CurrentSession возвращает сохраненную сессию.
func (s *Service) CurrentSession(ctx context.Context) (*models.Session, error) {
	return s.sessions.GetSession(ctx)
}

// IsAuthenticated reports whether a non-expired session exists
func (s *Service) IsAuthenticated(ctx context.Context) (bool, error) {
	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	return !session.Expired(time.Now()), nil
}

// TokenFunc returns a bearer token source for the API client.
// Отсутствие сессии не является ошибкой: запросы уходят без токена.
func (s *Service) TokenFunc() func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		session, err := s.sessions.GetSession(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrSessionNotFound) {
				return "", nil
			}
			return "", err
		}
		return session.AccessToken, nil
	}
}
