package database

import (
	"context"

	"go_rates_converter/internal/models"
)

// SessionStore определяет интерфейс хранилища пользовательских сессий
type SessionStore interface {
	SaveSession(ctx context.Context, session *models.Session) error
	LoadSession(ctx context.Context, id string) (*models.Session, error)
	LatestSession(ctx context.Context, base string) (*models.Session, error)
	Close() error
}

// Убеждаемся, что DB реализует SessionStore
var _ SessionStore = (*DB)(nil)
