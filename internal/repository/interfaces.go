package repository

import (
	"context"

	"github.com/dom/weather-gate/internal/domain"
)

type UserRepository interface {
	// Create fails with domain.ErrDuplicateUser when the username is taken.
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type SessionRepository interface {
	// Create fails with domain.ErrKeyExists when the token is already live.
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

type Repositories struct {
	User    UserRepository
	Session SessionRepository
}
