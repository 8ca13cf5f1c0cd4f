package kv

import (
	"context"
	"fmt"

	"github.com/dom/weather-gate/internal/domain"
	"github.com/dom/weather-gate/internal/kvstore"
	"github.com/dom/weather-gate/internal/repository"
)

// NewRepositories loads both stores. Any load error aborts, so a corrupt
// backing store is never replaced by an empty one.
func NewRepositories(ctx context.Context, users kvstore.Store[domain.User], sessions kvstore.Store[domain.Session]) (*repository.Repositories, error) {
	userTable, err := kvstore.NewTable[domain.User](ctx, users)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	sessionTable, err := kvstore.NewTable[domain.Session](ctx, sessions)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	return &repository.Repositories{
		User:    NewUserRepository(userTable),
		Session: NewSessionRepository(sessionTable),
	}, nil
}
