package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/weather-gate/internal/domain"
	"github.com/dom/weather-gate/internal/kvstore"
)

type userRepository struct {
	table *kvstore.Table[domain.User]
}

func NewUserRepository(table *kvstore.Table[domain.User]) *userRepository {
	return &userRepository{table: table}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.table.Insert(ctx, user.Username, *user)
	if errors.Is(err, domain.ErrKeyExists) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateUser, user.Username)
	}
	return err
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, ok := r.table.Get(username)
	if !ok {
		return nil, domain.ErrUnknownUser
	}
	return &user, nil
}
