package kv

import (
	"context"
	"errors"

	"github.com/dom/weather-gate/internal/domain"
	"github.com/dom/weather-gate/internal/kvstore"
)

type sessionRepository struct {
	table *kvstore.Table[domain.Session]
}

func NewSessionRepository(table *kvstore.Table[domain.Session]) *sessionRepository {
	return &sessionRepository{table: table}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	return r.table.Insert(ctx, session.Token, *session)
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnknownSession
	}
	session, ok := r.table.Get(token)
	if !ok {
		return nil, domain.ErrUnknownSession
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	err := r.table.Delete(ctx, token)
	if errors.Is(err, domain.ErrKeyMissing) {
		return domain.ErrUnknownSession
	}
	return err
}
