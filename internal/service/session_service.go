package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/weather-gate/internal/domain"
	"github.com/dom/weather-gate/internal/repository"
	"github.com/google/uuid"
)

const maxTokenAttempts = 5

var ErrTokenExhausted = errors.New("could not generate a unique session token")

// SessionService is the session registry. It issues opaque tokens and
// resolves them back to users through the user repository.
type SessionService struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	newToken    func() string
}

func NewSessionService(sessionRepo repository.SessionRepository, userRepo repository.UserRepository) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		newToken:    func() string { return uuid.New().String() },
	}
}

func (s *SessionService) CreateSession(ctx context.Context, username string) (*domain.Session, error) {
	if _, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		session := &domain.Session{
			Token:    s.newToken(),
			Username: username,
		}

		err := s.sessionRepo.Create(ctx, session)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, domain.ErrKeyExists) {
			return nil, err
		}
	}

	return nil, ErrTokenExhausted
}

// GetUserByToken only reads; it is safe to call on every request.
func (s *SessionService) GetUserByToken(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, session.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownUser) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInconsistentState, session.Username)
		}
		return nil, err
	}

	return user, nil
}

func (s *SessionService) DeleteSession(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}
