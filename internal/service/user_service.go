package service

import (
	"context"
	"errors"

	"github.com/dom/weather-gate/internal/domain"
	"github.com/dom/weather-gate/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserService is the user directory: it owns user records and checks credentials.
type UserService struct {
	userRepo repository.UserRepository
	cost     int
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		cost:     bcrypt.DefaultCost,
	}
}

// CreateUser stores a new user with a bcrypt hash of password. The record is
// durable by the time CreateUser returns.
func (s *UserService) CreateUser(ctx context.Context, login, password string) (*domain.User, error) {
	// Skip the hashing cost for the common duplicate case; Create still
	// rejects a racing sign-up for the same login.
	if _, err := s.userRepo.GetByUsername(ctx, login); err == nil {
		return nil, domain.ErrDuplicateUser
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     login,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) SignIn(ctx context.Context, login, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, login)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}
