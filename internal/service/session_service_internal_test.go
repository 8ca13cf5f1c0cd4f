package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dom/weather-gate/internal/domain"
	"github.com/dom/weather-gate/internal/kvstore"
	"github.com/dom/weather-gate/internal/repository"
	"github.com/dom/weather-gate/internal/repository/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRepos avoids testutil, which imports this package.
func newRepos(t *testing.T) *repository.Repositories {
	t.Helper()

	dir := t.TempDir()
	users, err := kvstore.OpenFile[domain.User](filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	sessions, err := kvstore.OpenFile[domain.Session](filepath.Join(dir, "sessions.json"))
	require.NoError(t, err)

	repos, err := kv.NewRepositories(context.Background(), users, sessions)
	require.NoError(t, err)
	require.NoError(t, repos.User.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "x"}))
	return repos
}

func TestSessionService_RetriesTokenCollision(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	s := NewSessionService(repos.Session, repos.User)

	require.NoError(t, repos.Session.Create(ctx, &domain.Session{Token: "taken", Username: "alice"}))

	tokens := []string{"taken", "taken", "fresh"}
	s.newToken = func() string {
		tok := tokens[0]
		tokens = tokens[1:]
		return tok
	}

	session, err := s.CreateSession(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "fresh", session.Token)
}

func TestSessionService_GivesUpAfterRepeatedCollisions(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	s := NewSessionService(repos.Session, repos.User)

	require.NoError(t, repos.Session.Create(ctx, &domain.Session{Token: "taken", Username: "alice"}))

	s.newToken = func() string { return "taken" }

	_, err := s.CreateSession(ctx, "alice")
	assert.ErrorIs(t, err, ErrTokenExhausted)
}
