package kv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dom/weather-gate/internal/domain"
	"github.com/dom/weather-gate/internal/kvstore"
	"github.com/dom/weather-gate/internal/repository"
	"github.com/dom/weather-gate/internal/repository/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileRepos(t *testing.T, dir string) *repository.Repositories {
	t.Helper()

	users, err := kvstore.OpenFile[domain.User](filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	sessions, err := kvstore.OpenFile[domain.Session](filepath.Join(dir, "sessions.json"))
	require.NoError(t, err)

	repos, err := kv.NewRepositories(context.Background(), users, sessions)
	require.NoError(t, err)
	return repos
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repos := newFileRepos(t, t.TempDir())

	require.NoError(t, repos.User.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h1"}))

	err := repos.User.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h2"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)

	got, err := repos.User.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h1", got.PasswordHash)

	_, err = repos.User.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUnknownUser)
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repos := newFileRepos(t, t.TempDir())

	require.NoError(t, repos.Session.Create(ctx, &domain.Session{Token: "tok", Username: "alice"}))
	assert.ErrorIs(t, repos.Session.Create(ctx, &domain.Session{Token: "tok", Username: "bob"}), domain.ErrKeyExists)

	got, err := repos.Session.GetByToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = repos.Session.GetByToken(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnknownSession)

	require.NoError(t, repos.Session.Delete(ctx, "tok"))
	_, err = repos.Session.GetByToken(ctx, "tok")
	assert.ErrorIs(t, err, domain.ErrUnknownSession)
	assert.ErrorIs(t, repos.Session.Delete(ctx, "tok"), domain.ErrUnknownSession)
}

func TestRepositories_SurviveRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repos := newFileRepos(t, dir)
	require.NoError(t, repos.User.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h"}))
	require.NoError(t, repos.Session.Create(ctx, &domain.Session{Token: "tok", Username: "alice"}))

	reopened := newFileRepos(t, dir)
	_, err := reopened.User.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	session, err := reopened.Session.GetByToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
}

func TestNewRepositories_CorruptStoreAborts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sessions.json"), []byte("{oops"), 0o644))

	users, err := kvstore.OpenFile[domain.User](filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	sessions, err := kvstore.OpenFile[domain.Session](filepath.Join(dir, "sessions.json"))
	require.NoError(t, err)

	_, err = kv.NewRepositories(context.Background(), users, sessions)
	assert.ErrorIs(t, err, domain.ErrStorageIO)
}
