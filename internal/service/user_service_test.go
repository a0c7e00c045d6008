package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karsei/sample-auth-service/internal/domain"
	"github.com/karsei/sample-auth-service/internal/service"
)

type fakeIdentityCache struct {
	entries map[string][]byte
	getErr  error
	setErr  error
	gets    int
	sets    int
}

func newFakeIdentityCache() *fakeIdentityCache {
	return &fakeIdentityCache{entries: make(map[string][]byte)}
}

func (c *fakeIdentityCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	raw, ok := c.entries[key]
	return raw, ok, nil
}

func (c *fakeIdentityCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	return nil
}

func TestUserServiceWithoutCache(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo(
		&domain.AuthUser{Username: "alice", Roles: []string{"USER"}, Active: true},
		&domain.AuthUser{Username: "bob", Roles: []string{"ADMIN"}, Active: true},
	)
	svc := service.NewUserService(repo, nil, 0, zap.NewNop())

	t.Run("load by username", func(t *testing.T) {
		t.Parallel()
		user, err := svc.LoadByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, []string{"USER"}, user.Roles)
	})

	t.Run("unknown username", func(t *testing.T) {
		t.Parallel()
		_, err := svc.LoadByUsername(context.Background(), "ghost")
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		users, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}

func TestUserServiceCache(t *testing.T) {
	t.Parallel()

	t.Run("miss fills the cache, hit skips the repository", func(t *testing.T) {
		t.Parallel()
		repo := newFakeUserRepo(&domain.AuthUser{
			Username:     "alice",
			PasswordHash: "bcrypt-hash",
			Roles:        []string{"USER", "AUDITOR"},
			Active:       true,
		})
		cache := newFakeIdentityCache()
		svc := service.NewUserService(repo, cache, time.Minute, zap.NewNop())

		first, err := svc.LoadByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "bcrypt-hash", first.PasswordHash)
		require.Equal(t, 1, repo.getCalls)
		require.Equal(t, 1, cache.sets)

		second, err := svc.LoadByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, repo.getCalls)
		assert.Equal(t, 2, cache.gets)
		assert.Equal(t, 1, cache.sets)
		assert.Equal(t, "alice", second.Username)
		assert.Equal(t, []string{"USER", "AUDITOR"}, second.Roles)
		assert.True(t, second.Active)
		assert.Empty(t, second.PasswordHash)
	})

	t.Run("cache trouble degrades to repository read", func(t *testing.T) {
		t.Parallel()
		repo := newFakeUserRepo(&domain.AuthUser{Username: "alice", Roles: []string{"USER"}, Active: true})
		cache := newFakeIdentityCache()
		cache.getErr = errors.New("connection refused")
		cache.setErr = errors.New("connection refused")
		svc := service.NewUserService(repo, cache, time.Minute, zap.NewNop())

		user, err := svc.LoadByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, 1, repo.getCalls)
	})

	t.Run("unreadable cache entry falls back", func(t *testing.T) {
		t.Parallel()
		repo := newFakeUserRepo(&domain.AuthUser{Username: "alice", Roles: []string{"USER"}, Active: true})
		cache := newFakeIdentityCache()
		cache.entries["auth:user:alice"] = []byte("{broken")
		svc := service.NewUserService(repo, cache, time.Minute, zap.NewNop())

		user, err := svc.LoadByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, 1, repo.getCalls)
	})
}
