package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/karsei/sample-auth-service/internal/domain"
	"github.com/karsei/sample-auth-service/internal/repository"
)

const userCacheKeyPrefix = "auth:user:"

// cachedUser is the cache projection of an account. Password hashes never
// enter the cache.
type cachedUser struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Active   bool     `json:"active"`
}

// UserService resolves accounts through a short-lived read-through cache in
// front of the repository. Cache trouble degrades to direct reads.
type UserService struct {
	repo     repository.UserRepository
	cache    IdentityCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewUserService builds the lookup service. A nil cache disables caching
// entirely.
func NewUserService(repo repository.UserRepository, cache IdentityCache, cacheTTL time.Duration, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// LoadByUsername returns the account for username, from cache when fresh.
func (s *UserService) LoadByUsername(ctx context.Context, username string) (*domain.AuthUser, error) {
	if user, ok := s.fromCache(ctx, username); ok {
		return user, nil
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	s.storeInCache(ctx, user)
	return user, nil
}

// List returns every registered account.
func (s *UserService) List(ctx context.Context) ([]*domain.AuthUser, error) {
	return s.repo.List(ctx)
}

func (s *UserService) fromCache(ctx context.Context, username string) (*domain.AuthUser, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}

	raw, ok, err := s.cache.Get(ctx, userCacheKey(username))
	if err != nil {
		s.logger.Debug("user cache read failed", zap.String("username", username), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var cached cachedUser
	if err := json.Unmarshal(raw, &cached); err != nil {
		s.logger.Debug("user cache entry unreadable", zap.String("username", username), zap.Error(err))
		return nil, false
	}
	return &domain.AuthUser{
		Username: cached.Username,
		Roles:    cached.Roles,
		Active:   cached.Active,
	}, true
}

func (s *UserService) storeInCache(ctx context.Context, user *domain.AuthUser) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}

	raw, err := json.Marshal(cachedUser{
		Username: user.Username,
		Roles:    user.Roles,
		Active:   user.Active,
	})
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, userCacheKey(user.Username), raw, s.cacheTTL); err != nil {
		s.logger.Debug("user cache write failed", zap.String("username", user.Username), zap.Error(err))
	}
}

func userCacheKey(username string) string {
	return fmt.Sprintf("%s%s", userCacheKeyPrefix, username)
}
