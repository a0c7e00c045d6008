package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/karsei/sample-auth-service/internal/auth"
	"github.com/karsei/sample-auth-service/internal/domain"
	"github.com/karsei/sample-auth-service/internal/repository"
)

// SeedUser is one account parsed from the seed string.
type SeedUser struct {
	Username string
	Password string
	Roles    []string
}

// ParseSeedUsers parses a "user:password:ROLE1,ROLE2;..." seed string.
// Empty entries are skipped; an entry missing username or password is an error.
func ParseSeedUsers(raw string) ([]SeedUser, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var users []SeedUser
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid seed entry %q", entry)
		}

		var roles []string
		for _, role := range strings.Split(parts[2], ",") {
			if role = strings.TrimSpace(role); role != "" {
				roles = append(roles, role)
			}
		}
		users = append(users, SeedUser{
			Username: strings.TrimSpace(parts[0]),
			Password: parts[1],
			Roles:    roles,
		})
	}
	return users, nil
}

// SeedAccounts creates the seed accounts that do not exist yet, hashing
// their passwords. Existing accounts are left untouched.
func SeedAccounts(ctx context.Context, repo repository.UserRepository, bcryptCost int, raw string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	seeds, err := ParseSeedUsers(raw)
	if err != nil {
		return err
	}

	for _, seed := range seeds {
		if _, err := repo.GetByUsername(ctx, seed.Username); err == nil {
			continue
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		hash, err := auth.HashPassword(seed.Password, bcryptCost)
		if err != nil {
			return fmt.Errorf("hash seed password for %s: %w", seed.Username, err)
		}

		user := &domain.AuthUser{
			Username:     seed.Username,
			PasswordHash: hash,
			Roles:        seed.Roles,
			Active:       true,
		}
		if err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("seed account %s: %w", seed.Username, err)
		}
		logger.Info("seeded account", zap.String("username", seed.Username), zap.Strings("roles", seed.Roles))
	}
	return nil
}
