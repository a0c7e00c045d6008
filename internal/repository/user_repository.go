package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karsei/sample-auth-service/internal/domain"
)

// UserRepository defines persistence access for authenticatable users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.AuthUser) error
	GetByUsername(ctx context.Context, username string) (*domain.AuthUser, error)
	List(ctx context.Context) ([]*domain.AuthUser, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.AuthUser) error {
	const query = `
        INSERT INTO auth_users (username, password_hash, roles, active)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (username) DO UPDATE
            SET password_hash = EXCLUDED.password_hash,
                roles = EXCLUDED.roles,
                active = EXCLUDED.active,
                updated_at = NOW()
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Roles,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.AuthUser, error) {
	const query = `
        SELECT id, username, password_hash, roles, active, created_at, updated_at
        FROM auth_users WHERE username=$1`

	var user domain.AuthUser
	if err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Roles,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.AuthUser, error) {
	const query = `
        SELECT id, username, password_hash, roles, active, created_at, updated_at
        FROM auth_users ORDER BY username`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.AuthUser, 0)
	for rows.Next() {
		var user domain.AuthUser
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.PasswordHash,
			&user.Roles,
			&user.Active,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}
