package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ashes-live/internal/domain/entity"
	"ashes-live/internal/repository"
)

type UserRepo struct{ db Querier }

func NewUserRepo(db Querier) repository.UserRepository {
	return &UserRepo{db: db}
}

func (repo *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const query = `
SELECT id, email, badge, password_hash, is_admin, created_at
FROM users
WHERE email = $1
LIMIT 1`
	user, err := repo.get(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("GetByEmail: %w", err)
	}
	return user, nil
}

func (repo *UserRepo) GetByBadge(ctx context.Context, badge string) (*entity.User, error) {
	const query = `
SELECT id, email, badge, password_hash, is_admin, created_at
FROM users
WHERE badge = $1
LIMIT 1`
	user, err := repo.get(ctx, query, badge)
	if err != nil {
		return nil, fmt.Errorf("GetByBadge: %w", err)
	}
	return user, nil
}

func (repo *UserRepo) get(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := repo.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Badge, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (repo *UserRepo) Create(ctx context.Context, user *entity.User) error {
	const query = `
INSERT INTO users (email, badge, password_hash, is_admin)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		user.Email, user.Badge, user.PasswordHash, user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", mapDuplicate(err))
	}
	return nil
}
