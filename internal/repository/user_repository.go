package repository

import (
	"context"

	"ashes-live/internal/domain/entity"
)

type UserRepository interface {
	// GetByEmail returns (nil, nil) when no user has the email.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByBadge returns (nil, nil) when no user has the badge.
	GetByBadge(ctx context.Context, badge string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
}
