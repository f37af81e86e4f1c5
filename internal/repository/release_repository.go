package repository

import (
	"context"

	"ashes-live/internal/domain/entity"
)

type ReleaseRepository interface {
	// ListPublic returns public releases of the given era; IsMine reflects
	// userID's collection and is always false for userID 0.
	ListPublic(ctx context.Context, isLegacy bool, userID int64) ([]entity.ReleaseWithOwnership, error)
	// GetByStub matches the stub or the Chinese stub and returns (nil, nil)
	// when no release has it.
	GetByStub(ctx context.Context, stub string, isLegacy bool) (*entity.Release, error)
	FindByStubs(ctx context.Context, stubs []string, isLegacy bool) ([]*entity.Release, error)
	// Create returns ErrDuplicate when the stub is taken.
	Create(ctx context.Context, release *entity.Release) error
	// ReplaceCollection sets userID's owned releases to exactly releaseIDs.
	ReplaceCollection(ctx context.Context, userID int64, releaseIDs []int64) error
	CountPublic(ctx context.Context) (int64, error)
}
