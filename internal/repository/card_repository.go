package repository

import (
	"context"

	"ashes-live/internal/domain/entity"
)

// CardSort selects the ordering of a card listing.
type CardSort string

const (
	SortByName CardSort = "name"
	SortByType CardSort = "type"
	SortByDice CardSort = "dice"
	SortByCost CardSort = "cost"
)

// ReleaseScope limits a card listing to a subset of releases.
type ReleaseScope string

const (
	ReleasesAll  ReleaseScope = ""
	ReleasesMine ReleaseScope = "mine"
	ReleasesPHG  ReleaseScope = "phg"
)

// CardFilters contains the optional filters and ordering of a card listing.
// The zero value lists every current, public card by name.
type CardFilters struct {
	Query      string           // Optional: case-insensitive match on name or text
	Types      []string         // Optional: any of these card types
	Dice       entity.DiceFlags // Optional: dice weight must include every bit
	Releases   ReleaseScope
	UserID     int64 // Required when Releases is ReleasesMine
	ShowLegacy bool  // List legacy printings instead of current ones
	Sort       CardSort
	Descending bool
}

type CardRepository interface {
	// Count returns the number of cards matching filters.
	Count(ctx context.Context, filters CardFilters) (int64, error)
	// List returns one window of cards matching filters, in filter order with
	// the card id as tiebreaker. Returned cards carry their release.
	List(ctx context.Context, filters CardFilters, offset, limit int) ([]*entity.Card, error)
	// GetByStub matches the stub or the Chinese stub and returns (nil, nil)
	// when no card has it.
	GetByStub(ctx context.Context, stub string, isLegacy bool) (*entity.Card, error)
	// FindByNames returns the cards whose name is in names.
	FindByNames(ctx context.Context, names []string, isLegacy bool) ([]*entity.Card, error)
	ListConjurations(ctx context.Context, cardID int64) ([]entity.CardRef, error)
	ListSummons(ctx context.Context, cardID int64) ([]entity.CardRef, error)
	// Create inserts card together with its conjuration links; either both
	// are stored or neither is. Returns ErrDuplicate when the stub is taken.
	Create(ctx context.Context, card *entity.Card, conjurationIDs []int64) error
	ExistsByStub(ctx context.Context, stub string, isLegacy bool) (bool, error)
	// CountByType returns the number of current cards per card type.
	CountByType(ctx context.Context) (map[string]int64, error)
}
