// Package fixtures provides a small card database for tests: two releases
// and one card of every type, stored in memory or created through the card
// services.
package fixtures

import (
	"context"
	"fmt"

	"ashes-live/internal/domain/entity"
	"ashes-live/internal/usecase/card"
	"ashes-live/internal/usecase/release"
)

// Release stubs of the fixture database.
const (
	MasterSet      = "master-set"
	FirstExpansion = "first-expansion"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// ReleaseInputs returns the two public releases of the fixture database.
func ReleaseInputs(isLegacy bool) []release.CreateInput {
	return []release.CreateInput{
		{Name: "Master Set", IsLegacy: isLegacy, IsPublic: true},
		{Name: "First Expansion", IsLegacy: isLegacy, IsPublic: true},
	}
}

// CardInputs returns one card of every type in creation order: conjurations
// come first so the cards that summon them can link to them.
func CardInputs(isLegacy bool) []card.CreateInput {
	in := []card.CreateInput{
		{
			Name:        "Example Conjuration",
			CardType:    entity.TypeConjuration,
			ReleaseStub: MasterSet,
			Copies:      intPtr(3),
			Details: entity.CardDetails{
				Placement: "Battlefield",
				Attack:    strPtr("0"),
				Life:      strPtr("2"),
				Recover:   strPtr("0"),
			},
		},
		{
			Name:        "Example Conjured Alteration",
			CardType:    entity.TypeConjuredAlterationSpell,
			ReleaseStub: MasterSet,
			Phoenixborn: strPtr("Example Phoenixborn"),
			Copies:      intPtr(2),
			Details: entity.CardDetails{
				Placement:       "Unit",
				Text:            "Whoops: 1 [[basic]] - 1 [[discard]]: Discard this spell.",
				EffectMagicCost: []string{"1 [[basic]]"},
				Attack:          strPtr("-2"),
			},
		},
		{
			Name:        "Example Phoenixborn",
			CardType:    entity.TypePhoenixborn,
			ReleaseStub: MasterSet,
			Details: entity.CardDetails{
				Text:            "Mess With Them: [[main]] - 1 [[illusion:class]]: Place a [[Example Conjured Alteration]] conjured alteration spell on opponent's unit.",
				EffectMagicCost: []string{"1 [[illusion:class]]"},
				Battlefield:     intPtr(5),
				Life:            strPtr("16"),
				Spellboard:      intPtr(4),
				CanEffectRepeat: true,
			},
		},
		{
			Name:        "Summon Example Conjuration",
			CardType:    entity.TypeReadySpell,
			ReleaseStub: MasterSet,
			Details: entity.CardDetails{
				Placement:       "Spellboard",
				Cost:            []string{"[[main]] - 1 [[basic]] - [[side]] / 1 [[discard]]"},
				Text:            "1 [[charm:class]]: Place a [[Example Conjuration]] conjuration on your battlefield.",
				EffectMagicCost: []string{"1 [[charm:class]]"},
			},
		},
		{
			Name:        "Example Ally",
			CardType:    entity.TypeAlly,
			ReleaseStub: MasterSet,
			Phoenixborn: strPtr("Example Phoenixborn"),
			Details: entity.CardDetails{
				Placement:       "Battlefield",
				Cost:            []string{"[[main]]", "1 [[natural:power]] / 1 [[illusion:power]]"},
				Text:            "Stuffiness: [[main]] - [[exhaust]] - 1 [[natural:class]] / 1 [[illusion:class]]: Do stuff.",
				EffectMagicCost: []string{"1 [[natural:class]] / 1 [[illusion:class]]"},
				Attack:          strPtr("2"),
				Life:            strPtr("1"),
				Recover:         strPtr("1"),
			},
		},
		{
			Name:        "Example Alteration",
			CardType:    entity.TypeAlterationSpell,
			ReleaseStub: MasterSet,
			Details: entity.CardDetails{
				Placement: "Unit",
				Cost:      []string{"[[side]] - 1 [[basic]] - 1 [[discard]]"},
				Attack:    strPtr("+2"),
				Recover:   strPtr("-1"),
			},
		},
		{
			Name:        "Example Ready Spell",
			CardType:    entity.TypeReadySpell,
			ReleaseStub: FirstExpansion,
			Details: entity.CardDetails{
				Placement: "Spellboard",
				Cost:      []string{"[[side]]"},
				Text:      "[[main]] - [[exhaust]]: Do more things.",
			},
		},
		{
			Name:        "Example Action",
			CardType:    entity.TypeActionSpell,
			ReleaseStub: FirstExpansion,
			AltDice:     []string{string(entity.DieSympathy)},
			Details: entity.CardDetails{
				Placement: "Discard",
				Cost:      []string{"[[main]] - 1 [[time:power]] - 1 [[basic]]"},
				Text:      "If you spent a [[sympathy:power]] to pay for this card, do more stuff.",
			},
		},
		{
			Name:        "Example Reaction",
			CardType:    entity.TypeReactionSpell,
			ReleaseStub: FirstExpansion,
			Details: entity.CardDetails{
				Placement: "Discard",
				Cost:      []string{"1 [[divine:class]] / 1 [[ceremonial:class]]"},
				Text:      "Do a happy dance.",
			},
		},
	}
	for i := range in {
		in[i].IsLegacy = isLegacy
	}
	return in
}

// CardDatabase is a populated in-memory card database and the services
// built over it.
type CardDatabase struct {
	Releases        *MemoryReleases
	Cards           *MemoryCards
	ReleaseService  *release.Service
	CardService     *card.Service
	CreatedReleases []*entity.Release
	CreatedCards    []*entity.Card
}

// NewCardDatabase creates the fixture releases and cards in memory.
func NewCardDatabase(ctx context.Context, isLegacy bool) (*CardDatabase, error) {
	releases := NewMemoryReleases()
	cards := NewMemoryCards(releases)
	db := &CardDatabase{
		Releases:       releases,
		Cards:          cards,
		ReleaseService: &release.Service{Repo: releases},
		CardService:    &card.Service{Repo: cards, Releases: releases},
	}
	if err := db.Seed(ctx, isLegacy); err != nil {
		return nil, err
	}
	return db, nil
}

// Seed creates the fixture releases and cards through the services.
func (db *CardDatabase) Seed(ctx context.Context, isLegacy bool) error {
	for _, in := range ReleaseInputs(isLegacy) {
		r, err := db.ReleaseService.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("seed release %q: %w", in.Name, err)
		}
		db.CreatedReleases = append(db.CreatedReleases, r)
	}
	for _, in := range CardInputs(isLegacy) {
		c, err := db.CardService.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("seed card %q: %w", in.Name, err)
		}
		db.CreatedCards = append(db.CreatedCards, c)
	}
	return nil
}
