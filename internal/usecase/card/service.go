package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ashes-live/internal/common/pagination"
	"ashes-live/internal/domain/entity"
	"ashes-live/internal/repository"
	"ashes-live/internal/usecase/release"

	"golang.org/x/sync/errgroup"
)

// CreateInput represents the input parameters for creating a new card.
// Dice and AltDice hold die names; when Dice is nil the primary dice are
// read from the magic-cost tokens of Cost and EffectMagicCost.
type CreateInput struct {
	EntityID      int64 // Optional: assigned by the database when zero
	Name          string
	Stub          string // Optional: generated from Name when empty
	ReleaseStub   string
	CardType      string
	Phoenixborn   *string
	IsSummonSpell bool
	IsLegacy      bool
	Version       int
	Copies        *int
	Dice          []string
	AltDice       []string
	Details       entity.CardDetails
	ArtistName    *string
	ArtistURL     *string

	// Optional traditional Chinese printing; StubZh defaults to the stub of NameZh.
	NameZh    *string
	StubZh    *string
	DetailsZh *entity.CardDetails
}

// Service provides card use cases.
type Service struct {
	Repo     repository.CardRepository
	Releases repository.ReleaseRepository
}

// Listing returns the collaborator that counts and fetches the cards
// matching filters, for use with pagination.Compute. A "mine" scope without
// a user falls back to every release.
func (s *Service) Listing(filters repository.CardFilters) pagination.Fetcher[*entity.Card] {
	if filters.Releases == repository.ReleasesMine && filters.UserID == 0 {
		filters.Releases = repository.ReleasesAll
	}
	return pagination.FetcherFuncs[*entity.Card]{
		CountFunc: func(ctx context.Context) (int64, error) {
			return s.Repo.Count(ctx, filters)
		},
		FetchFunc: func(ctx context.Context, offset, limit int) ([]*entity.Card, error) {
			return s.Repo.List(ctx, filters, offset, limit)
		},
	}
}

// Get retrieves a card by stub together with the conjurations it brings into
// play and the cards that summon it.
// Returns ErrInvalidStub for an empty stub and ErrCardNotFound when no card matches.
func (s *Service) Get(ctx context.Context, stub string, isLegacy bool) (*entity.Card, error) {
	if stub == "" {
		return nil, ErrInvalidStub
	}

	card, err := s.Repo.GetByStub(ctx, stub, isLegacy)
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	if card == nil {
		return nil, ErrCardNotFound
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		refs, err := s.Repo.ListConjurations(gctx, card.ID)
		if err != nil {
			return fmt.Errorf("list conjurations: %w", err)
		}
		card.Conjurations = refs
		return nil
	})
	g.Go(func() error {
		refs, err := s.Repo.ListSummons(gctx, card.ID)
		if err != nil {
			return fmt.Errorf("list summons: %w", err)
		}
		card.Summons = refs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return card, nil
}

// Create validates a new card and stores it together with links to the
// conjurations its text refers to; a failure leaves nothing behind. Returns
// release.ErrReleaseNotFound for an unknown release, entity.ErrUnknownDieKind
// for an unknown die name and ErrDuplicateCard when the stub is taken.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Card, error) {
	rel, err := s.Releases.GetByStub(ctx, in.ReleaseStub, in.IsLegacy)
	if err != nil {
		return nil, fmt.Errorf("get release: %w", err)
	}
	if rel == nil {
		return nil, fmt.Errorf("%w: %q", release.ErrReleaseNotFound, in.ReleaseStub)
	}

	dice := entity.DiceFromText(append(append([]string{}, in.Details.Cost...), in.Details.EffectMagicCost...)...)
	if in.Dice != nil {
		if dice, err = entity.EncodeDice(in.Dice); err != nil {
			return nil, err
		}
	}
	altDice, err := entity.EncodeDice(in.AltDice)
	if err != nil {
		return nil, err
	}

	card := &entity.Card{
		EntityID:      in.EntityID,
		Name:          in.Name,
		Stub:          in.Stub,
		Phoenixborn:   in.Phoenixborn,
		ReleaseID:     rel.ID,
		Release:       rel,
		Version:       in.Version,
		CardType:      in.CardType,
		IsSummonSpell: in.IsSummonSpell,
		IsLegacy:      in.IsLegacy,
		CostWeight:    entity.CostWeight(in.Details.Cost),
		DiceFlags:     dice,
		AltDiceFlags:  altDice,
		Copies:        in.Copies,
		Details:       in.Details,
		ArtistName:    in.ArtistName,
		ArtistURL:     in.ArtistURL,
		NameZh:        in.NameZh,
		StubZh:        in.StubZh,
		DetailsZh:     in.DetailsZh,
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.Repo.ExistsByStub(ctx, card.Stub, card.IsLegacy)
	if err != nil {
		return nil, fmt.Errorf("check card stub: %w", err)
	}
	if exists {
		return nil, ErrDuplicateCard
	}

	conjurations, ids, err := s.resolveConjurations(ctx, card)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, card, ids); err != nil {
		// Lost a race with a concurrent create of the same stub.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCard
		}
		return nil, fmt.Errorf("create card: %w", err)
	}
	card.Conjurations = conjurations

	slog.Info("card created",
		slog.Int64("card_id", card.ID),
		slog.String("stub", card.Stub),
		slog.String("card_type", card.CardType),
		slog.Int("conjurations", len(conjurations)))
	return card, nil
}

// resolveConjurations finds the conjured cards named in card's text.
// Names that match no conjured card are ignored.
func (s *Service) resolveConjurations(ctx context.Context, card *entity.Card) ([]entity.CardRef, []int64, error) {
	names := entity.CardReferences(card.Details.Text)
	if len(names) == 0 {
		return nil, nil, nil
	}

	found, err := s.Repo.FindByNames(ctx, names, card.IsLegacy)
	if err != nil {
		return nil, nil, fmt.Errorf("find conjurations: %w", err)
	}

	var refs []entity.CardRef
	var ids []int64
	for _, c := range found {
		if !entity.IsConjuredType(c.CardType) || c.Stub == card.Stub {
			continue
		}
		refs = append(refs, c.Ref())
		ids = append(ids, c.ID)
	}
	return refs, ids, nil
}

// CountByType returns the number of current cards per card type.
func (s *Service) CountByType(ctx context.Context) (map[string]int64, error) {
	counts, err := s.Repo.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("count cards by type: %w", err)
	}
	return counts, nil
}
