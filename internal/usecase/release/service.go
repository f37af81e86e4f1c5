package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ashes-live/internal/domain/entity"
	"ashes-live/internal/repository"
)

// CreateInput represents the input parameters for creating a new release.
type CreateInput struct {
	Name         string
	Stub         string // Optional: generated from Name when empty
	IsLegacy     bool
	IsPublic     bool
	IsPHG        bool
	IsPromo      bool
	IsRetiring   bool
	DesignerName *string
	DesignerURL  *string
	NameZh       *string // Optional: traditional Chinese name
	StubZh       *string // Optional: generated from NameZh when empty
}

// Service provides release listing and collection management.
type Service struct {
	Repo repository.ReleaseRepository
}

// List returns the public releases of the given era. When userID is not
// zero each release reports whether that user owns it.
func (s *Service) List(ctx context.Context, isLegacy bool, userID int64) ([]entity.ReleaseWithOwnership, error) {
	releases, err := s.Repo.ListPublic(ctx, isLegacy, userID)
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	return releases, nil
}

// Create validates and stores a new release.
// Returns ErrDuplicateRelease if the stub is taken within the same era.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Release, error) {
	r := entity.NewRelease(in.Name, in.Stub)
	r.IsLegacy = in.IsLegacy
	r.IsPublic = in.IsPublic
	r.IsPHG = in.IsPHG
	r.IsPromo = in.IsPromo
	r.IsRetiring = in.IsRetiring
	r.DesignerName = in.DesignerName
	r.DesignerURL = in.DesignerURL
	r.NameZh = in.NameZh
	r.StubZh = in.StubZh
	if err := r.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.Repo.GetByStub(ctx, r.Stub, r.IsLegacy)
	if err != nil {
		return nil, fmt.Errorf("check release stub: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateRelease
	}

	if err := s.Repo.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateRelease
		}
		return nil, fmt.Errorf("create release: %w", err)
	}
	return r, nil
}

// UpdateCollection replaces the set of current releases userID owns with
// the releases named by stubs. Duplicate stubs are ignored; an empty list
// clears the collection. Unknown or non-public stubs fail the whole update.
func (s *Service) UpdateCollection(ctx context.Context, userID int64, stubs []string) error {
	unique := make([]string, 0, len(stubs))
	seen := make(map[string]struct{}, len(stubs))
	for _, stub := range stubs {
		if _, ok := seen[stub]; ok {
			continue
		}
		seen[stub] = struct{}{}
		unique = append(unique, stub)
	}

	var ids []int64
	if len(unique) > 0 {
		found, err := s.Repo.FindByStubs(ctx, unique, false)
		if err != nil {
			return fmt.Errorf("find releases: %w", err)
		}
		byStub := make(map[string]int64, len(found))
		for _, r := range found {
			if r.IsPublic {
				byStub[r.Stub] = r.ID
			}
		}
		for _, stub := range unique {
			id, ok := byStub[stub]
			if !ok {
				return fmt.Errorf("%w: %q", ErrReleaseNotFound, stub)
			}
			ids = append(ids, id)
		}
	}

	if err := s.Repo.ReplaceCollection(ctx, userID, ids); err != nil {
		return fmt.Errorf("replace collection: %w", err)
	}
	slog.Info("collection updated",
		slog.Int64("user_id", userID),
		slog.Int("releases", len(ids)))
	return nil
}

// CountPublic returns the number of public releases.
func (s *Service) CountPublic(ctx context.Context) (int64, error) {
	n, err := s.Repo.CountPublic(ctx)
	if err != nil {
		return 0, fmt.Errorf("count releases: %w", err)
	}
	return n, nil
}
