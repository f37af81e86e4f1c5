package fixtures

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"ashes-live/internal/domain/entity"
	"ashes-live/internal/repository"
)

// MemoryReleases is an in-memory repository.ReleaseRepository that also
// holds user collections.
type MemoryReleases struct {
	mu          sync.RWMutex
	releases    []*entity.Release
	collections map[int64]map[int64]bool
	Err         error // returned by every method when set
}

// NewMemoryReleases returns an empty release store.
func NewMemoryReleases() *MemoryReleases {
	return &MemoryReleases{collections: map[int64]map[int64]bool{}}
}

func (m *MemoryReleases) ListPublic(_ context.Context, isLegacy bool, userID int64) ([]entity.ReleaseWithOwnership, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []entity.ReleaseWithOwnership{}
	for _, r := range m.releases {
		if r.IsPublic && r.IsLegacy == isLegacy {
			out = append(out, entity.ReleaseWithOwnership{Release: *r, IsMine: m.collections[userID][r.ID]})
		}
	}
	return out, nil
}

// GetByStub prefers a stub match over a Chinese stub match.
func (m *MemoryReleases) GetByStub(_ context.Context, stub string, isLegacy bool) (*entity.Release, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r := m.find(stub, isLegacy); r != nil {
		cp := *r
		return &cp, nil
	}
	for _, r := range m.releases {
		if r.StubZh != nil && *r.StubZh == stub && r.IsLegacy == isLegacy {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryReleases) find(stub string, isLegacy bool) *entity.Release {
	for _, r := range m.releases {
		if r.Stub == stub && r.IsLegacy == isLegacy {
			return r
		}
	}
	return nil
}

func (m *MemoryReleases) FindByStubs(_ context.Context, stubs []string, isLegacy bool) ([]*entity.Release, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*entity.Release{}
	for _, stub := range stubs {
		if r := m.find(stub, isLegacy); r != nil {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryReleases) Create(_ context.Context, release *entity.Release) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.find(release.Stub, release.IsLegacy) != nil {
		return fmt.Errorf("%w: release stub %q", repository.ErrDuplicate, release.Stub)
	}
	release.ID = int64(len(m.releases) + 1)
	cp := *release
	m.releases = append(m.releases, &cp)
	return nil
}

func (m *MemoryReleases) ReplaceCollection(_ context.Context, userID int64, releaseIDs []int64) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	owned := make(map[int64]bool, len(releaseIDs))
	for _, id := range releaseIDs {
		owned[id] = true
	}
	m.collections[userID] = owned
	return nil
}

func (m *MemoryReleases) CountPublic(_ context.Context) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, r := range m.releases {
		if r.IsPublic {
			n++
		}
	}
	return n, nil
}

// Owns reports whether userID's collection contains releaseID.
func (m *MemoryReleases) Owns(userID, releaseID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collections[userID][releaseID]
}

func (m *MemoryReleases) byID(id int64) *entity.Release {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.releases {
		if r.ID == id {
			cp := *r
			return &cp
		}
	}
	return nil
}

// MemoryCards is an in-memory repository.CardRepository. It applies the
// same filters and orderings as the Postgres repository.
type MemoryCards struct {
	mu       sync.RWMutex
	cards    []*entity.Card
	links    map[int64][]int64 // card id -> conjuration ids
	releases *MemoryReleases
	Err      error // returned by every method when set
	LinkErr  error // fails Create of a card with conjurations; nothing is stored
}

// NewMemoryCards returns an empty card store whose cards belong to releases.
func NewMemoryCards(releases *MemoryReleases) *MemoryCards {
	return &MemoryCards{links: map[int64][]int64{}, releases: releases}
}

func (m *MemoryCards) matching(filters repository.CardFilters) []*entity.Card {
	m.mu.RLock()
	defer m.mu.RUnlock()
	query := strings.ToLower(filters.Query)
	var out []*entity.Card
	for _, c := range m.cards {
		rel := m.releases.byID(c.ReleaseID)
		if c.IsLegacy != filters.ShowLegacy || rel == nil || !rel.IsPublic {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(searchText(c)), query) {
			continue
		}
		if len(filters.Types) > 0 && !slices.Contains(filters.Types, c.CardType) {
			continue
		}
		if filters.Dice != 0 && !c.DiceWeight().Has(filters.Dice) {
			continue
		}
		switch filters.Releases {
		case repository.ReleasesMine:
			if !m.releases.Owns(filters.UserID, c.ReleaseID) {
				continue
			}
		case repository.ReleasesPHG:
			if !rel.IsPHG {
				continue
			}
		}
		cp := *c
		cp.Release = rel
		out = append(out, &cp)
	}

	less := func(a, b *entity.Card) (bool, bool) {
		switch filters.Sort {
		case repository.SortByType:
			if a.TypeRank() != b.TypeRank() {
				return a.TypeRank() < b.TypeRank(), true
			}
		case repository.SortByDice:
			if a.DiceWeight() != b.DiceWeight() {
				return a.DiceWeight() < b.DiceWeight(), true
			}
		case repository.SortByCost:
			if a.CostWeight != b.CostWeight {
				return a.CostWeight < b.CostWeight, true
			}
		}
		if a.Name != b.Name {
			return a.Name < b.Name, true
		}
		return false, false
	}
	sort.SliceStable(out, func(i, j int) bool {
		lt, decided := less(out[i], out[j])
		if !decided {
			return out[i].ID < out[j].ID
		}
		if filters.Descending {
			return !lt
		}
		return lt
	})
	return out
}

// searchText joins the names and texts the listing query matches against.
func searchText(c *entity.Card) string {
	parts := []string{c.Name, c.Details.Text}
	if c.NameZh != nil {
		parts = append(parts, *c.NameZh)
	}
	if c.DetailsZh != nil {
		parts = append(parts, c.DetailsZh.Text)
	}
	return strings.Join(parts, "\n")
}

func (m *MemoryCards) Count(_ context.Context, filters repository.CardFilters) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.matching(filters))), nil
}

func (m *MemoryCards) List(_ context.Context, filters repository.CardFilters, offset, limit int) ([]*entity.Card, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	all := m.matching(filters)
	if offset >= len(all) {
		return []*entity.Card{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (m *MemoryCards) GetByStub(_ context.Context, stub string, isLegacy bool) (*entity.Card, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.find(stub, isLegacy)
	if c == nil {
		for _, zh := range m.cards {
			if zh.StubZh != nil && *zh.StubZh == stub && zh.IsLegacy == isLegacy {
				c = zh
				break
			}
		}
	}
	if c == nil {
		return nil, nil
	}
	cp := *c
	cp.Release = m.releases.byID(c.ReleaseID)
	return &cp, nil
}

func (m *MemoryCards) find(stub string, isLegacy bool) *entity.Card {
	for _, c := range m.cards {
		if c.Stub == stub && c.IsLegacy == isLegacy {
			return c
		}
	}
	return nil
}

func (m *MemoryCards) FindByNames(_ context.Context, names []string, isLegacy bool) ([]*entity.Card, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*entity.Card{}
	for _, c := range m.cards {
		if c.IsLegacy == isLegacy && slices.Contains(names, c.Name) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryCards) ListConjurations(_ context.Context, cardID int64) ([]entity.CardRef, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	refs := []entity.CardRef{}
	for _, id := range m.links[cardID] {
		if c := m.byID(id); c != nil {
			refs = append(refs, c.Ref())
		}
	}
	return refs, nil
}

func (m *MemoryCards) ListSummons(_ context.Context, cardID int64) ([]entity.CardRef, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	refs := []entity.CardRef{}
	for _, c := range m.cards {
		for _, id := range m.links[c.ID] {
			if id == cardID {
				refs = append(refs, c.Ref())
			}
		}
	}
	return refs, nil
}

func (m *MemoryCards) Create(_ context.Context, card *entity.Card, conjurationIDs []int64) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.find(card.Stub, card.IsLegacy) != nil {
		return fmt.Errorf("%w: card stub %q", repository.ErrDuplicate, card.Stub)
	}
	if m.LinkErr != nil && len(conjurationIDs) > 0 {
		return m.LinkErr
	}
	card.ID = int64(len(m.cards) + 1)
	if card.EntityID == 0 {
		card.EntityID = 1000 + card.ID
	}
	cp := *card
	cp.Release = nil
	cp.Conjurations, cp.Summons = nil, nil
	m.cards = append(m.cards, &cp)
	for _, id := range conjurationIDs {
		if !slices.Contains(m.links[card.ID], id) {
			m.links[card.ID] = append(m.links[card.ID], id)
		}
	}
	return nil
}

func (m *MemoryCards) ExistsByStub(_ context.Context, stub string, isLegacy bool) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.find(stub, isLegacy) != nil, nil
}

func (m *MemoryCards) CountByType(_ context.Context) (map[string]int64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[string]int64{}
	for _, c := range m.cards {
		if !c.IsLegacy {
			counts[c.CardType]++
		}
	}
	return counts, nil
}

// byID must be called with m.mu held.
func (m *MemoryCards) byID(id int64) *entity.Card {
	for _, c := range m.cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// MemoryUsers is an in-memory repository.UserRepository.
type MemoryUsers struct {
	mu    sync.RWMutex
	users []*entity.User
	Err   error
}

func (m *MemoryUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Email == email })
}

func (m *MemoryUsers) GetByBadge(_ context.Context, badge string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Badge == badge })
}

func (m *MemoryUsers) Create(_ context.Context, user *entity.User) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = int64(len(m.users) + 1)
	cp := *user
	m.users = append(m.users, &cp)
	return nil
}

func (m *MemoryUsers) find(match func(*entity.User) bool) (*entity.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

var (
	_ repository.ReleaseRepository = (*MemoryReleases)(nil)
	_ repository.CardRepository    = (*MemoryCards)(nil)
	_ repository.UserRepository    = (*MemoryUsers)(nil)
)
