package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ashes-live/internal/domain/entity"
	"ashes-live/internal/repository"
)

const cardColumns = `c.id, c.entity_id, c.name, c.stub, c.phoenixborn, c.release_id, c.version, c.card_type,
       c.is_summon_spell, c.is_legacy, c.cost_weight, c.dice_flags, c.alt_dice_flags, c.copies,
       c.details, c.artist_name, c.artist_url,
       r.name, r.stub, r.is_legacy, r.is_public, r.is_phg, r.is_promo, r.is_retiring,
       c.name_zh, c.stub_zh, c.json_zh, r.name_zh, r.stub_zh`

const cardFrom = `
FROM cards c
JOIN releases r ON r.id = c.release_id`

type CardRepo struct {
	db      Querier
	builder *CardQueryBuilder
}

func NewCardRepo(db Querier) repository.CardRepository {
	return &CardRepo{db: db, builder: NewCardQueryBuilder()}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard scans one row selected with cardColumns.
func scanCard(s rowScanner) (*entity.Card, error) {
	var card entity.Card
	var release entity.Release
	var details, detailsZh []byte
	if err := s.Scan(
		&card.ID, &card.EntityID, &card.Name, &card.Stub, &card.Phoenixborn, &card.ReleaseID,
		&card.Version, &card.CardType, &card.IsSummonSpell, &card.IsLegacy, &card.CostWeight,
		&card.DiceFlags, &card.AltDiceFlags, &card.Copies, &details, &card.ArtistName, &card.ArtistURL,
		&release.Name, &release.Stub, &release.IsLegacy, &release.IsPublic,
		&release.IsPHG, &release.IsPromo, &release.IsRetiring,
		&card.NameZh, &card.StubZh, &detailsZh, &release.NameZh, &release.StubZh,
	); err != nil {
		return nil, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &card.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
	}
	if len(detailsZh) > 0 {
		card.DetailsZh = &entity.CardDetails{}
		if err := json.Unmarshal(detailsZh, card.DetailsZh); err != nil {
			return nil, fmt.Errorf("unmarshal zh details: %w", err)
		}
	}
	release.ID = card.ReleaseID
	card.Release = &release
	return &card, nil
}

func (repo *CardRepo) Count(ctx context.Context, filters repository.CardFilters) (int64, error) {
	where, args := repo.builder.BuildWhereClause(filters)
	query := "SELECT COUNT(*)" + cardFrom + "\n" + where

	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *CardRepo) List(ctx context.Context, filters repository.CardFilters, offset, limit int) ([]*entity.Card, error) {
	where, args := repo.builder.BuildWhereClause(filters)
	n := len(args)
	query := "SELECT " + cardColumns + cardFrom + "\n" + where + "\n" +
		repo.builder.BuildOrderBy(filters) + "\n" +
		fmt.Sprintf("LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, offset)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*entity.Card, 0, limit)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (repo *CardRepo) GetByStub(ctx context.Context, stub string, isLegacy bool) (*entity.Card, error) {
	query := "SELECT " + cardColumns + cardFrom + `
WHERE (c.stub = $1 OR c.stub_zh = $1) AND c.is_legacy = $2
ORDER BY (c.stub = $1) DESC
LIMIT 1`
	card, err := scanCard(repo.db.QueryRowContext(ctx, query, stub, isLegacy))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByStub: %w", err)
	}
	return card, nil
}

func (repo *CardRepo) FindByNames(ctx context.Context, names []string, isLegacy bool) ([]*entity.Card, error) {
	if len(names) == 0 {
		return []*entity.Card{}, nil
	}
	query := "SELECT " + cardColumns + cardFrom + `
WHERE c.is_legacy = $1 AND c.name IN (` + placeholders(2, len(names)) + `)
ORDER BY c.id ASC`
	args := make([]any, 0, len(names)+1)
	args = append(args, isLegacy)
	for _, name := range names {
		args = append(args, name)
	}

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("FindByNames: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*entity.Card, 0, len(names))
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("FindByNames: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (repo *CardRepo) ListConjurations(ctx context.Context, cardID int64) ([]entity.CardRef, error) {
	const query = `
SELECT c.id, c.name, c.stub, c.card_type
FROM card_conjuration cc
JOIN cards c ON c.id = cc.conjuration_id
WHERE cc.card_id = $1
ORDER BY c.id ASC`
	refs, err := repo.listRefs(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("ListConjurations: %w", err)
	}
	return refs, nil
}

func (repo *CardRepo) ListSummons(ctx context.Context, cardID int64) ([]entity.CardRef, error) {
	const query = `
SELECT c.id, c.name, c.stub, c.card_type
FROM card_conjuration cc
JOIN cards c ON c.id = cc.card_id
WHERE cc.conjuration_id = $1
ORDER BY c.id ASC`
	refs, err := repo.listRefs(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("ListSummons: %w", err)
	}
	return refs, nil
}

func (repo *CardRepo) listRefs(ctx context.Context, query string, cardID int64) ([]entity.CardRef, error) {
	rows, err := repo.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var refs []entity.CardRef
	for rows.Next() {
		var ref entity.CardRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Stub, &ref.CardType); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Create inserts card and its conjuration links in one transaction and sets
// the card's ID. A zero EntityID is assigned from the cards_entity_id_seq
// sequence.
func (repo *CardRepo) Create(ctx context.Context, card *entity.Card, conjurationIDs []int64) error {
	const query = `
INSERT INTO cards
  (entity_id, name, stub, phoenixborn, release_id, version, card_type, is_summon_spell, is_legacy,
   cost_weight, dice_flags, alt_dice_flags, copies, details, search_text, artist_name, artist_url,
   name_zh, stub_zh, json_zh, search_text_zh)
VALUES (COALESCE(NULLIF($1, 0), nextval('cards_entity_id_seq')),
        $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
RETURNING id, entity_id`
	details, err := json.Marshal(card.Details)
	if err != nil {
		return fmt.Errorf("Create: marshal details: %w", err)
	}
	var detailsZh any // NULL without a Chinese printing
	if card.DetailsZh != nil {
		raw, err := json.Marshal(card.DetailsZh)
		if err != nil {
			return fmt.Errorf("Create: marshal zh details: %w", err)
		}
		detailsZh = raw
	}

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Create: BeginTx: %w", err)
	}
	defer rollback(tx)

	err = tx.QueryRowContext(ctx, query,
		card.EntityID, card.Name, card.Stub, card.Phoenixborn, card.ReleaseID, card.Version,
		card.CardType, card.IsSummonSpell, card.IsLegacy, card.CostWeight,
		int(card.DiceFlags), int(card.AltDiceFlags), card.Copies, details, searchText(card),
		card.ArtistName, card.ArtistURL,
		card.NameZh, card.StubZh, detailsZh, searchTextZh(card),
	).Scan(&card.ID, &card.EntityID)
	if err != nil {
		return fmt.Errorf("Create: %w", mapDuplicate(err))
	}
	if err := linkConjurations(ctx, tx, card.ID, conjurationIDs); err != nil {
		return fmt.Errorf("Create: link conjurations: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Create: Commit: %w", err)
	}
	return nil
}

// searchText is the text matched by the listing query filter.
func searchText(card *entity.Card) string {
	parts := []string{card.Name}
	if card.Details.Text != "" {
		parts = append(parts, card.Details.Text)
	}
	return strings.Join(parts, "\n")
}

// searchTextZh is searchText for the Chinese printing; nil without one.
func searchTextZh(card *entity.Card) *string {
	var parts []string
	if card.NameZh != nil {
		parts = append(parts, *card.NameZh)
	}
	if card.DetailsZh != nil && card.DetailsZh.Text != "" {
		parts = append(parts, card.DetailsZh.Text)
	}
	if len(parts) == 0 {
		return nil
	}
	text := strings.Join(parts, "\n")
	return &text
}

func linkConjurations(ctx context.Context, tx *sql.Tx, cardID int64, conjurationIDs []int64) error {
	if len(conjurationIDs) == 0 {
		return nil
	}
	values := make([]string, len(conjurationIDs))
	args := make([]any, 0, len(conjurationIDs)+1)
	args = append(args, cardID)
	for i, id := range conjurationIDs {
		values[i] = fmt.Sprintf("($1, $%d)", i+2)
		args = append(args, id)
	}
	query := `
INSERT INTO card_conjuration (card_id, conjuration_id)
VALUES ` + strings.Join(values, ", ") + `
ON CONFLICT DO NOTHING`
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func (repo *CardRepo) ExistsByStub(ctx context.Context, stub string, isLegacy bool) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM cards WHERE stub = $1 AND is_legacy = $2)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, stub, isLegacy).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByStub: %w", err)
	}
	return exists, nil
}

func (repo *CardRepo) CountByType(ctx context.Context) (map[string]int64, error) {
	const query = `
SELECT card_type, COUNT(*)
FROM cards
WHERE is_legacy = FALSE
GROUP BY card_type`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CountByType: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int64)
	for rows.Next() {
		var cardType string
		var n int64
		if err := rows.Scan(&cardType, &n); err != nil {
			return nil, fmt.Errorf("CountByType: %w", err)
		}
		counts[cardType] = n
	}
	return counts, rows.Err()
}
