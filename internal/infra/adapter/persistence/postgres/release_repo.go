package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ashes-live/internal/domain/entity"
	"ashes-live/internal/repository"
)

const releaseColumns = `r.id, r.name, r.stub, r.is_legacy, r.is_public, r.is_phg, r.is_promo, r.is_retiring,
       r.designer_name, r.designer_url, r.name_zh, r.stub_zh`

type ReleaseRepo struct{ db Querier }

func NewReleaseRepo(db Querier) repository.ReleaseRepository {
	return &ReleaseRepo{db: db}
}

func releaseDest(r *entity.Release) []any {
	return []any{
		&r.ID, &r.Name, &r.Stub, &r.IsLegacy, &r.IsPublic, &r.IsPHG, &r.IsPromo, &r.IsRetiring,
		&r.DesignerName, &r.DesignerURL, &r.NameZh, &r.StubZh,
	}
}

func (repo *ReleaseRepo) ListPublic(ctx context.Context, isLegacy bool, userID int64) ([]entity.ReleaseWithOwnership, error) {
	const query = `
SELECT ` + releaseColumns + `,
       EXISTS (SELECT 1 FROM user_release ur WHERE ur.release_id = r.id AND ur.user_id = $2) AS is_mine
FROM releases r
WHERE r.is_public = TRUE AND r.is_legacy = $1
ORDER BY r.id ASC`
	rows, err := repo.db.QueryContext(ctx, query, isLegacy, userID)
	if err != nil {
		return nil, fmt.Errorf("ListPublic: %w", err)
	}
	defer func() { _ = rows.Close() }()

	releases := make([]entity.ReleaseWithOwnership, 0, 32)
	for rows.Next() {
		var rw entity.ReleaseWithOwnership
		dest := append(releaseDest(&rw.Release), &rw.IsMine)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("ListPublic: %w", err)
		}
		releases = append(releases, rw)
	}
	return releases, rows.Err()
}

func (repo *ReleaseRepo) GetByStub(ctx context.Context, stub string, isLegacy bool) (*entity.Release, error) {
	const query = `
SELECT ` + releaseColumns + `
FROM releases r
WHERE (r.stub = $1 OR r.stub_zh = $1) AND r.is_legacy = $2
ORDER BY (r.stub = $1) DESC
LIMIT 1`
	var release entity.Release
	err := repo.db.QueryRowContext(ctx, query, stub, isLegacy).Scan(releaseDest(&release)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByStub: %w", err)
	}
	return &release, nil
}

func (repo *ReleaseRepo) FindByStubs(ctx context.Context, stubs []string, isLegacy bool) ([]*entity.Release, error) {
	if len(stubs) == 0 {
		return []*entity.Release{}, nil
	}
	query := `
SELECT ` + releaseColumns + `
FROM releases r
WHERE r.is_legacy = $1 AND r.stub IN (` + placeholders(2, len(stubs)) + `)
ORDER BY r.id ASC`
	args := make([]any, 0, len(stubs)+1)
	args = append(args, isLegacy)
	for _, s := range stubs {
		args = append(args, s)
	}

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("FindByStubs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	releases := make([]*entity.Release, 0, len(stubs))
	for rows.Next() {
		var release entity.Release
		if err := rows.Scan(releaseDest(&release)...); err != nil {
			return nil, fmt.Errorf("FindByStubs: %w", err)
		}
		releases = append(releases, &release)
	}
	return releases, rows.Err()
}

func (repo *ReleaseRepo) Create(ctx context.Context, release *entity.Release) error {
	const query = `
INSERT INTO releases
  (name, stub, is_legacy, is_public, is_phg, is_promo, is_retiring, designer_name, designer_url,
   name_zh, stub_zh)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		release.Name, release.Stub, release.IsLegacy, release.IsPublic,
		release.IsPHG, release.IsPromo, release.IsRetiring,
		release.DesignerName, release.DesignerURL, release.NameZh, release.StubZh,
	).Scan(&release.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", mapDuplicate(err))
	}
	return nil
}

func (repo *ReleaseRepo) ReplaceCollection(ctx context.Context, userID int64, releaseIDs []int64) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ReplaceCollection: BeginTx: %w", err)
	}
	defer rollback(tx)

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_release WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("ReplaceCollection: delete: %w", err)
	}

	if len(releaseIDs) > 0 {
		values := make([]string, len(releaseIDs))
		args := make([]any, 0, len(releaseIDs)+1)
		args = append(args, userID)
		for i, id := range releaseIDs {
			values[i] = fmt.Sprintf("($1, $%d)", i+2)
			args = append(args, id)
		}
		query := `INSERT INTO user_release (user_id, release_id) VALUES ` + strings.Join(values, ", ") +
			` ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("ReplaceCollection: insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ReplaceCollection: Commit: %w", err)
	}
	return nil
}

func (repo *ReleaseRepo) CountPublic(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM releases WHERE is_public = TRUE`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountPublic: %w", err)
	}
	return count, nil
}
