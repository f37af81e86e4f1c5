// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"ashes-live/internal/repository"
)

// uniqueViolation is the SQLSTATE of unique_violation.
const uniqueViolation = "23505"

// Querier is the subset of *sql.DB the repositories need. It is satisfied by
// *sql.DB and by circuitbreaker.DBCircuitBreaker.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// escapeILIKE wraps keyword in % wildcards after escaping the ILIKE
// metacharacters it contains.
func escapeILIKE(keyword string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(keyword) + "%"
}

// placeholders returns "$start, $start+1, ..." for n parameters.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

// rollback is deferred after BeginTx; it is a no-op once the tx has committed.
func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}

// mapDuplicate turns a unique violation into repository.ErrDuplicate and
// leaves other errors alone.
func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
