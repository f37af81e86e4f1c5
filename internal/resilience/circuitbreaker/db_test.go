package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sony/gobreaker"
)

func TestNewDBCircuitBreaker(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreaker(db)

	if dcb.DB() != db {
		t.Error("expected db to be set")
	}
	if dcb.State() != gobreaker.StateClosed {
		t.Errorf("expected initial state to be Closed, got %s", dcb.State())
	}
}

func TestDBCircuitBreaker_QueryContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreaker(db)
	mock.ExpectQuery("SELECT (.+) FROM cards").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Example Ally"))

	rows, err := dcb.QueryContext(context.Background(), "SELECT id, name FROM cards WHERE id = $1", 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		t.Fatal("expected at least one row")
	}
	var id int
	var name string
	if err := rows.Scan(&id, &name); err != nil {
		t.Fatalf("failed to scan row: %v", err)
	}
	if id != 1 || name != "Example Ally" {
		t.Errorf("got id=%d, name=%s", id, name)
	}
}

func TestDBCircuitBreaker_ExecAndBeginTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreaker(db)
	mock.ExpectExec("DELETE FROM user_release").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := dcb.ExecContext(context.Background(), "DELETE FROM user_release WHERE user_id = $1", 7)
	if err != nil {
		t.Fatalf("ExecContext error: %v", err)
	}
	if n, _ := result.RowsAffected(); n != 2 {
		t.Errorf("RowsAffected = %d, want 2", n)
	}

	tx, err := dcb.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTx error: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDBCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	cfg := DBConfig()
	cfg.Name = "db-open-test"
	cfg.Timeout = 100 * time.Millisecond
	dcb := NewDBCircuitBreakerWithConfig(db, cfg)

	dbErr := errors.New("connection refused")
	for i := 0; i < 5; i++ {
		mock.ExpectQuery("SELECT").WillReturnError(dbErr)
		if _, err := dcb.QueryContext(context.Background(), "SELECT 1"); err == nil {
			t.Fatalf("query %d: expected error", i)
		}
	}

	if !dcb.IsOpen() {
		t.Fatalf("expected circuit open, got %s", dcb.State())
	}
	if _, err := dcb.QueryContext(context.Background(), "SELECT 1"); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if _, err := dcb.BeginTx(context.Background(), nil); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("BeginTx: expected ErrOpenState, got %v", err)
	}

	time.Sleep(150 * time.Millisecond)
	mock.ExpectPing()
	if err := dcb.PingContext(context.Background()); err != nil {
		t.Errorf("PingContext in half-open state: %v", err)
	}
	if dcb.IsOpen() {
		t.Error("expected circuit to leave open state after successful probe")
	}
}

func TestDBCircuitBreaker_QueryRowContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreaker(db)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	var count int
	if err := dcb.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM cards").Scan(&count); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if count != 9 {
		t.Errorf("count = %d, want 9", count)
	}
}

func TestDBConfig(t *testing.T) {
	cfg := DBConfig()

	if cfg.Name != "database" {
		t.Errorf("expected Name='database', got %q", cfg.Name)
	}
	if cfg.MinRequests != 5 {
		t.Errorf("expected MinRequests=5, got %d", cfg.MinRequests)
	}
	if cfg.FailureThreshold != 1.0 {
		t.Errorf("expected FailureThreshold=1.0, got %v", cfg.FailureThreshold)
	}
}
