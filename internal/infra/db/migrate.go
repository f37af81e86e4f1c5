package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/releases.sql
var seedReleasesSQL string

// MigrateUp creates the card database schema and seeds the official releases.
// Every statement is idempotent so the API can run it on each start.
func MigrateUp(db *sql.DB) error {
	tables := []string{
		`
CREATE TABLE IF NOT EXISTS releases (
    id            SERIAL PRIMARY KEY,
    name          VARCHAR(60) NOT NULL,
    stub          VARCHAR(60) NOT NULL,
    is_legacy     BOOLEAN NOT NULL DEFAULT FALSE,
    is_public     BOOLEAN NOT NULL DEFAULT FALSE,
    is_phg        BOOLEAN NOT NULL DEFAULT FALSE,
    is_promo      BOOLEAN NOT NULL DEFAULT FALSE,
    is_retiring   BOOLEAN NOT NULL DEFAULT FALSE,
    designer_name VARCHAR(100),
    designer_url  VARCHAR(255),
    name_zh       VARCHAR(60),
    stub_zh       VARCHAR(60),
    UNIQUE (stub, is_legacy)
)`,
		`
CREATE TABLE IF NOT EXISTS cards (
    id              SERIAL PRIMARY KEY,
    entity_id       SERIAL UNIQUE,
    name            VARCHAR(30) NOT NULL,
    stub            VARCHAR(30) NOT NULL,
    phoenixborn     VARCHAR(25),
    release_id      INTEGER NOT NULL REFERENCES releases(id),
    version         INTEGER NOT NULL DEFAULT 1,
    card_type       VARCHAR(25) NOT NULL,
    is_summon_spell BOOLEAN NOT NULL DEFAULT FALSE,
    is_legacy       BOOLEAN NOT NULL DEFAULT FALSE,
    cost_weight     INTEGER NOT NULL DEFAULT 0,
    dice_flags      INTEGER NOT NULL DEFAULT 0,
    alt_dice_flags  INTEGER NOT NULL DEFAULT 0,
    copies          SMALLINT,
    details         JSONB NOT NULL DEFAULT '{}'::jsonb,
    search_text     TEXT,
    artist_name     VARCHAR(100),
    artist_url      VARCHAR(255),
    name_zh         VARCHAR(30),
    stub_zh         VARCHAR(30),
    json_zh         JSONB,
    search_text_zh  TEXT,
    UNIQUE (stub, is_legacy)
)`,
		`
CREATE TABLE IF NOT EXISTS card_conjuration (
    card_id        INTEGER NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
    conjuration_id INTEGER NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
    PRIMARY KEY (card_id, conjuration_id)
)`,
		`
CREATE TABLE IF NOT EXISTS users (
    id            SERIAL PRIMARY KEY,
    email         VARCHAR(254) NOT NULL UNIQUE,
    badge         VARCHAR(32) NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`
CREATE TABLE IF NOT EXISTS user_release (
    user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    release_id INTEGER NOT NULL REFERENCES releases(id) ON DELETE CASCADE,
    PRIMARY KEY (user_id, release_id)
)`,
	}
	for _, stmt := range tables {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Columns used by filters, the sort orders of the card listing and
	// lookups by Chinese stub.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_releases_public ON releases(is_public, is_legacy)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_card_type ON cards(card_type)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_phoenixborn ON cards(phoenixborn)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_cost_weight ON cards(cost_weight)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_dice_weight ON cards((dice_flags | alt_dice_flags))`,
		`CREATE INDEX IF NOT EXISTS idx_cards_release_id ON cards(release_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_stub_zh ON cards(stub_zh)`,
		`CREATE INDEX IF NOT EXISTS idx_releases_stub_zh ON releases(stub_zh)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// pg_trgm needs superuser rights on some hosts; ILIKE still works without it.
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	_, _ = db.Exec(`CREATE INDEX IF NOT EXISTS idx_cards_search_text_gin ON cards USING gin(search_text gin_trgm_ops)`)

	if _, err := db.Exec(seedReleasesSQL); err != nil {
		return err
	}

	return nil
}

// MigrateDown drops the schema in reverse order of creation.
// All card, release and collection data is lost.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS user_release`,
		`DROP TABLE IF EXISTS users`,
		`DROP TABLE IF EXISTS card_conjuration`,
		`DROP TABLE IF EXISTS cards`,
		`DROP TABLE IF EXISTS releases`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
