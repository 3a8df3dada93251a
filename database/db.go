package database

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the relational datastore and verifies the connection.
// Postgres URLs get the pq driver; anything else is treated as a sqlite
// DSN (used by tests with ":memory:"). The handle is returned to the
// caller and injected into each repository constructor — there is no
// package-level client.
func Connect(databaseURL string) (*sqlx.DB, error) {
	driver := "sqlite3"
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		driver = "postgres"
	}

	db, err := sqlx.Connect(driver, databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// schema uses type names both Postgres and sqlite accept. Timestamps are
// written from Go in UTC, so no dialect-specific defaults are needed.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		id                   TEXT PRIMARY KEY,
		name                 TEXT NOT NULL,
		mpesa_till_number    TEXT NOT NULL DEFAULT '',
		mpesa_paybill_number TEXT NOT NULL DEFAULT '',
		mpesa_passkey        TEXT NOT NULL DEFAULT '',
		mpesa_enabled        BOOLEAN NOT NULL DEFAULT FALSE,
		created_at           TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tabs (
		id          TEXT PRIMARY KEY,
		venue_id    TEXT NOT NULL REFERENCES venues(id),
		tab_number  INTEGER NOT NULL,
		status      TEXT NOT NULL DEFAULT 'open',
		owner_label TEXT NOT NULL DEFAULT '',
		notes       TEXT NOT NULL DEFAULT '',
		opened_at   TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tab_orders (
		id           TEXT PRIMARY KEY,
		tab_id       TEXT NOT NULL REFERENCES tabs(id),
		items        TEXT NOT NULL,
		total        DOUBLE PRECISION NOT NULL,
		status       TEXT NOT NULL DEFAULT 'pending',
		initiated_by TEXT NOT NULL,
		created_at   TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tab_payments (
		id         TEXT PRIMARY KEY,
		tab_id     TEXT NOT NULL REFERENCES tabs(id),
		amount     DOUBLE PRECISION NOT NULL,
		method     TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'pending',
		reference  TEXT NOT NULL DEFAULT '',
		metadata   TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tab_orders_tab ON tab_orders(tab_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tab_payments_tab ON tab_payments(tab_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tab_payments_reference ON tab_payments(reference)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
