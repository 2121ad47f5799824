package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// schema creates the tables on first start. There is no migration
// mechanism; the statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS teams (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	headquarters TEXT NOT NULL,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_teams_name ON teams(name);

CREATE TABLE IF NOT EXISTS heroes (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	age             INTEGER,
	secret_name     TEXT NOT NULL,
	hashed_password TEXT NOT NULL,
	team_id         TEXT REFERENCES teams(id) ON DELETE SET NULL,
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_heroes_name ON heroes(name);
CREATE INDEX IF NOT EXISTS idx_heroes_team_id ON heroes(team_id);

CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	username        TEXT NOT NULL UNIQUE,
	full_name       TEXT NOT NULL,
	hashed_password TEXT NOT NULL,
	disabled        INTEGER NOT NULL DEFAULT 0
);
`

// Store wraps the SQLite handle shared by all repositories.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database file at path, creating it and the
// tables if they do not exist yet.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB returns the underlying handle for repository use.
func (s *Store) DB() *sql.DB {
	return s.db
}
