package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Ledger timestamps (added_at, expires_at, consumed_at) are stored as Unix
// milliseconds so that ordering and range checks are plain integer
// comparisons.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('admin', 'member', 'guest')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    id           INTEGER PRIMARY KEY,
    name         TEXT NOT NULL,
    barcode      TEXT UNIQUE,
    default_unit TEXT NOT NULL DEFAULT 'pcs',
    category     TEXT NOT NULL DEFAULT 'General',
    vegetarian   INTEGER NOT NULL DEFAULT 0,
    gluten_free  INTEGER NOT NULL DEFAULT 0,
    usual        INTEGER NOT NULL DEFAULT 0,
    image_url    TEXT,
    image        BLOB,
    image_mime   TEXT,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS batches (
    id         INTEGER PRIMARY KEY,
    item_id    INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    quantity   REAL NOT NULL CHECK (quantity >= 0),
    unit       TEXT NOT NULL,
    added_at   INTEGER NOT NULL,
    expires_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_batches_item ON batches(item_id);

CREATE TABLE IF NOT EXISTS consumption_events (
    id          INTEGER PRIMARY KEY,
    item_id     INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    consumed_at INTEGER NOT NULL,
    quantity    REAL NOT NULL CHECK (quantity >= 0),
    type        TEXT NOT NULL CHECK (type IN ('FINISHED', 'WASTED')),
    reason      TEXT
);

CREATE TABLE IF NOT EXISTS shopping_items (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    quantity   REAL NOT NULL DEFAULT 1,
    unit       TEXT NOT NULL DEFAULT 'pcs',
    checked    INTEGER NOT NULL DEFAULT 0,
    frequency  TEXT NOT NULL DEFAULT 'ONE_OFF' CHECK (frequency IN ('ONE_OFF', 'ESSENTIAL', 'WEEK_A', 'WEEK_B')),
    added_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS meals (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    week        TEXT NOT NULL CHECK (week IN ('A', 'B')),
    ingredients TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
