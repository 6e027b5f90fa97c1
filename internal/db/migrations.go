package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: restock runs scan FINISHED history grouped by item.
	`CREATE INDEX IF NOT EXISTS idx_consumption_type_item
	     ON consumption_events(type, item_id)`,
	// Migration 2: expiration checks scan by expiry.
	`CREATE INDEX IF NOT EXISTS idx_batches_expires_at
	     ON batches(expires_at) WHERE expires_at IS NOT NULL`,
}

// Migrate ensures the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
