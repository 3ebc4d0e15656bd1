package db

import (
	"context"
	"database/sql"
	"fmt"
)

const bootstrapKey = "bootstrapped"

// NeedsBootstrap returns true if first-run setup has not happened yet.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meta WHERE key = ?`, bootstrapKey).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// MarkBootstrapped records that first-run setup is done, so removing every
// device later does not trigger it again.
func (db *DB) MarkBootstrapped(ctx context.Context) error {
	return db.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO meta (key, value) VALUES (?, '1')
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')
		`, bootstrapKey)
		if err != nil {
			return fmt.Errorf("failed to record bootstrap: %w", err)
		}
		return nil
	})
}
