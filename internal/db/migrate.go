package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateCompactPositions(db); err != nil {
		return fmt.Errorf("compacting worksheet positions: %w", err)
	}
	return nil
}

// migrateCompactPositions renumbers worksheet positions to 0..n-1 in their
// current order. Documents written before deletes compacted positions can
// carry gaps.
func migrateCompactPositions(db *sql.DB) error {
	ctx := context.Background()
	rows, err := db.QueryContext(ctx, `SELECT id, position FROM worksheets ORDER BY position, created_at`)
	if err != nil {
		return fmt.Errorf("listing worksheets: %w", err)
	}
	type entry struct {
		id  string
		pos int
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.id, &e.pos); err != nil {
			rows.Close()
			return fmt.Errorf("scanning worksheet: %w", err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, e := range entries {
		if e.pos == i {
			continue
		}
		if _, err := tx.ExecContext(ctx, `UPDATE worksheets SET position = ? WHERE id = ?`, i, e.id); err != nil {
			return fmt.Errorf("updating position of %s: %w", e.id, err)
		}
	}
	return tx.Commit()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS worksheets (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL UNIQUE,
		position    INTEGER NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cells (
		worksheet_id TEXT NOT NULL REFERENCES worksheets(id) ON DELETE CASCADE,
		row_num      INTEGER NOT NULL CHECK(row_num >= 1),
		col_num      INTEGER NOT NULL CHECK(col_num >= 1),
		value        TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (worksheet_id, row_num, col_num)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_worksheets_position ON worksheets(position)`,
}
