package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/sitetrack/internal/db"
	"github.com/google/uuid"
)

// SQLiteGateway keeps the document in a local SQLite database. Every mutation
// runs inside one transaction.
type SQLiteGateway struct {
	db  *sql.DB
	uow db.UnitOfWork
	now func() time.Time
}

func NewSQLiteGateway(database *sql.DB, uow db.UnitOfWork) *SQLiteGateway {
	return &SQLiteGateway{db: database, uow: uow, now: time.Now}
}

// storeErr reports driver and file failures, e.g. a locked or corrupt
// database, as ErrBackendUnavailable. Gateway sentinels and cancellation
// pass through unchanged.
func storeErr(err error) error {
	switch {
	case err == nil,
		errors.Is(err, ErrBackendUnavailable),
		errors.Is(err, ErrWorksheetNotFound),
		errors.Is(err, ErrDuplicateTitle),
		errors.Is(err, ErrLastWorksheet),
		errors.Is(err, ErrMalformedSheet),
		errors.Is(err, ErrInvalidRange),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
}

// Seed creates a worksheet titled title with header in row 1 when the
// document has no worksheets. It is a no-op otherwise.
func (g *SQLiteGateway) Seed(ctx context.Context, title string, header []string) error {
	return storeErr(g.seed(ctx, title, header))
}

func (g *SQLiteGateway) ListWorksheets(ctx context.Context) ([]Worksheet, error) {
	all, err := g.listWorksheets(ctx)
	return all, storeErr(err)
}

func (g *SQLiteGateway) ReadTable(ctx context.Context, ws Worksheet) (*Table, error) {
	t, err := g.readTable(ctx, ws)
	return t, storeErr(err)
}

func (g *SQLiteGateway) GetCell(ctx context.Context, ws Worksheet, cell string) (string, error) {
	v, err := g.getCell(ctx, ws, cell)
	return v, storeErr(err)
}

func (g *SQLiteGateway) SetRange(ctx context.Context, ws Worksheet, rng string, values [][]any) error {
	return storeErr(g.setRange(ctx, ws, rng, values))
}

func (g *SQLiteGateway) Rename(ctx context.Context, ws Worksheet, newTitle string) error {
	return storeErr(g.rename(ctx, ws, newTitle))
}

func (g *SQLiteGateway) Delete(ctx context.Context, ws Worksheet) error {
	return storeErr(g.delete(ctx, ws))
}

func (g *SQLiteGateway) Duplicate(ctx context.Context, src Worksheet, newTitle string) (Worksheet, error) {
	ws, err := g.duplicate(ctx, src, newTitle)
	return ws, storeErr(err)
}

func (g *SQLiteGateway) seed(ctx context.Context, title string, header []string) error {
	return g.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM worksheets`).Scan(&n); err != nil {
			return fmt.Errorf("counting worksheets: %w", err)
		}
		if n > 0 {
			return nil
		}
		id := uuid.New().String()
		if err := g.insertSheet(ctx, tx, id, title, 0); err != nil {
			return err
		}
		for i, v := range header {
			if err := upsertCell(ctx, tx, id, 1, i+1, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *SQLiteGateway) listWorksheets(ctx context.Context) ([]Worksheet, error) {
	rows, err := g.db.QueryContext(ctx, `SELECT id, title, position FROM worksheets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing worksheets: %w", err)
	}
	defer rows.Close()

	var out []Worksheet
	for rows.Next() {
		var ws Worksheet
		if err := rows.Scan(&ws.ID, &ws.Title, &ws.Index); err != nil {
			return nil, fmt.Errorf("scanning worksheet: %w", err)
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

func (g *SQLiteGateway) readTable(ctx context.Context, ws Worksheet) (*Table, error) {
	if _, err := lookupSheet(ctx, g.db, ws); err != nil {
		return nil, err
	}
	rows, err := g.db.QueryContext(ctx,
		`SELECT row_num, col_num, value FROM cells
		 WHERE worksheet_id = ? AND value <> ''
		 ORDER BY row_num, col_num`, ws.ID)
	if err != nil {
		return nil, fmt.Errorf("reading cells of %q: %w", ws.Title, err)
	}
	defer rows.Close()

	var grid [][]string
	for rows.Next() {
		var r, c int
		var v string
		if err := rows.Scan(&r, &c, &v); err != nil {
			return nil, fmt.Errorf("scanning cell: %w", err)
		}
		for len(grid) < r {
			grid = append(grid, nil)
		}
		line := grid[r-1]
		for len(line) < c {
			line = append(line, "")
		}
		line[c-1] = v
		grid[r-1] = line
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buildTable(grid)
}

func (g *SQLiteGateway) getCell(ctx context.Context, ws Worksheet, cell string) (string, error) {
	col, row, err := ParseCell(cell)
	if err != nil {
		return "", err
	}
	if _, err := lookupSheet(ctx, g.db, ws); err != nil {
		return "", err
	}
	var v string
	err = g.db.QueryRowContext(ctx,
		`SELECT value FROM cells WHERE worksheet_id = ? AND row_num = ? AND col_num = ?`,
		ws.ID, row, col).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s of %q: %w", cell, ws.Title, err)
	}
	return v, nil
}

func (g *SQLiteGateway) SetCell(ctx context.Context, ws Worksheet, cell string, value any) error {
	return g.SetRange(ctx, ws, cell, [][]any{{value}})
}

func (g *SQLiteGateway) setRange(ctx context.Context, ws Worksheet, rng string, values [][]any) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}
	if err := checkShape(r, values); err != nil {
		return err
	}
	return g.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := lookupSheet(ctx, tx, ws); err != nil {
			return err
		}
		for i, line := range values {
			for j, v := range line {
				if err := upsertCell(ctx, tx, ws.ID, r.FromRow+i, r.FromCol+j, CellString(v)); err != nil {
					return err
				}
			}
		}
		return g.touch(ctx, tx, ws.ID)
	})
}

func (g *SQLiteGateway) rename(ctx context.Context, ws Worksheet, newTitle string) error {
	return g.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cur, err := lookupSheet(ctx, tx, ws)
		if err != nil {
			return err
		}
		if cur.Title == newTitle {
			return nil
		}
		if err := ensureTitleFree(ctx, tx, newTitle); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE worksheets SET title = ?, updated_at = ? WHERE id = ?`,
			newTitle, g.stamp(), ws.ID); err != nil {
			return fmt.Errorf("renaming %q: %w", cur.Title, err)
		}
		return nil
	})
}

func (g *SQLiteGateway) delete(ctx context.Context, ws Worksheet) error {
	return g.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cur, err := lookupSheet(ctx, tx, ws)
		if err != nil {
			return err
		}
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM worksheets`).Scan(&n); err != nil {
			return fmt.Errorf("counting worksheets: %w", err)
		}
		if n <= 1 {
			return ErrLastWorksheet
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM worksheets WHERE id = ?`, ws.ID); err != nil {
			return fmt.Errorf("deleting %q: %w", cur.Title, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE worksheets SET position = position - 1 WHERE position > ?`, cur.Index); err != nil {
			return fmt.Errorf("compacting positions: %w", err)
		}
		return nil
	})
}

func (g *SQLiteGateway) duplicate(ctx context.Context, src Worksheet, newTitle string) (Worksheet, error) {
	var out Worksheet
	err := g.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cur, err := lookupSheet(ctx, tx, src)
		if err != nil {
			return err
		}
		if err := ensureTitleFree(ctx, tx, newTitle); err != nil {
			return err
		}
		// New worksheets go last, as in the other backends.
		var pos int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM worksheets`).Scan(&pos); err != nil {
			return fmt.Errorf("counting worksheets: %w", err)
		}
		id := uuid.New().String()
		if err := g.insertSheet(ctx, tx, id, newTitle, pos); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cells (worksheet_id, row_num, col_num, value)
			 SELECT ?, row_num, col_num, value FROM cells WHERE worksheet_id = ?`,
			id, cur.ID); err != nil {
			return fmt.Errorf("copying cells of %q: %w", cur.Title, err)
		}
		out = Worksheet{ID: id, Title: newTitle, Index: pos}
		return nil
	})
	return out, err
}

func (g *SQLiteGateway) insertSheet(ctx context.Context, tx db.DBTX, id, title string, pos int) error {
	now := g.stamp()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO worksheets (id, title, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, title, pos, now, now); err != nil {
		return fmt.Errorf("inserting worksheet %q: %w", title, err)
	}
	return nil
}

func (g *SQLiteGateway) touch(ctx context.Context, tx db.DBTX, id string) error {
	if _, err := tx.ExecContext(ctx, `UPDATE worksheets SET updated_at = ? WHERE id = ?`, g.stamp(), id); err != nil {
		return fmt.Errorf("touching worksheet: %w", err)
	}
	return nil
}

func (g *SQLiteGateway) stamp() string {
	return g.now().UTC().Format(time.RFC3339)
}

func lookupSheet(ctx context.Context, q db.DBTX, ws Worksheet) (Worksheet, error) {
	var cur Worksheet
	err := q.QueryRowContext(ctx, `SELECT id, title, position FROM worksheets WHERE id = ?`, ws.ID).
		Scan(&cur.ID, &cur.Title, &cur.Index)
	if errors.Is(err, sql.ErrNoRows) {
		return Worksheet{}, fmt.Errorf("%w: %q", ErrWorksheetNotFound, ws.Title)
	}
	if err != nil {
		return Worksheet{}, fmt.Errorf("looking up worksheet %q: %w", ws.Title, err)
	}
	return cur, nil
}

func ensureTitleFree(ctx context.Context, q db.DBTX, title string) error {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM worksheets WHERE title = ?`, title).Scan(&n); err != nil {
		return fmt.Errorf("checking title %q: %w", title, err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateTitle, title)
	}
	return nil
}

func upsertCell(ctx context.Context, tx db.DBTX, id string, row, col int, value string) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cells (worksheet_id, row_num, col_num, value) VALUES (?, ?, ?, ?)
		 ON CONFLICT (worksheet_id, row_num, col_num) DO UPDATE SET value = excluded.value`,
		id, row, col, value); err != nil {
		return fmt.Errorf("writing cell R%dC%d: %w", row, col, err)
	}
	return nil
}
