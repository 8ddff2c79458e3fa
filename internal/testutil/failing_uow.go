package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/sitetrack/internal/db"
)

// FailOnNthExecUoW injects Err on the Nth ExecContext call inside a
// transaction, counting from 1 across the life of the UoW. Reads pass
// through uncounted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	count atomic.Int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if fnErr := fn(ctx, &failOnNthExec{DBTX: tx, u: u}); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	u *FailOnNthExecUoW
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.u.count.Add(1) == f.u.FailOn {
		return nil, f.u.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
