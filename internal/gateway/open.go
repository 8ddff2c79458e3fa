package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sitetrack/internal/config"
	"github.com/alexanderramin/sitetrack/internal/db"
	"github.com/alexanderramin/sitetrack/internal/domain"
)

var (
	_ Gateway = (*SQLiteGateway)(nil)
	_ Gateway = (*XLSXGateway)(nil)
	_ Gateway = (*SheetsGateway)(nil)
	_ Gateway = (*Observed)(nil)
)

// Open builds the backend selected by cfg. The returned close function
// releases backend resources and is never nil.
func Open(ctx context.Context, cfg config.Config) (Gateway, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendSQLite:
		database, err := db.OpenDB(cfg.SQLite.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		gw := NewSQLiteGateway(database, db.NewSQLiteUnitOfWork(database))
		if err := gw.Seed(ctx, cfg.TemplateSheet, domain.TemplateHeader); err != nil {
			database.Close()
			return nil, noop, fmt.Errorf("seeding document: %w", err)
		}
		return gw, database.Close, nil

	case config.BackendXLSX:
		gw := NewXLSXGateway(cfg.XLSX.Path)
		if err := gw.Init(cfg.TemplateSheet, domain.TemplateHeader); err != nil {
			return nil, noop, err
		}
		return gw, noop, nil

	case config.BackendSheets:
		svc, err := NewSheetsService(ctx, cfg.Sheets.CredentialsFile)
		if err != nil {
			return nil, noop, err
		}
		return NewSheetsGateway(svc, SheetsOptions{
			SpreadsheetID: cfg.Sheets.SpreadsheetID,
			MaxRetries:    cfg.Sheets.MaxRetries,
			Timeout:       time.Duration(cfg.Sheets.TimeoutMs) * time.Millisecond,
		}), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
