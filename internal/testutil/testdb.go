package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/sitetrack/internal/db"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/gateway"
)

// TemplateTitle is the template worksheet seeded into every test document.
const TemplateTitle = "템플릿"

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestGateway returns a SQLite-backed gateway over a fresh in-memory
// document holding only the template worksheet.
func NewTestGateway(t *testing.T) *gateway.SQLiteGateway {
	t.Helper()
	return NewTestGatewayWithUoW(t, NewTestDB(t), nil)
}

// NewTestGatewayWithUoW is NewTestGateway with a custom unit of work, used
// to inject write failures. A nil uow uses the real one.
func NewTestGatewayWithUoW(t *testing.T, database *sql.DB, uow db.UnitOfWork) *gateway.SQLiteGateway {
	t.Helper()
	seeder := gateway.NewSQLiteGateway(database, db.NewSQLiteUnitOfWork(database))
	if err := seeder.Seed(context.Background(), TemplateTitle, domain.TemplateHeader); err != nil {
		t.Fatalf("seeding test document: %v", err)
	}
	if uow == nil {
		return seeder
	}
	return gateway.NewSQLiteGateway(database, uow)
}
