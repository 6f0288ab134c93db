// Package repomanager provides a concrete RepositoryManager for the SQL
// engines, wiring together repository constructors and database migrations
// (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophfeedback/internal/dbx"
	"github.com/dmitrijs2005/gophfeedback/internal/server/migrations"
	"github.com/dmitrijs2005/gophfeedback/internal/server/repositories/entries"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager vends SQL-backed repository implementations for one
// dialect and exposes a schema migration hook.
type SQLRepositoryManager struct {
	dialect entries.Dialect
}

var _ RepositoryManager = (*SQLRepositoryManager)(nil)

// NewSQLRepositoryManager constructs a manager for the given dialect.
func NewSQLRepositoryManager(d entries.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: d}
}

// Dialect returns the SQL dialect the manager was built for.
func (m *SQLRepositoryManager) Dialect() entries.Dialect { return m.dialect }

// Entries returns an entries.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewSQLRepository(db, m.dialect)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations of the manager's
// dialect and runs them against the provided database connection.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.Goose); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, m.dialect.Dir); err != nil {
		return err
	}
	return nil
}

// Open opens and pings a database for driver and returns it together with a
// manager for the matching dialect.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, *SQLRepositoryManager, error) {
	d, err := entries.DialectFor(driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(d.Name, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if d == entries.SQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	return db, NewSQLRepositoryManager(d), nil
}
