// Package repomanager provides a RepositoryManager over the row store,
// wiring together repository constructors and database migrations (via goose)
// for the configured dialect.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/skdtracker/internal/dbx"
	"github.com/dmitrijs2005/skdtracker/internal/server/migrations"
	"github.com/dmitrijs2005/skdtracker/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/skdtracker/internal/server/repositories/scores"
)

// StoreRepositoryManager vends row store backed repositories.
type StoreRepositoryManager struct {
	driver string
}

// Accounts returns an accounts.Repository bound to db.
func (m *StoreRepositoryManager) Accounts(db dbx.Querier) accounts.Repository {
	return accounts.NewStoreRepository(db)
}

// Scores returns a scores.Repository bound to db.
func (m *StoreRepositoryManager) Scores(db dbx.Querier) scores.Repository {
	return scores.NewStoreRepository(db)
}

// gooseUp is a seam for testing the goose provider.
var gooseUp = func(ctx context.Context, dialect string, db *sql.DB, fsys fs.FS) error {
	p, err := goose.NewProvider(goose.Dialect(dialect), db, fsys)
	if err != nil {
		return err
	}
	_, err = p.Up(ctx)
	return err
}

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *StoreRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	dialect := dbx.GooseDialect(m.driver)
	fsys, err := fs.Sub(migrations.Migrations, migrations.Dir(dialect))
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if err := gooseUp(ctx, dialect, db, fsys); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// NewStoreRepositoryManager constructs a RepositoryManager for driver.
func NewStoreRepositoryManager(driver string) (RepositoryManager, error) {
	switch driver {
	case dbx.DriverPostgres, dbx.DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	return &StoreRepositoryManager{driver: driver}, nil
}
