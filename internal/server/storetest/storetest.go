// Package storetest opens throwaway SQLite stores with the production schema
// for use in tests.
package storetest

import (
	"context"
	"io/fs"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/skdtracker/internal/dbx"
	"github.com/dmitrijs2005/skdtracker/internal/server/migrations"
)

// Open returns an in-memory SQLite database with all migrations applied.
// It is closed when the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	db, err := dbx.Open(ctx, dbx.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	dialect := dbx.GooseDialect(dbx.DriverSQLite)
	p, err := goose.NewProvider(goose.Dialect(dialect), db.DB, mustSub(t, migrations.Dir(dialect)))
	if err != nil {
		t.Fatalf("goose provider: %v", err)
	}
	if _, err := p.Up(ctx); err != nil {
		t.Fatalf("goose up: %v", err)
	}
	return db
}

func mustSub(t testing.TB, dir string) fs.FS {
	t.Helper()
	sub, err := fs.Sub(migrations.Migrations, dir)
	if err != nil {
		t.Fatalf("migrations dir %s: %v", dir, err)
	}
	return sub
}
