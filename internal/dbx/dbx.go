// Package dbx provides tiny DB abstractions shared by the row store:
// a minimal interface (Querier) implemented by both *sqlx.DB and *sqlx.Tx,
// and a helper to open a verified handle for one of the supported drivers.
package dbx

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Querier is the subset of sqlx used by the row store.
// Both *sqlx.DB and *sqlx.Tx satisfy this interface.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	Rebind(query string) string
	DriverName() string
}

// Open opens and pings a database handle for driver.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if driver == DriverSQLite {
		// a single connection keeps in-memory databases alive and avoids
		// SQLITE_BUSY between writers
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

// GooseDialect maps a driver name to the goose dialect for migrations.
func GooseDialect(driver string) string {
	if driver == DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}
