// Package migrations embeds the goose SQL migrations for every supported
// store dialect.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Dir returns the directory inside Migrations holding the files for a goose
// dialect.
func Dir(dialect string) string {
	if dialect == "sqlite3" {
		return "sqlite"
	}
	return "postgres"
}
