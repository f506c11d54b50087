package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/skdtracker/internal/dbx"
	"github.com/dmitrijs2005/skdtracker/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/skdtracker/internal/server/repositories/scores"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.Querier) accounts.Repository
	Scores(db dbx.Querier) scores.Repository
}
