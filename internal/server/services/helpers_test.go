package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/skdtracker/internal/dbx"
	"github.com/dmitrijs2005/skdtracker/internal/logging"
	"github.com/dmitrijs2005/skdtracker/internal/server/models"
	"github.com/dmitrijs2005/skdtracker/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/skdtracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/skdtracker/internal/server/repositories/scores"
	"github.com/dmitrijs2005/skdtracker/internal/server/storetest"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

type env struct {
	db     *sqlx.DB
	rm     *fakeRepoManager
	logs   *observer.ObservedLogs
	logger logging.Logger

	creds  *CredentialService
	scores *ScoreService
	admin  *AdminService
}

// newEnv wires the services to a fresh SQLite store. Repositories can be
// swapped for failing wrappers through env.rm.
func newEnv(t *testing.T) *env {
	t.Helper()
	db := storetest.Open(t)

	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewZapLoggerFrom(zap.New(core))

	rm := &fakeRepoManager{
		accounts: accounts.NewStoreRepository(db),
		scores:   scores.NewStoreRepository(db),
	}
	return &env{
		db:     db,
		rm:     rm,
		logs:   logs,
		logger: logger,
		creds:  NewCredentialService(db, rm, logger),
		scores: NewScoreService(db, rm, logger),
		admin:  NewAdminService(db, rm, logger),
	}
}

func (e *env) seedAccount(t *testing.T, username, storedPassword string, role models.Role, cohort string) *models.Account {
	t.Helper()
	a, err := accounts.NewStoreRepository(e.db).Create(context.Background(), &models.Account{
		Username:   username,
		Credential: models.ParseCredential(storedPassword),
		Role:       role,
		Cohort:     models.CohortPtr(cohort),
	})
	require.NoError(t, err)
	return a
}

// seedUser creates a plain user account and returns its id.
func (e *env) seedUser(t *testing.T, username string) string {
	t.Helper()
	return e.seedAccount(t, username, "pw", models.RoleUser, "").ID
}

func (e *env) storedAccount(t *testing.T, id string) *models.Account {
	t.Helper()
	a, err := accounts.NewStoreRepository(e.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return a
}

type fakeRepoManager struct {
	accounts accounts.Repository
	scores   scores.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(db dbx.Querier) accounts.Repository  { return m.accounts }
func (m *fakeRepoManager) Scores(db dbx.Querier) scores.Repository      { return m.scores }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

// failingAccounts wraps a real repository and fails selected calls.
type failingAccounts struct {
	accounts.Repository
	findErr            error
	getErr             error
	createErr          error
	updatePasswordErr  error
	deleteNonAdminsErr error
	calls              int
}

func (f *failingAccounts) FindByUsername(ctx context.Context, username string) ([]models.Account, error) {
	f.calls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.Repository.FindByUsername(ctx, username)
}

func (f *failingAccounts) FindByUsernameAndCohort(ctx context.Context, username, cohort string) (*models.Account, error) {
	f.calls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.Repository.FindByUsernameAndCohort(ctx, username, cohort)
}

func (f *failingAccounts) GetByID(ctx context.Context, id string) (*models.Account, error) {
	f.calls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Repository.GetByID(ctx, id)
}

func (f *failingAccounts) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	f.calls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.Create(ctx, a)
}

func (f *failingAccounts) UpdatePassword(ctx context.Context, id string, c models.Credential) error {
	f.calls++
	if f.updatePasswordErr != nil {
		return f.updatePasswordErr
	}
	return f.Repository.UpdatePassword(ctx, id, c)
}

func (f *failingAccounts) DeleteNonAdmins(ctx context.Context) (int64, error) {
	f.calls++
	if f.deleteNonAdminsErr != nil {
		return 0, f.deleteNonAdminsErr
	}
	return f.Repository.DeleteNonAdmins(ctx)
}

// failingScores wraps a real repository and fails selected calls.
type failingScores struct {
	scores.Repository
	listErr   error
	createErr error
	updateErr error
	deleteErr error
	calls     int
}

func (f *failingScores) ListByAccount(ctx context.Context, accountID string) ([]models.ScoreAttempt, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.Repository.ListByAccount(ctx, accountID)
}

func (f *failingScores) ListAll(ctx context.Context) ([]models.ScoreAttempt, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.Repository.ListAll(ctx)
}

func (f *failingScores) Create(ctx context.Context, a *models.ScoreAttempt) (*models.ScoreAttempt, error) {
	f.calls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.Create(ctx, a)
}

func (f *failingScores) Update(ctx context.Context, id string, c models.Components) (*models.ScoreAttempt, error) {
	f.calls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.Repository.Update(ctx, id, c)
}

func (f *failingScores) Delete(ctx context.Context, id string) error {
	f.calls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Repository.Delete(ctx, id)
}
