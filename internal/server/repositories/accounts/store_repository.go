package accounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/dbx"
	"github.com/dmitrijs2005/skdtracker/internal/rowstore"
	"github.com/dmitrijs2005/skdtracker/internal/server/models"
)

const table = "users"

var columns = []string{"id", "username", "password", "role", "cohort"}

// newID is a seam for tests.
var newID = uuid.NewString

type StoreRepository struct {
	rs *rowstore.Client
}

func NewStoreRepository(db dbx.Querier) *StoreRepository {
	return &StoreRepository{rs: rowstore.New(db)}
}

func (r *StoreRepository) FindByUsername(ctx context.Context, username string) ([]models.Account, error) {
	rows, err := r.rs.From(table).
		Eq("username", username).
		Order("created_at", false).
		Select(ctx, columns...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return fromRows(rows)
}

func (r *StoreRepository) FindByUsernameAndCohort(ctx context.Context, username, cohort string) (*models.Account, error) {
	rows, err := r.rs.From(table).
		Eq("username", username).
		Eq("cohort", cohort).
		Order("created_at", false).
		Limit(1).
		Select(ctx, columns...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return first(rows)
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	rows, err := r.rs.From(table).Eq("id", id).Select(ctx, columns...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return first(rows)
}

func (r *StoreRepository) List(ctx context.Context) ([]models.Account, error) {
	rows, err := r.rs.From(table).
		Order("username", false).
		Order("created_at", false).
		Select(ctx, columns...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return fromRows(rows)
}

func (r *StoreRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	row := rowstore.Row{
		"id":       newID(),
		"username": account.Username,
		"password": account.Credential.Value(),
		"role":     string(account.Role),
	}
	if account.Cohort != nil {
		row["cohort"] = *account.Cohort
	}

	stored, err := r.rs.From(table).Insert(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return fromRow(stored)
}

func (r *StoreRepository) UpdatePassword(ctx context.Context, id string, credential models.Credential) error {
	return r.update(ctx, id, rowstore.Row{"password": credential.Value()})
}

func (r *StoreRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	return r.update(ctx, id, rowstore.Row{"role": string(role)})
}

func (r *StoreRepository) update(ctx context.Context, id string, values rowstore.Row) error {
	rows, err := r.rs.From(table).Eq("id", id).Update(ctx, values)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if len(rows) == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	n, err := r.rs.From(table).Eq("id", id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// DeleteNonAdmins removes every account whose role is not admin.
func (r *StoreRepository) DeleteNonAdmins(ctx context.Context) (int64, error) {
	n, err := r.rs.From(table).Neq("role", string(models.RoleAdmin)).Delete(ctx)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func first(rows []rowstore.Row) (*models.Account, error) {
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}
	return fromRow(rows[0])
}

func fromRows(rows []rowstore.Row) ([]models.Account, error) {
	out := make([]models.Account, 0, len(rows))
	for _, row := range rows {
		a, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}

func fromRow(row rowstore.Row) (*models.Account, error) {
	id := row.String("id")
	if id == "" {
		return nil, fmt.Errorf("%w: users.id is empty", common.ErrorMalformedRow)
	}
	username := row.String("username")
	if username == "" {
		return nil, fmt.Errorf("%w: users.username is empty for %s", common.ErrorMalformedRow, id)
	}
	password, ok := row.OptString("password")
	if !ok {
		return nil, fmt.Errorf("%w: users.password is missing for %s", common.ErrorMalformedRow, id)
	}
	// rows written before roles existed carry no role
	role := models.RoleUser
	if v := row.String("role"); v != "" {
		parsed, err := models.ParseRole(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorMalformedRow, err)
		}
		role = parsed
	}

	a := &models.Account{
		ID:         id,
		Username:   username,
		Credential: models.ParseCredential(password),
		Role:       role,
	}
	if c, ok := row.OptString("cohort"); ok {
		a.Cohort = &c
	}
	return a, nil
}
