package scores

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/dbx"
	"github.com/dmitrijs2005/skdtracker/internal/rowstore"
	"github.com/dmitrijs2005/skdtracker/internal/server/models"
)

const table = "scores"

var columns = []string{"id", "user_id", "twk", "tiu", "tkp", "total", "created_at"}

var newID = uuid.NewString

type StoreRepository struct {
	rs *rowstore.Client
}

func NewStoreRepository(db dbx.Querier) *StoreRepository {
	return &StoreRepository{rs: rowstore.New(db)}
}

func (r *StoreRepository) ListByAccount(ctx context.Context, accountID string) ([]models.ScoreAttempt, error) {
	rows, err := r.rs.From(table).Eq("user_id", accountID).Select(ctx, columns...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return fromRows(rows)
}

func (r *StoreRepository) ListAll(ctx context.Context) ([]models.ScoreAttempt, error) {
	rows, err := r.rs.From(table).Select(ctx, columns...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return fromRows(rows)
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (*models.ScoreAttempt, error) {
	rows, err := r.rs.From(table).Eq("id", id).Select(ctx, columns...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}
	return fromRow(rows[0])
}

// Create inserts a new attempt. The total is recomputed from the components
// and created_at is left to the store.
func (r *StoreRepository) Create(ctx context.Context, attempt *models.ScoreAttempt) (*models.ScoreAttempt, error) {
	a := *attempt
	a.Normalize()

	stored, err := r.rs.From(table).Insert(ctx, rowstore.Row{
		"id":      newID(),
		"user_id": a.AccountID,
		"twk":     a.TWK,
		"tiu":     a.TIU,
		"tkp":     a.TKP,
		"total":   a.Total,
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return fromRow(stored)
}

// Update rewrites the components and total of one attempt in place.
func (r *StoreRepository) Update(ctx context.Context, id string, c models.Components) (*models.ScoreAttempt, error) {
	rows, err := r.rs.From(table).Eq("id", id).Update(ctx, rowstore.Row{
		"twk":   c.TWK,
		"tiu":   c.TIU,
		"tkp":   c.TKP,
		"total": c.Total(),
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}
	return fromRow(rows[0])
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

func (r *StoreRepository) DeleteByAccount(ctx context.Context, accountID string) (int64, error) {
	n, err := r.rs.From(table).Eq("user_id", accountID).Delete(ctx)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// DeleteAll removes every attempt. ids are never empty, so the predicate
// matches all rows.
func (r *StoreRepository) DeleteAll(ctx context.Context) (int64, error) {
	n, err := r.rs.From(table).Neq("id", "").Delete(ctx)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func fromRows(rows []rowstore.Row) ([]models.ScoreAttempt, error) {
	out := make([]models.ScoreAttempt, 0, len(rows))
	for _, row := range rows {
		a, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}

func fromRow(row rowstore.Row) (*models.ScoreAttempt, error) {
	id := row.String("id")
	if id == "" {
		return nil, fmt.Errorf("%w: scores.id is empty", common.ErrorMalformedRow)
	}
	accountID := row.String("user_id")
	if accountID == "" {
		return nil, fmt.Errorf("%w: scores.user_id is empty for %s", common.ErrorMalformedRow, id)
	}

	a := &models.ScoreAttempt{ID: id, AccountID: accountID}
	for col, dst := range map[string]*int{"twk": &a.TWK, "tiu": &a.TIU, "tkp": &a.TKP} {
		v, err := row.Int(col)
		if err != nil {
			return nil, fmt.Errorf("%w: scores %s: %v", common.ErrorMalformedRow, id, err)
		}
		*dst = v
	}

	ts, err := row.Time("created_at")
	if err != nil {
		return nil, fmt.Errorf("%w: scores %s: %v", common.ErrorMalformedRow, id, err)
	}
	a.CreatedAt = ts

	// stored totals are not trusted
	a.Normalize()
	return a, nil
}
