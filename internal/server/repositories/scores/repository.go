package scores

import (
	"context"

	"github.com/dmitrijs2005/skdtracker/internal/server/models"
)

type Repository interface {
	// ListByAccount returns the account's attempts in store order.
	ListByAccount(ctx context.Context, accountID string) ([]models.ScoreAttempt, error)
	ListAll(ctx context.Context) ([]models.ScoreAttempt, error)
	GetByID(ctx context.Context, id string) (*models.ScoreAttempt, error)
	Create(ctx context.Context, attempt *models.ScoreAttempt) (*models.ScoreAttempt, error)
	Update(ctx context.Context, id string, c models.Components) (*models.ScoreAttempt, error)
	Delete(ctx context.Context, id string) error
	DeleteByAccount(ctx context.Context, accountID string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}
