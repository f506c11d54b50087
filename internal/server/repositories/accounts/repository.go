package accounts

import (
	"context"

	"github.com/dmitrijs2005/skdtracker/internal/server/models"
)

type Repository interface {
	// FindByUsername returns every account with username, in store order.
	FindByUsername(ctx context.Context, username string) ([]models.Account, error)
	FindByUsernameAndCohort(ctx context.Context, username, cohort string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	UpdatePassword(ctx context.Context, id string, credential models.Credential) error
	UpdateRole(ctx context.Context, id string, role models.Role) error
	Delete(ctx context.Context, id string) error
	DeleteNonAdmins(ctx context.Context) (int64, error)
}
