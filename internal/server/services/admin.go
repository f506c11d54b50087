package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/dbx"
	"github.com/dmitrijs2005/skdtracker/internal/logging"
	"github.com/dmitrijs2005/skdtracker/internal/server/models"
	"github.com/dmitrijs2005/skdtracker/internal/server/repositories/repomanager"
)

// AdminService holds account maintenance operations. Callers check that the
// acting account is an admin.
type AdminService struct {
	db          dbx.Querier
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewAdminService(db dbx.Querier, m repomanager.RepositoryManager, logger logging.Logger) *AdminService {
	return &AdminService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "admin"),
	}
}

// ListAccounts returns all accounts, or none if the store cannot be read.
func (s *AdminService) ListAccounts(ctx context.Context) []models.Account {
	list, err := s.repomanager.Accounts(s.db).List(ctx)
	if err != nil {
		s.logger.Warn(ctx, "reading accounts failed, showing none", "error", err)
		return []models.Account{}
	}
	return list
}

func (s *AdminService) SetRole(ctx context.Context, accountID string, role models.Role) error {
	if _, err := models.ParseRole(string(role)); err != nil {
		return common.Invalid("role", err)
	}
	if err := s.repomanager.Accounts(s.db).UpdateRole(ctx, accountID, role); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error updating role: %w", err)
	}
	return nil
}

// SetPassword replaces an account's password without knowing the old one.
func (s *AdminService) SetPassword(ctx context.Context, accountID, password string) error {
	if err := checkPassword("password", password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.repomanager.Accounts(s.db).UpdatePassword(ctx, accountID, models.Hashed(hash)); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

// DeleteAccount removes the account's attempts and then the account. The two
// deletes are independent; a failure in between leaves the account without
// its attempts.
func (s *AdminService) DeleteAccount(ctx context.Context, accountID string) error {
	if _, err := s.repomanager.Scores(s.db).DeleteByAccount(ctx, accountID); err != nil {
		return fmt.Errorf("error deleting attempts: %w", err)
	}
	if err := s.repomanager.Accounts(s.db).Delete(ctx, accountID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting account: %w", err)
	}
	s.logger.Info(ctx, "account deleted", "account_id", accountID)
	return nil
}

// ResetResult reports what ResetAllData removed.
type ResetResult struct {
	ScoresDeleted   int64
	AccountsDeleted int64
}

// ResetAllData deletes every attempt and then every non-admin account.
//
// The two deletes are separate store calls with no transaction around them.
// If the second one fails the attempts are already gone and the accounts
// remain; the returned result says how far it got.
func (s *AdminService) ResetAllData(ctx context.Context) (ResetResult, error) {
	var res ResetResult

	n, err := s.repomanager.Scores(s.db).DeleteAll(ctx)
	if err != nil {
		return res, fmt.Errorf("error deleting attempts: %w", err)
	}
	res.ScoresDeleted = n

	n, err = s.repomanager.Accounts(s.db).DeleteNonAdmins(ctx)
	if err != nil {
		s.logger.Error(ctx, "reset left accounts behind", "scores_deleted", res.ScoresDeleted, "error", err)
		return res, fmt.Errorf("error deleting accounts: %w", err)
	}
	res.AccountsDeleted = n

	s.logger.Warn(ctx, "all data reset", "scores_deleted", res.ScoresDeleted, "accounts_deleted", res.AccountsDeleted)
	return res, nil
}

// EnsureAdmin creates an admin account named username unless some admin
// already exists. It reports whether an account was created. A username
// already held by a non-admin is refused with common.ErrUsernameTaken.
func (s *AdminService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, common.Invalid("username", common.ErrEmptyField)
	}
	if err := checkPassword("password", password); err != nil {
		return false, err
	}

	repo := s.repomanager.Accounts(s.db)
	all, err := repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("error looking up admin: %w", err)
	}
	for _, a := range all {
		if a.IsAdmin() {
			return false, nil
		}
	}
	for _, a := range all {
		if a.Username == username {
			return false, common.Invalid("username", common.ErrUsernameTaken)
		}
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, fmt.Errorf("error hashing password: %w", err)
	}
	a, err := repo.Create(ctx, &models.Account{
		Username:   username,
		Credential: models.Hashed(hash),
		Role:       models.RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("error creating admin: %w", err)
	}

	s.logger.Info(ctx, "bootstrap admin created", "account_id", a.ID, "username", a.Username)
	return true, nil
}
