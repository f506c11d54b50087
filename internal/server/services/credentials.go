package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/dbx"
	"github.com/dmitrijs2005/skdtracker/internal/logging"
	"github.com/dmitrijs2005/skdtracker/internal/server/models"
	"github.com/dmitrijs2005/skdtracker/internal/server/repositories/repomanager"
)

// bcryptCost is lowered in tests.
var bcryptCost = bcrypt.DefaultCost

// hashPassword is a seam for tests.
var hashPassword = func(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// checkPassword rejects passwords that are empty or too long to hash.
func checkPassword(field, password string) error {
	if password == "" {
		return common.Invalid(field, common.ErrEmptyField)
	}
	if len(password) > maxPasswordBytes {
		return common.Invalid(field, common.ErrPasswordTooLong)
	}
	return nil
}

// CredentialService resolves accounts, checks passwords and keeps stored
// credentials migrated to bcrypt.
type CredentialService struct {
	db          dbx.Querier
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewCredentialService(db dbx.Querier, m repomanager.RepositoryManager, logger logging.Logger) *CredentialService {
	return &CredentialService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "credentials"),
	}
}

// ResolveAccount finds the single account a login or registration refers to.
//
// With a cohort, an exact (username, cohort) match wins. Otherwise the first
// account with that username is accepted only when it has no cohort recorded
// or is an admin. This fallback keeps accounts created before cohorts existed
// (and admins) able to log in by username alone; it is a compatibility shim,
// not an access rule worth copying.
func (s *CredentialService) ResolveAccount(ctx context.Context, username, cohort string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)

	if cohort != "" {
		a, err := repo.FindByUsernameAndCohort(ctx, username, cohort)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
	}

	candidates, err := repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, common.ErrorNotFound
	}

	first := candidates[0]
	if !first.HasCohort() || first.IsAdmin() {
		return &first, nil
	}
	return nil, common.ErrorNotFound
}

// Authenticate checks password against the account's stored credential.
// A matching legacy plaintext credential is rehashed and written back; if that
// write fails the login still succeeds and the returned account keeps the
// plaintext credential.
func (s *CredentialService) Authenticate(ctx context.Context, account *models.Account, password string) (*models.Account, error) {
	if password == "" {
		return nil, common.ErrorUnauthorized
	}

	if account.Credential.IsHashed() {
		// malformed hashes fail like wrong passwords
		if err := bcrypt.CompareHashAndPassword([]byte(account.Credential.Value()), []byte(password)); err != nil {
			return nil, common.ErrorUnauthorized
		}
		return account, nil
	}

	if subtle.ConstantTimeCompare([]byte(account.Credential.Value()), []byte(password)) != 1 {
		return nil, common.ErrorUnauthorized
	}

	hash, err := hashPassword(password)
	if err != nil {
		s.logger.Warn(ctx, "credential upgrade skipped", "account_id", account.ID, "username", account.Username, "error", err)
		return account, nil
	}

	if err := s.repomanager.Accounts(s.db).UpdatePassword(ctx, account.ID, models.Hashed(hash)); err != nil {
		s.logger.Warn(ctx, "credential upgrade failed", "account_id", account.ID, "username", account.Username, "error", err)
		return account, nil
	}

	upgraded := *account
	upgraded.Credential = models.Hashed(hash)
	s.logger.Info(ctx, "legacy credential upgraded", "account_id", account.ID, "username", account.Username)
	return &upgraded, nil
}

// Login resolves and authenticates in one step. Unknown usernames and wrong
// passwords both yield common.ErrorUnauthorized.
func (s *CredentialService) Login(ctx context.Context, username, password, cohort string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, common.ErrorUnauthorized
	}

	account, err := s.ResolveAccount(ctx, username, strings.TrimSpace(cohort))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error resolving account: %w", err)
	}

	return s.Authenticate(ctx, account, password)
}

// RegisterAccount creates a user account. Every check runs before the store
// is written to. The role is always user.
func (s *CredentialService) RegisterAccount(ctx context.Context, username, password, confirm, cohort string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	cohort = strings.TrimSpace(cohort)

	if username == "" {
		return nil, common.Invalid("username", common.ErrEmptyField)
	}
	if err := checkPassword("password", password); err != nil {
		return nil, err
	}
	if password != confirm {
		return nil, common.Invalid("confirm_password", common.ErrPasswordMismatch)
	}

	_, err := s.ResolveAccount(ctx, username, cohort)
	switch {
	case err == nil:
		return nil, common.Invalid("username", common.ErrUsernameTaken)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error resolving account: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account, err := s.repomanager.Accounts(s.db).Create(ctx, &models.Account{
		Username:   username,
		Credential: models.Hashed(hash),
		Role:       models.RoleUser,
		Cohort:     models.CohortPtr(cohort),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "account registered", "account_id", account.ID, "username", account.Username)
	return account, nil
}

// Account loads the account with id.
func (s *CredentialService) Account(ctx context.Context, id string) (*models.Account, error) {
	a, err := s.repomanager.Accounts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return a, nil
}

// ChangePassword lets an account holder replace their own password.
func (s *CredentialService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword, confirm string) error {
	if err := checkPassword("new_password", newPassword); err != nil {
		return err
	}
	if newPassword != confirm {
		return common.Invalid("confirm_password", common.ErrPasswordMismatch)
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return fmt.Errorf("error loading account: %w", err)
	}

	if _, err := s.Authenticate(ctx, account, oldPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := repo.UpdatePassword(ctx, accountID, models.Hashed(hash)); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}
