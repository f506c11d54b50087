// Package dashboard implements one handler per user action of the score
// dashboard.
//
// Every handler takes the caller's session.State and a request, performs its
// store calls through the services and returns the next State together with
// an Outcome for the user. Handlers never keep state of their own; the
// transport persists the returned State.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/skdtracker/internal/api"
	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/logging"
	"github.com/dmitrijs2005/skdtracker/internal/server/services"
	"github.com/dmitrijs2005/skdtracker/internal/server/session"
)

// User-facing messages shared by several handlers.
const (
	msgInvalidLogin = "invalid username or password"
	msgLoginFirst   = "please log in first"
	msgAdminOnly    = "admin access required"
	msgNotFound     = "not found"
	msgStoreFailed  = "could not save changes, please try again"
	msgAccountGone  = "your account no longer exists, please log in again"
)

// Exporter renders rows and publishes the file.
type Exporter interface {
	Render(rows []services.ExportRow, format string) ([]byte, string, error)
	Publish(ctx context.Context, data []byte, ext, contentType string) (string, string, error)
}

type Controller struct {
	creds    *services.CredentialService
	scores   *services.ScoreService
	admin    *services.AdminService
	exporter Exporter
	validate *validator.Validate
	logger   logging.Logger
}

func NewController(creds *services.CredentialService, scores *services.ScoreService, admin *services.AdminService, exporter Exporter, logger logging.Logger) *Controller {
	return &Controller{
		creds:    creds,
		scores:   scores,
		admin:    admin,
		exporter: exporter,
		validate: newValidator(),
		logger:   logger.With("module", "dashboard"),
	}
}

func ok(format string, args ...any) api.Outcome {
	return api.Outcome{OK: true, Message: fmt.Sprintf(format, args...)}
}

// fail turns err into the message shown to the user. Unexpected errors are
// logged and reported without detail.
func (c *Controller) fail(ctx context.Context, st session.State, op string, err error) api.Outcome {
	switch {
	case errors.Is(err, common.ErrValidation):
		return api.Outcome{Message: err.Error()}
	case errors.Is(err, common.ErrorUnauthorized):
		return api.Outcome{Message: msgLoginFirst}
	case errors.Is(err, common.ErrorForbidden):
		return api.Outcome{Message: msgAdminOnly}
	case errors.Is(err, common.ErrorNotFound):
		return api.Outcome{Message: msgNotFound}
	case errors.Is(err, common.ErrConfirmationRequired), errors.Is(err, common.ErrConfirmationPhrase):
		return api.Outcome{Message: err.Error()}
	}
	c.logger.Error(ctx, op+" failed", "account_id", st.AccountID, "error", err)
	return api.Outcome{Message: msgStoreFailed}
}

func requireAuth(st session.State) error {
	if !st.Authenticated() {
		return common.ErrorUnauthorized
	}
	return nil
}

func requireAdmin(st session.State) error {
	if err := requireAuth(st); err != nil {
		return err
	}
	if !st.IsAdmin() {
		return common.ErrorForbidden
	}
	return nil
}

// targetAccount resolves which account a request acts on. Users may only act
// on their own account.
func targetAccount(st session.State, requested string) (string, error) {
	if err := requireAuth(st); err != nil {
		return "", err
	}
	if requested == "" || requested == st.AccountID {
		return st.AccountID, nil
	}
	if !st.IsAdmin() {
		return "", common.ErrorForbidden
	}
	return requested, nil
}

// Revalidate checks that the account behind an authenticated session still
// exists. A session whose account was deleted comes back cleared with false.
// A store error keeps the session as it is.
func (c *Controller) Revalidate(ctx context.Context, st session.State) (session.State, bool) {
	if !st.Authenticated() {
		return st, true
	}
	_, err := c.creds.Account(ctx, st.AccountID)
	switch {
	case err == nil:
		return st, true
	case errors.Is(err, common.ErrorNotFound):
		c.logger.Info(ctx, "session account no longer exists", "account_id", st.AccountID, "session_id", st.ID)
		return st.Cleared(), false
	}
	c.logger.Warn(ctx, "checking session account failed", "account_id", st.AccountID, "error", err)
	return st, true
}
