package dashboard

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/skdtracker/internal/api"
	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/server/metrics"
	"github.com/dmitrijs2005/skdtracker/internal/server/session"
)

// Login authenticates and, on success, binds the session to the account.
// On failure the session is left unauthenticated.
func (c *Controller) Login(ctx context.Context, st session.State, req api.LoginRequest) (session.State, api.Outcome) {
	if err := c.check(req); err != nil {
		metrics.ObserveLogin(metrics.LoginRejected)
		return st.Cleared(), api.Outcome{Message: msgInvalidLogin}
	}

	account, err := c.creds.Login(ctx, req.Username, req.Password, req.Cohort)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			metrics.ObserveLogin(metrics.LoginRejected)
			c.logger.Info(ctx, "login rejected", "username", req.Username)
			return st.Cleared(), api.Outcome{Message: msgInvalidLogin}
		}
		metrics.ObserveLogin(metrics.LoginError)
		c.logger.Error(ctx, "login failed", "username", req.Username, "error", err)
		return st.Cleared(), api.Outcome{Message: "login is unavailable, please try again"}
	}

	metrics.ObserveLogin(metrics.LoginSuccess)
	next := st.WithAccount(account)
	c.logger.Info(ctx, "logged in", "account_id", account.ID, "username", account.Username)
	return next, ok("welcome, %s", account.Username)
}

// Register creates a user account. It does not log the new account in.
func (c *Controller) Register(ctx context.Context, st session.State, req api.RegisterRequest) (session.State, api.Outcome) {
	if err := c.check(req); err != nil {
		return st, c.fail(ctx, st, "register", err)
	}

	account, err := c.creds.RegisterAccount(ctx, req.Username, req.Password, req.ConfirmPassword, req.Cohort)
	if err != nil {
		return st, c.fail(ctx, st, "register", err)
	}
	return st, ok("account %s created, you can log in now", account.Username)
}

func (c *Controller) RequestLogout(ctx context.Context, st session.State) (session.State, api.Outcome) {
	if err := requireAuth(st); err != nil {
		return st, c.fail(ctx, st, "logout", err)
	}
	st.LogoutPending = true
	return st, ok("confirm to log out")
}

func (c *Controller) ConfirmLogout(ctx context.Context, st session.State) (session.State, api.Outcome) {
	if !st.LogoutPending {
		return st, c.fail(ctx, st, "logout", common.ErrConfirmationRequired)
	}
	c.logger.Info(ctx, "logged out", "account_id", st.AccountID)
	return st.Cleared(), ok("logged out")
}

func (c *Controller) CancelLogout(_ context.Context, st session.State) (session.State, api.Outcome) {
	st.LogoutPending = false
	return st, ok("logout cancelled")
}

// ChangePassword replaces the caller's own password.
func (c *Controller) ChangePassword(ctx context.Context, st session.State, req api.ChangePasswordRequest) (session.State, api.Outcome) {
	if err := requireAuth(st); err != nil {
		return st, c.fail(ctx, st, "change password", err)
	}
	if err := c.check(req); err != nil {
		return st, c.fail(ctx, st, "change password", err)
	}

	err := c.creds.ChangePassword(ctx, st.AccountID, req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if errors.Is(err, common.ErrorUnauthorized) {
		return st, api.Outcome{Message: "current password is incorrect"}
	}
	if err != nil {
		return st, c.fail(ctx, st, "change password", err)
	}
	return st, ok("password changed")
}
