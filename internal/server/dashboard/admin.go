package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/skdtracker/internal/api"
	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/server/attempts"
	"github.com/dmitrijs2005/skdtracker/internal/server/models"
	"github.com/dmitrijs2005/skdtracker/internal/server/services"
	"github.com/dmitrijs2005/skdtracker/internal/server/session"
)

// ListAccounts shows every account with its attempt count and latest attempt.
func (c *Controller) ListAccounts(ctx context.Context, st session.State) (session.State, api.ListAccountsResult) {
	if err := requireAdmin(st); err != nil {
		return st, api.ListAccountsResult{Outcome: c.fail(ctx, st, "list accounts", err), Accounts: []api.AccountView{}}
	}

	rows := c.scores.Overview(ctx)
	out := make([]api.AccountView, len(rows))
	for i, r := range rows {
		out[i] = newAccountView(r)
	}
	return st, api.ListAccountsResult{Outcome: ok("%d account(s)", len(out)), Accounts: out}
}

func (c *Controller) SetRole(ctx context.Context, st session.State, req api.SetRoleRequest) (session.State, api.Outcome) {
	if err := requireAdmin(st); err != nil {
		return st, c.fail(ctx, st, "set role", err)
	}
	if err := c.check(req); err != nil {
		return st, c.fail(ctx, st, "set role", err)
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return st, c.fail(ctx, st, "set role", common.Invalid("role", err))
	}
	if req.AccountID == st.AccountID && role != models.RoleAdmin {
		return st, api.Outcome{Message: "you cannot remove your own admin role"}
	}

	if err := c.admin.SetRole(ctx, req.AccountID, role); err != nil {
		return st, c.fail(ctx, st, "set role", err)
	}
	return st, ok("role set to %s", role)
}

func (c *Controller) SetPassword(ctx context.Context, st session.State, req api.SetPasswordRequest) (session.State, api.Outcome) {
	if err := requireAdmin(st); err != nil {
		return st, c.fail(ctx, st, "set password", err)
	}
	if err := c.check(req); err != nil {
		return st, c.fail(ctx, st, "set password", err)
	}
	if err := c.admin.SetPassword(ctx, req.AccountID, req.Password); err != nil {
		return st, c.fail(ctx, st, "set password", err)
	}
	return st, ok("password updated")
}

// DeleteAccount removes an account and its attempts. Admins cannot delete
// themselves.
func (c *Controller) DeleteAccount(ctx context.Context, st session.State, req api.DeleteAccountRequest) (session.State, api.Outcome) {
	if err := requireAdmin(st); err != nil {
		return st, c.fail(ctx, st, "delete account", err)
	}
	if err := c.check(req); err != nil {
		return st, c.fail(ctx, st, "delete account", err)
	}
	if req.AccountID == st.AccountID {
		return st, api.Outcome{Message: "you cannot delete your own account"}
	}

	if err := c.admin.DeleteAccount(ctx, req.AccountID); err != nil {
		return st, c.fail(ctx, st, "delete account", err)
	}
	return st, ok("account deleted")
}

// BulkDeleteAttempts removes the listed attempts, stopping at the first store
// failure.
func (c *Controller) BulkDeleteAttempts(ctx context.Context, st session.State, req api.BulkDeleteRequest) (session.State, api.Outcome) {
	if err := requireAdmin(st); err != nil {
		return st, c.fail(ctx, st, "bulk delete", err)
	}
	if err := c.check(req); err != nil {
		return st, c.fail(ctx, st, "bulk delete", err)
	}

	n, err := c.scores.DeleteAttempts(ctx, req.AttemptIDs)
	if err != nil {
		c.logger.Error(ctx, "bulk delete stopped", "deleted", n, "requested", len(req.AttemptIDs), "error", err)
		return st, api.Outcome{Message: fmt.Sprintf("deleted %d of %d attempt(s) before an error, please retry", n, len(req.AttemptIDs))}
	}
	return st, ok("%d attempt(s) deleted", n)
}

// RequestReset starts the two-step full reset.
func (c *Controller) RequestReset(ctx context.Context, st session.State) (session.State, api.Outcome) {
	if err := requireAdmin(st); err != nil {
		return st, c.fail(ctx, st, "reset", err)
	}
	st.ResetPending = true
	return st, ok("this deletes every attempt and every non-admin account; type %q to confirm", common.ResetConfirmationPhrase)
}

// ConfirmReset runs the reset if phrase matches. A wrong phrase keeps the
// reset pending.
func (c *Controller) ConfirmReset(ctx context.Context, st session.State, req api.ConfirmResetRequest) (session.State, api.Outcome) {
	if err := requireAdmin(st); err != nil {
		return st, c.fail(ctx, st, "reset", err)
	}
	if !st.ResetPending {
		return st, c.fail(ctx, st, "reset", common.ErrConfirmationRequired)
	}
	if strings.TrimSpace(req.Phrase) != common.ResetConfirmationPhrase {
		return st, c.fail(ctx, st, "reset", common.ErrConfirmationPhrase)
	}

	st.ResetPending = false
	res, err := c.admin.ResetAllData(ctx)
	if err != nil {
		c.logger.Error(ctx, "reset incomplete", "account_id", st.AccountID, "scores_deleted", res.ScoresDeleted, "error", err)
		return st, api.Outcome{Message: fmt.Sprintf("reset incomplete: %d attempt(s) deleted, accounts were not removed", res.ScoresDeleted)}
	}
	return st, ok("reset done: %d attempt(s) and %d account(s) deleted", res.ScoresDeleted, res.AccountsDeleted)
}

func (c *Controller) CancelReset(_ context.Context, st session.State) (session.State, api.Outcome) {
	st.ResetPending = false
	return st, ok("reset cancelled")
}

// Export renders the selected attempts and publishes them, returning a
// short-lived download link.
func (c *Controller) Export(ctx context.Context, st session.State, req api.ExportRequest) (session.State, api.ExportResult) {
	if req.All {
		if err := requireAdmin(st); err != nil {
			return st, api.ExportResult{Outcome: c.fail(ctx, st, "export", err)}
		}
	}
	accountID, err := targetAccount(st, req.AccountID)
	if err != nil {
		return st, api.ExportResult{Outcome: c.fail(ctx, st, "export", err)}
	}
	if err := c.check(req); err != nil {
		return st, api.ExportResult{Outcome: c.fail(ctx, st, "export", err)}
	}
	mode, err := attempts.ParseMode(req.Mode)
	if err != nil {
		return st, api.ExportResult{Outcome: c.fail(ctx, st, "export", err)}
	}
	if !req.All && req.Mode == "" {
		mode = attempts.All()
	}

	var rows []services.ExportRow
	if req.All {
		for _, acc := range c.admin.ListAccounts(ctx) {
			seq := attempts.Select(c.scores.History(ctx, acc.ID), attempts.All())
			rows = append(rows, services.ExportRows(acc.Username, acc.CohortString(), seq)...)
		}
	} else {
		seq, err := c.scores.ListAttempts(ctx, accountID, mode)
		if err != nil {
			return st, api.ExportResult{Outcome: c.fail(ctx, st, "export", err)}
		}
		username, cohort := st.Username, st.Cohort
		if accountID != st.AccountID {
			username, cohort = c.accountLabel(ctx, accountID)
		}
		rows = services.ExportRows(username, cohort, seq)
	}

	format := req.Format
	if format == "" {
		format = services.FormatCSV
	}
	data, contentType, err := c.exporter.Render(rows, format)
	if err != nil {
		return st, api.ExportResult{Outcome: c.fail(ctx, st, "export", err)}
	}
	key, url, err := c.exporter.Publish(ctx, data, format, contentType)
	if err != nil {
		c.logger.Error(ctx, "export publish failed", "account_id", st.AccountID, "error", err)
		return st, api.ExportResult{Outcome: api.Outcome{Message: "export could not be uploaded, please try again"}, Rows: len(rows)}
	}

	return st, api.ExportResult{
		Outcome: ok("%d row(s) exported, link valid for 15 minutes", len(rows)),
		Key:     key,
		URL:     url,
		Rows:    len(rows),
	}
}

func (c *Controller) accountLabel(ctx context.Context, accountID string) (string, string) {
	for _, a := range c.admin.ListAccounts(ctx) {
		if a.ID == accountID {
			return a.Username, a.CohortString()
		}
	}
	return accountID, ""
}
