package dashboard

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/skdtracker/internal/api"
	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/server/attempts"
	"github.com/dmitrijs2005/skdtracker/internal/server/metrics"
	"github.com/dmitrijs2005/skdtracker/internal/server/session"
)

// SubmitAttempt appends a new attempt; it never overwrites an earlier one.
func (c *Controller) SubmitAttempt(ctx context.Context, st session.State, req api.SubmitAttemptRequest) (session.State, api.SubmitAttemptResult) {
	accountID, err := targetAccount(st, req.AccountID)
	if err != nil {
		return st, api.SubmitAttemptResult{Outcome: c.fail(ctx, st, "submit attempt", err)}
	}
	if err := c.check(req); err != nil {
		return st, api.SubmitAttemptResult{Outcome: c.fail(ctx, st, "submit attempt", err)}
	}

	a, err := c.scores.RecordNewAttempt(ctx, accountID, components(req.Scores))
	if errors.Is(err, common.ErrorNotFound) && accountID == st.AccountID {
		return st.Cleared(), api.SubmitAttemptResult{Outcome: api.Outcome{Message: msgAccountGone}}
	}
	if err != nil {
		return st, api.SubmitAttemptResult{Outcome: c.fail(ctx, st, "submit attempt", err)}
	}
	metrics.ObserveAttempt(a.Total)

	res := api.SubmitAttemptResult{Outcome: ok("attempt saved, total %d", a.Total)}
	for _, s := range c.scores.History(ctx, accountID) {
		if s.ID == a.ID {
			v := newAttemptView(s)
			res.Attempt = &v
			res.Message = ok("SKD #%d saved, total %d", s.Ordinal, a.Total).Message
			break
		}
	}
	return st, res
}

// ownAttempt checks that the attempt exists and belongs to the caller, or
// that the caller is an admin.
func (c *Controller) ownAttempt(ctx context.Context, st session.State, attemptID string) error {
	if err := requireAuth(st); err != nil {
		return err
	}
	a, err := c.scores.GetAttempt(ctx, attemptID)
	if err != nil {
		return err
	}
	if a.AccountID != st.AccountID && !st.IsAdmin() {
		return common.ErrorForbidden
	}
	return nil
}

// EditAttempt changes an attempt's components in place, addressed by ID.
func (c *Controller) EditAttempt(ctx context.Context, st session.State, req api.EditAttemptRequest) (session.State, api.Outcome) {
	if err := requireAuth(st); err != nil {
		return st, c.fail(ctx, st, "edit attempt", err)
	}
	if err := c.check(req); err != nil {
		return st, c.fail(ctx, st, "edit attempt", err)
	}
	if err := c.ownAttempt(ctx, st, req.AttemptID); err != nil {
		return st, c.fail(ctx, st, "edit attempt", err)
	}

	a, err := c.scores.EditAttempt(ctx, req.AttemptID, components(req.Scores))
	if err != nil {
		return st, c.fail(ctx, st, "edit attempt", err)
	}
	return st, ok("attempt updated, total %d", a.Total)
}

func (c *Controller) DeleteAttempt(ctx context.Context, st session.State, req api.DeleteAttemptRequest) (session.State, api.Outcome) {
	if err := requireAuth(st); err != nil {
		return st, c.fail(ctx, st, "delete attempt", err)
	}
	if err := c.check(req); err != nil {
		return st, c.fail(ctx, st, "delete attempt", err)
	}
	if err := c.ownAttempt(ctx, st, req.AttemptID); err != nil {
		return st, c.fail(ctx, st, "delete attempt", err)
	}

	if err := c.scores.DeleteAttempt(ctx, req.AttemptID); err != nil {
		return st, c.fail(ctx, st, "delete attempt", err)
	}
	return st, ok("attempt deleted")
}

// ListAttempts returns the numbered attempts picked by the request's mode.
// A history that cannot be read is shown as empty.
func (c *Controller) ListAttempts(ctx context.Context, st session.State, req api.ListAttemptsRequest) (session.State, api.ListAttemptsResult) {
	accountID, err := targetAccount(st, req.AccountID)
	if err != nil {
		return st, api.ListAttemptsResult{Outcome: c.fail(ctx, st, "list attempts", err), Attempts: []api.AttemptView{}}
	}

	mode, err := attempts.ParseMode(req.Mode)
	if err != nil {
		return st, api.ListAttemptsResult{Outcome: c.fail(ctx, st, "list attempts", err), Attempts: []api.AttemptView{}}
	}

	seq, err := c.scores.ListAttempts(ctx, accountID, mode)
	if err != nil {
		return st, api.ListAttemptsResult{Outcome: c.fail(ctx, st, "list attempts", err), Attempts: []api.AttemptView{}}
	}

	res := api.ListAttemptsResult{Outcome: ok("%d attempt(s)", len(seq)), Attempts: newAttemptViews(seq)}
	if len(seq) == 0 {
		res.Message = "no attempts yet"
	}
	return st, res
}
