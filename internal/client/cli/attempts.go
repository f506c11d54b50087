package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/skdtracker/internal/api"
)

// targetAccount resolves an optional trailing account reference. No
// reference means the caller's own account.
func (a *App) targetAccount(ctx context.Context, args []string, at int) (string, error) {
	if len(args) <= at {
		return "", nil
	}
	return a.accountRef(ctx, args[at])
}

func (a *App) readScore(name string) (int, error) {
	s, err := getSimpleText(a.reader, "Enter "+name+" score", a.out)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", name)
	}
	return n, nil
}

func (a *App) readScores() (api.Scores, error) {
	var sc api.Scores
	var err error
	if sc.TWK, err = a.readScore("TWK"); err != nil {
		return sc, err
	}
	if sc.TIU, err = a.readScore("TIU"); err != nil {
		return sc, err
	}
	if sc.TKP, err = a.readScore("TKP"); err != nil {
		return sc, err
	}
	return sc, nil
}

// Submit records a new attempt: submit [user].
func (a *App) Submit(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	accountID, err := a.targetAccount(ctx, args, 0)
	if err != nil {
		return err
	}
	scores, err := a.readScores()
	if err != nil {
		return err
	}

	res, err := a.client.SubmitAttempt(ctx, api.SubmitAttemptRequest{AccountID: accountID, Scores: scores})
	if err != nil {
		return err
	}
	a.report(res.Outcome)
	return nil
}

// List prints attempts: list [latest|all|N|A-B] [user].
func (a *App) List(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	var mode string
	if len(args) > 0 {
		mode = args[0]
	}
	accountID, err := a.targetAccount(ctx, args, 1)
	if err != nil {
		return err
	}

	res, err := a.client.ListAttempts(ctx, api.ListAttemptsRequest{AccountID: accountID, Mode: mode})
	if err != nil {
		return err
	}
	if !res.OK || len(res.Attempts) == 0 {
		a.report(res.Outcome)
		return nil
	}
	printAttempts(a.out, res.Attempts)
	return nil
}

// attemptByOrdinal finds attempt #n of an account as numbered by List.
func (a *App) attemptByOrdinal(ctx context.Context, accountID, n string) (*api.AttemptView, error) {
	if _, err := strconv.Atoi(n); err != nil {
		return nil, fmt.Errorf("attempt number must be a whole number, got %q", n)
	}
	res, err := a.client.ListAttempts(ctx, api.ListAttemptsRequest{AccountID: accountID, Mode: n})
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, fmt.Errorf("%s", res.Message)
	}
	if len(res.Attempts) == 0 {
		return nil, fmt.Errorf("no attempt #%s", n)
	}
	return &res.Attempts[0], nil
}

// Edit replaces the scores of an attempt: edit <N> [user].
func (a *App) Edit(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		return usage("edit <N> [user]")
	}
	accountID, err := a.targetAccount(ctx, args, 1)
	if err != nil {
		return err
	}
	att, err := a.attemptByOrdinal(ctx, accountID, args[0])
	if err != nil {
		return err
	}
	printAttempts(a.out, []api.AttemptView{*att})

	scores, err := a.readScores()
	if err != nil {
		return err
	}
	out, err := a.client.EditAttempt(ctx, api.EditAttemptRequest{AttemptID: att.ID, Scores: scores})
	if err != nil {
		return err
	}
	a.report(out)
	return nil
}

// Delete removes an attempt after confirmation: delete <N> [user].
func (a *App) Delete(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		return usage("delete <N> [user]")
	}
	accountID, err := a.targetAccount(ctx, args, 1)
	if err != nil {
		return err
	}
	att, err := a.attemptByOrdinal(ctx, accountID, args[0])
	if err != nil {
		return err
	}
	printAttempts(a.out, []api.AttemptView{*att})

	yes, err := confirm(a.reader, fmt.Sprintf("Delete SKD #%d?", att.Ordinal), a.out)
	if err != nil || !yes {
		return err
	}
	out, err := a.client.DeleteAttempt(ctx, att.ID)
	if err != nil {
		return err
	}
	a.report(out)
	return nil
}
