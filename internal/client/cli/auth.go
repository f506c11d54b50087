package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/skdtracker/internal/api"
)

// getSimpleText, getPassword and confirm are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

var errNotLoggedIn = errors.New("please log in first")

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	return nil
}

// report prints an outcome message; failures are marked with "!".
func (a *App) report(o api.Outcome) {
	if o.Message == "" {
		return
	}
	if o.OK {
		fmt.Fprintln(a.out, o.Message)
		return
	}
	fmt.Fprintln(a.out, "!", o.Message)
}

func (a *App) remember(s *api.SessionResponse) {
	a.userName = s.Username
	a.role = s.Role
	a.cohort = s.Cohort
}

func (a *App) forget() {
	a.userName, a.role, a.cohort = "", "", ""
}

// Register creates an account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	cohort, err := getSimpleText(a.reader, "Enter cohort, e.g. (2025/2026) (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	confirmPassword, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}

	out, err := a.client.Register(ctx, api.RegisterRequest{
		Username:        userName,
		Password:        password,
		ConfirmPassword: confirmPassword,
		Cohort:          cohort,
	})
	if err != nil {
		return err
	}
	a.report(out)
	return nil
}

// Login authenticates. The cohort is only needed when the same username
// exists in several cohorts.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	cohort, err := getSimpleText(a.reader, "Enter cohort (leave empty if none)", a.out)
	if err != nil {
		return err
	}

	resp, err := a.client.Login(ctx, api.LoginRequest{Username: userName, Password: password, Cohort: cohort})
	if err != nil {
		return err
	}
	if resp.OK {
		a.remember(resp)
	} else {
		a.forget()
	}
	a.report(resp.Outcome)
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	resp, err := a.client.WhoAmI(ctx)
	if err != nil {
		return err
	}
	a.remember(resp)

	line := fmt.Sprintf("%s (%s)", resp.Username, resp.Role)
	if resp.Cohort != "" {
		line += " " + resp.Cohort
	}
	fmt.Fprintln(a.out, line)
	return nil
}

// Logout asks for confirmation before the session is ended.
func (a *App) Logout(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	resp, err := a.client.RequestLogout(ctx)
	if err != nil {
		return err
	}
	a.report(resp.Outcome)
	if !resp.OK {
		return nil
	}

	yes, err := confirm(a.reader, "Log out now?", a.out)
	if err != nil {
		return err
	}
	if !yes {
		resp, err = a.client.CancelLogout(ctx)
		if err != nil {
			return err
		}
		a.report(resp.Outcome)
		return nil
	}

	resp, err = a.client.ConfirmLogout(ctx)
	if err != nil {
		return err
	}
	if resp.OK {
		a.forget()
	}
	a.report(resp.Outcome)
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	oldPassword, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	newPassword, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	confirmPassword, err := getPassword("Repeat new password", a.out)
	if err != nil {
		return err
	}

	out, err := a.client.ChangePassword(ctx, api.ChangePasswordRequest{
		OldPassword:     oldPassword,
		NewPassword:     newPassword,
		ConfirmPassword: confirmPassword,
	})
	if err != nil {
		return err
	}
	a.report(out)
	return nil
}
