package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/skdtracker/internal/api"
	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/filex"
	"github.com/dmitrijs2005/skdtracker/internal/netx"
)

// downloadFile is a test seam for netx.DownloadPresignedURL.
var downloadFile = netx.DownloadPresignedURL

var errAdminOnly = errors.New("admin access required")

func (a *App) requireAdmin() error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if !a.isAdmin() {
		return errAdminOnly
	}
	return nil
}

// accountRef resolves an account id or username to an id. A username shared
// by several cohorts must be given by id.
func (a *App) accountRef(ctx context.Context, ref string) (string, error) {
	res, err := a.client.ListAccounts(ctx)
	if err != nil {
		return "", err
	}
	if !res.OK {
		return "", fmt.Errorf("%s", res.Message)
	}

	var matches []api.AccountView
	for _, acc := range res.Accounts {
		if acc.ID == ref {
			return acc.ID, nil
		}
		if strings.EqualFold(acc.Username, ref) {
			matches = append(matches, acc)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no account %q", ref)
	case 1:
		return matches[0].ID, nil
	}
	return "", fmt.Errorf("username %q exists in %d cohorts, use the account id", ref, len(matches))
}

func (a *App) Users(ctx context.Context) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	res, err := a.client.ListAccounts(ctx)
	if err != nil {
		return err
	}
	if !res.OK {
		a.report(res.Outcome)
		return nil
	}
	printAccounts(a.out, res.Accounts)
	return nil
}

// SetRole: role <user> <admin|user>.
func (a *App) SetRole(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if len(args) != 2 {
		return usage("role <user> <admin|user>")
	}
	id, err := a.accountRef(ctx, args[0])
	if err != nil {
		return err
	}
	out, err := a.client.SetRole(ctx, api.SetRoleRequest{AccountID: id, Role: strings.ToLower(args[1])})
	if err != nil {
		return err
	}
	a.report(out)
	return nil
}

// SetPassword: setpw <user>.
func (a *App) SetPassword(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if len(args) != 1 {
		return usage("setpw <user>")
	}
	id, err := a.accountRef(ctx, args[0])
	if err != nil {
		return err
	}
	password, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	repeat, err := getPassword("Repeat new password", a.out)
	if err != nil {
		return err
	}
	if password != repeat {
		return common.ErrPasswordMismatch
	}

	out, err := a.client.SetPassword(ctx, api.SetPasswordRequest{AccountID: id, Password: password})
	if err != nil {
		return err
	}
	a.report(out)
	return nil
}

// RemoveUser: rmuser <user>. The account's attempts go with it.
func (a *App) RemoveUser(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if len(args) != 1 {
		return usage("rmuser <user>")
	}
	id, err := a.accountRef(ctx, args[0])
	if err != nil {
		return err
	}
	yes, err := confirm(a.reader, fmt.Sprintf("Delete account %s and all its attempts?", args[0]), a.out)
	if err != nil || !yes {
		return err
	}
	out, err := a.client.DeleteAccount(ctx, id)
	if err != nil {
		return err
	}
	a.report(out)
	return nil
}

// BulkDelete: bulkdelete <user> <all|N|A-B>.
func (a *App) BulkDelete(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if len(args) != 2 {
		return usage("bulkdelete <user> <all|N|A-B>")
	}
	id, err := a.accountRef(ctx, args[0])
	if err != nil {
		return err
	}
	res, err := a.client.ListAttempts(ctx, api.ListAttemptsRequest{AccountID: id, Mode: args[1]})
	if err != nil {
		return err
	}
	if !res.OK || len(res.Attempts) == 0 {
		a.report(res.Outcome)
		return nil
	}

	printAttempts(a.out, res.Attempts)
	yes, err := confirm(a.reader, fmt.Sprintf("Delete %d attempt(s)?", len(res.Attempts)), a.out)
	if err != nil || !yes {
		return err
	}

	ids := make([]string, 0, len(res.Attempts))
	for _, v := range res.Attempts {
		ids = append(ids, v.ID)
	}
	out, err := a.client.BulkDeleteAttempts(ctx, ids)
	if err != nil {
		return err
	}
	a.report(out)
	return nil
}

// Reset wipes every attempt and every non-admin account once the
// confirmation phrase is typed. Empty input cancels.
func (a *App) Reset(ctx context.Context) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	resp, err := a.client.RequestReset(ctx)
	if err != nil {
		return err
	}
	a.report(resp.Outcome)
	if !resp.OK {
		return nil
	}

	phrase, err := getSimpleText(a.reader,
		fmt.Sprintf("Type %q to confirm, empty input cancels", common.ResetConfirmationPhrase), a.out)
	if err != nil {
		return err
	}
	if phrase == "" {
		resp, err = a.client.CancelReset(ctx)
	} else {
		resp, err = a.client.ConfirmReset(ctx, phrase)
	}
	if err != nil {
		return err
	}
	a.report(resp.Outcome)
	return nil
}

func splitFormat(args []string) (string, []string) {
	if len(args) > 0 {
		switch f := strings.ToLower(args[0]); f {
		case "csv", "xlsx":
			return f, args[1:]
		}
	}
	return "", args
}

// printExport shows the link and, with an export directory configured,
// saves a copy of the file there.
func (a *App) printExport(ctx context.Context, res *api.ExportResult) error {
	a.report(res.Outcome)
	if !res.OK || res.URL == "" {
		return nil
	}
	fmt.Fprintln(a.out, res.URL)
	if a.exportDir == "" || res.Key == "" {
		return nil
	}

	dir, err := filex.EnsureSubdDir(a.exportDir)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, filepath.Base(res.Key))
	if _, err := downloadFile(ctx, res.URL, path); err != nil {
		return fmt.Errorf("saving export: %w", err)
	}
	fmt.Fprintln(a.out, "saved to", path)
	return nil
}

// Export: export [csv|xlsx] [mode] [user].
func (a *App) Export(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	format, rest := splitFormat(args)
	var mode string
	if len(rest) > 0 {
		mode = rest[0]
	}
	accountID, err := a.targetAccount(ctx, rest, 1)
	if err != nil {
		return err
	}

	res, err := a.client.Export(ctx, api.ExportRequest{AccountID: accountID, Mode: mode, Format: format})
	if err != nil {
		return err
	}
	return a.printExport(ctx, res)
}

// ExportAll: exportall [csv|xlsx].
func (a *App) ExportAll(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	format, _ := splitFormat(args)

	res, err := a.client.Export(ctx, api.ExportRequest{All: true, Format: format})
	if err != nil {
		return err
	}
	return a.printExport(ctx, res)
}
