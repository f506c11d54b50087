package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/skdtracker/internal/api"
	"github.com/dmitrijs2005/skdtracker/internal/client/client"
)

// fakeClient records requests and returns canned responses.
type fakeClient struct {
	loggedIn bool
	pingErr  error
	calls    []string

	registerReq api.RegisterRequest
	loginReq    api.LoginRequest
	loginResp   *api.SessionResponse
	whoAmIResp  *api.SessionResponse

	logoutResp *api.SessionResponse

	changePwReq api.ChangePasswordRequest

	submitReq  api.SubmitAttemptRequest
	listReqs   []api.ListAttemptsRequest
	listResp   *api.ListAttemptsResult
	editReq    api.EditAttemptRequest
	deletedID  string
	accounts   *api.ListAccountsResult
	setRoleReq api.SetRoleRequest
	setPwReq   api.SetPasswordRequest
	removedID  string
	bulkIDs    []string
	resetResp  *api.SessionResponse
	phrase     string
	exportReq  api.ExportRequest
	exportResp *api.ExportResult
}

var _ client.Client = (*fakeClient)(nil)

func okOutcome(msg string) api.Outcome { return api.Outcome{OK: true, Message: msg} }

func (f *fakeClient) call(name string) { f.calls = append(f.calls, name) }

func (f *fakeClient) Close() error                   { f.call("close"); return nil }
func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeClient) LoggedIn() bool                 { return f.loggedIn }

func (f *fakeClient) Register(_ context.Context, req api.RegisterRequest) (api.Outcome, error) {
	f.call("register")
	f.registerReq = req
	return okOutcome("account created, please log in"), nil
}

func (f *fakeClient) Login(_ context.Context, req api.LoginRequest) (*api.SessionResponse, error) {
	f.call("login")
	f.loginReq = req
	f.loggedIn = f.loginResp.OK
	return f.loginResp, nil
}

func (f *fakeClient) WhoAmI(context.Context) (*api.SessionResponse, error) {
	f.call("whoami")
	return f.whoAmIResp, nil
}

func (f *fakeClient) RequestLogout(context.Context) (*api.SessionResponse, error) {
	f.call("request-logout")
	if f.logoutResp != nil {
		return f.logoutResp, nil
	}
	return &api.SessionResponse{Outcome: okOutcome("confirm logout"), LogoutPending: true}, nil
}

func (f *fakeClient) ConfirmLogout(context.Context) (*api.SessionResponse, error) {
	f.call("confirm-logout")
	f.loggedIn = false
	return &api.SessionResponse{Outcome: okOutcome("logged out")}, nil
}

func (f *fakeClient) CancelLogout(context.Context) (*api.SessionResponse, error) {
	f.call("cancel-logout")
	return &api.SessionResponse{Outcome: okOutcome("logout cancelled")}, nil
}

func (f *fakeClient) ChangePassword(_ context.Context, req api.ChangePasswordRequest) (api.Outcome, error) {
	f.call("change-password")
	f.changePwReq = req
	return okOutcome("password changed"), nil
}

func (f *fakeClient) SubmitAttempt(_ context.Context, req api.SubmitAttemptRequest) (*api.SubmitAttemptResult, error) {
	f.call("submit")
	f.submitReq = req
	return &api.SubmitAttemptResult{Outcome: okOutcome("SKD #1 saved, total 450")}, nil
}

func (f *fakeClient) EditAttempt(_ context.Context, req api.EditAttemptRequest) (api.Outcome, error) {
	f.call("edit")
	f.editReq = req
	return okOutcome("attempt updated"), nil
}

func (f *fakeClient) DeleteAttempt(_ context.Context, id string) (api.Outcome, error) {
	f.call("delete")
	f.deletedID = id
	return okOutcome("attempt deleted"), nil
}

func (f *fakeClient) ListAttempts(_ context.Context, req api.ListAttemptsRequest) (*api.ListAttemptsResult, error) {
	f.call("list")
	f.listReqs = append(f.listReqs, req)
	return f.listResp, nil
}

func (f *fakeClient) ListAccounts(context.Context) (*api.ListAccountsResult, error) {
	f.call("accounts")
	return f.accounts, nil
}

func (f *fakeClient) SetRole(_ context.Context, req api.SetRoleRequest) (api.Outcome, error) {
	f.call("set-role")
	f.setRoleReq = req
	return okOutcome("role updated"), nil
}

func (f *fakeClient) SetPassword(_ context.Context, req api.SetPasswordRequest) (api.Outcome, error) {
	f.call("set-password")
	f.setPwReq = req
	return okOutcome("password updated"), nil
}

func (f *fakeClient) DeleteAccount(_ context.Context, id string) (api.Outcome, error) {
	f.call("delete-account")
	f.removedID = id
	return okOutcome("account deleted"), nil
}

func (f *fakeClient) BulkDeleteAttempts(_ context.Context, ids []string) (api.Outcome, error) {
	f.call("bulk-delete")
	f.bulkIDs = ids
	return okOutcome("2 attempt(s) deleted"), nil
}

func (f *fakeClient) RequestReset(context.Context) (*api.SessionResponse, error) {
	f.call("request-reset")
	if f.resetResp != nil {
		return f.resetResp, nil
	}
	return &api.SessionResponse{Outcome: okOutcome("type the phrase"), ResetPending: true}, nil
}

func (f *fakeClient) ConfirmReset(_ context.Context, phrase string) (*api.SessionResponse, error) {
	f.call("confirm-reset")
	f.phrase = phrase
	return &api.SessionResponse{Outcome: okOutcome("all data deleted")}, nil
}

func (f *fakeClient) CancelReset(context.Context) (*api.SessionResponse, error) {
	f.call("cancel-reset")
	return &api.SessionResponse{Outcome: okOutcome("reset cancelled")}, nil
}

func (f *fakeClient) Export(_ context.Context, req api.ExportRequest) (*api.ExportResult, error) {
	f.call("export")
	f.exportReq = req
	return f.exportResp, nil
}

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func newTestApp(f *fakeClient, input *bufio.Reader) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	if input == nil {
		input = readerFromLines()
	}
	return &App{client: f, reader: input, out: &out}, &out
}

func loggedInAs(a *App, f *fakeClient, name, role string) {
	f.loggedIn = true
	a.userName = name
	a.role = role
}

// stubPasswords makes getPassword return pws in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(string, io.Writer) (string, error) {
		pw := pws[i%len(pws)]
		i++
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })
}
