package client

import (
	"context"

	"github.com/dmitrijs2005/skdtracker/internal/api"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	LoggedIn() bool

	Register(ctx context.Context, req api.RegisterRequest) (api.Outcome, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.SessionResponse, error)
	WhoAmI(ctx context.Context) (*api.SessionResponse, error)
	RequestLogout(ctx context.Context) (*api.SessionResponse, error)
	ConfirmLogout(ctx context.Context) (*api.SessionResponse, error)
	CancelLogout(ctx context.Context) (*api.SessionResponse, error)
	ChangePassword(ctx context.Context, req api.ChangePasswordRequest) (api.Outcome, error)

	SubmitAttempt(ctx context.Context, req api.SubmitAttemptRequest) (*api.SubmitAttemptResult, error)
	EditAttempt(ctx context.Context, req api.EditAttemptRequest) (api.Outcome, error)
	DeleteAttempt(ctx context.Context, attemptID string) (api.Outcome, error)
	ListAttempts(ctx context.Context, req api.ListAttemptsRequest) (*api.ListAttemptsResult, error)

	ListAccounts(ctx context.Context) (*api.ListAccountsResult, error)
	SetRole(ctx context.Context, req api.SetRoleRequest) (api.Outcome, error)
	SetPassword(ctx context.Context, req api.SetPasswordRequest) (api.Outcome, error)
	DeleteAccount(ctx context.Context, accountID string) (api.Outcome, error)
	BulkDeleteAttempts(ctx context.Context, attemptIDs []string) (api.Outcome, error)
	RequestReset(ctx context.Context) (*api.SessionResponse, error)
	ConfirmReset(ctx context.Context, phrase string) (*api.SessionResponse, error)
	CancelReset(ctx context.Context) (*api.SessionResponse, error)
	Export(ctx context.Context, req api.ExportRequest) (*api.ExportResult, error)
}
