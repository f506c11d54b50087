package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/skdtracker/internal/api"
	"github.com/dmitrijs2005/skdtracker/internal/common"
)

var _ Client = (*GRPCClient)(nil)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

// accessTokenInterceptor attaches the session token, if any. A token the
// server no longer accepts is forgotten.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if status.Code(err) == codes.Unauthenticated {
		s.setToken("")
	}
	return err
}

// NewDashboardClient prepares a connection to endpointURL. The connection is
// established lazily on the first call. Extra options are appended to the
// defaults.
func NewDashboardClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(api.Codec{})),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// LoggedIn reports whether a session token is held.
func (s *GRPCClient) LoggedIn() bool {
	return s.token() != ""
}

func (s *GRPCClient) invoke(ctx context.Context, method string, req, resp any) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.conn.Invoke(ctx, api.FullMethod(method), req, resp); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	var resp api.PingResponse
	if err := s.invoke(ctx, api.MethodPing, &api.Empty{}, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) outcome(ctx context.Context, method string, req any) (api.Outcome, error) {
	var resp api.Outcome
	err := s.invoke(ctx, method, req, &resp)
	return resp, err
}

func (s *GRPCClient) session(ctx context.Context, method string, req any) (*api.SessionResponse, error) {
	var resp api.SessionResponse
	if err := s.invoke(ctx, method, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *GRPCClient) Register(ctx context.Context, req api.RegisterRequest) (api.Outcome, error) {
	return s.outcome(ctx, api.MethodRegister, &req)
}

// Login keeps the issued token on success and drops any held token on
// failure, since the server has ended that session.
func (s *GRPCClient) Login(ctx context.Context, req api.LoginRequest) (*api.SessionResponse, error) {
	resp, err := s.session(ctx, api.MethodLogin, &req)
	if err != nil {
		return nil, err
	}
	if resp.OK {
		s.setToken(resp.Token)
	} else {
		s.setToken("")
	}
	return resp, nil
}

func (s *GRPCClient) WhoAmI(ctx context.Context) (*api.SessionResponse, error) {
	return s.session(ctx, api.MethodWhoAmI, &api.Empty{})
}

func (s *GRPCClient) RequestLogout(ctx context.Context) (*api.SessionResponse, error) {
	return s.session(ctx, api.MethodRequestLogout, &api.Empty{})
}

func (s *GRPCClient) ConfirmLogout(ctx context.Context) (*api.SessionResponse, error) {
	resp, err := s.session(ctx, api.MethodConfirmLogout, &api.Empty{})
	if err != nil {
		return nil, err
	}
	if resp.OK {
		s.setToken("")
	}
	return resp, nil
}

func (s *GRPCClient) CancelLogout(ctx context.Context) (*api.SessionResponse, error) {
	return s.session(ctx, api.MethodCancelLogout, &api.Empty{})
}

func (s *GRPCClient) ChangePassword(ctx context.Context, req api.ChangePasswordRequest) (api.Outcome, error) {
	return s.outcome(ctx, api.MethodChangePassword, &req)
}

func (s *GRPCClient) SubmitAttempt(ctx context.Context, req api.SubmitAttemptRequest) (*api.SubmitAttemptResult, error) {
	var resp api.SubmitAttemptResult
	if err := s.invoke(ctx, api.MethodSubmitAttempt, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *GRPCClient) EditAttempt(ctx context.Context, req api.EditAttemptRequest) (api.Outcome, error) {
	return s.outcome(ctx, api.MethodEditAttempt, &req)
}

func (s *GRPCClient) DeleteAttempt(ctx context.Context, attemptID string) (api.Outcome, error) {
	return s.outcome(ctx, api.MethodDeleteAttempt, &api.DeleteAttemptRequest{AttemptID: attemptID})
}

func (s *GRPCClient) ListAttempts(ctx context.Context, req api.ListAttemptsRequest) (*api.ListAttemptsResult, error) {
	var resp api.ListAttemptsResult
	if err := s.invoke(ctx, api.MethodListAttempts, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *GRPCClient) ListAccounts(ctx context.Context) (*api.ListAccountsResult, error) {
	var resp api.ListAccountsResult
	if err := s.invoke(ctx, api.MethodListAccounts, &api.Empty{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *GRPCClient) SetRole(ctx context.Context, req api.SetRoleRequest) (api.Outcome, error) {
	return s.outcome(ctx, api.MethodSetRole, &req)
}

func (s *GRPCClient) SetPassword(ctx context.Context, req api.SetPasswordRequest) (api.Outcome, error) {
	return s.outcome(ctx, api.MethodSetPassword, &req)
}

func (s *GRPCClient) DeleteAccount(ctx context.Context, accountID string) (api.Outcome, error) {
	return s.outcome(ctx, api.MethodDeleteAccount, &api.DeleteAccountRequest{AccountID: accountID})
}

func (s *GRPCClient) BulkDeleteAttempts(ctx context.Context, attemptIDs []string) (api.Outcome, error) {
	return s.outcome(ctx, api.MethodBulkDeleteAttempts, &api.BulkDeleteRequest{AttemptIDs: attemptIDs})
}

func (s *GRPCClient) RequestReset(ctx context.Context) (*api.SessionResponse, error) {
	return s.session(ctx, api.MethodRequestReset, &api.Empty{})
}

func (s *GRPCClient) ConfirmReset(ctx context.Context, phrase string) (*api.SessionResponse, error) {
	return s.session(ctx, api.MethodConfirmReset, &api.ConfirmResetRequest{Phrase: phrase})
}

func (s *GRPCClient) CancelReset(ctx context.Context) (*api.SessionResponse, error) {
	return s.session(ctx, api.MethodCancelReset, &api.Empty{})
}

func (s *GRPCClient) Export(ctx context.Context, req api.ExportRequest) (*api.ExportResult, error) {
	var resp api.ExportResult
	if err := s.invoke(ctx, api.MethodExport, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
