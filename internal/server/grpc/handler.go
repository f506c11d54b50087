package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/skdtracker/internal/api"
	"github.com/dmitrijs2005/skdtracker/internal/server/auth"
	"github.com/dmitrijs2005/skdtracker/internal/server/session"
)

func (s *GRPCServer) ping(ctx context.Context, _ *api.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) register(ctx context.Context, req *api.RegisterRequest) (*api.Outcome, error) {
	s.logger.Info(ctx, "Registration request", "username", req.Username)

	_, out := s.dashboard.Register(ctx, session.New(), *req)
	return &out, nil
}

// login binds the caller's session to the account. A caller without a valid
// session token gets a new session.
func (s *GRPCServer) login(ctx context.Context, req *api.LoginRequest) (*api.SessionResponse, error) {
	st, existing := session.New(), false
	if token := accessToken(ctx); token != "" {
		if prev, err := s.loadSession(ctx, token); err == nil {
			st, existing = prev, true
		}
	}

	next, out := s.dashboard.Login(ctx, st, *req)
	if !out.OK {
		if existing {
			if err := s.persist(ctx, next); err != nil {
				return nil, err
			}
		}
		return sessionResponse(next, out), nil
	}

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	token, err := auth.GenerateToken(next.ID, next.AccountID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	resp := sessionResponse(next, out)
	resp.Token = token
	return resp, nil
}

// persist stores an authenticated state and drops any other.
func (s *GRPCServer) persist(ctx context.Context, st session.State) error {
	var err error
	if st.Authenticated() {
		err = s.sessions.Save(ctx, st)
	} else {
		err = s.sessions.Delete(ctx, st.ID)
	}
	if err != nil {
		s.logger.Error(ctx, "session store failed", "session_id", st.ID, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	return nil
}

func sessionResponse(st session.State, out api.Outcome) *api.SessionResponse {
	return &api.SessionResponse{
		Outcome:       out,
		Username:      st.Username,
		Role:          string(st.Role),
		Cohort:        st.Cohort,
		LogoutPending: st.LogoutPending,
		ResetPending:  st.ResetPending,
	}
}

var (
	errNoSession   = status.Error(codes.Unauthenticated, "missing session")
	errAccountGone = status.Error(codes.Unauthenticated, "account no longer exists")
)

// act runs a dashboard handler against the caller's session and persists the
// state it returns. Sessions of deleted accounts are dropped first.
func act[R any](s *GRPCServer, ctx context.Context, fn func(st session.State) (session.State, R)) (R, error) {
	var zero R
	st, ok := sessionFromContext(ctx)
	if !ok {
		return zero, errNoSession
	}
	st, alive := s.dashboard.Revalidate(ctx, st)
	if !alive {
		if err := s.persist(ctx, st); err != nil {
			return zero, err
		}
		return zero, errAccountGone
	}
	next, res := fn(st)
	if err := s.persist(ctx, next); err != nil {
		return zero, err
	}
	return res, nil
}

// actSession is act for handlers reporting the session itself.
func (s *GRPCServer) actSession(ctx context.Context, fn func(st session.State) (session.State, api.Outcome)) (*api.SessionResponse, error) {
	var next session.State
	out, err := act(s, ctx, func(st session.State) (session.State, api.Outcome) {
		var out api.Outcome
		next, out = fn(st)
		return next, out
	})
	if err != nil {
		return nil, err
	}
	return sessionResponse(next, out), nil
}

func (s *GRPCServer) whoAmI(ctx context.Context, _ *api.Empty) (*api.SessionResponse, error) {
	return s.actSession(ctx, func(st session.State) (session.State, api.Outcome) {
		return st, api.Outcome{OK: true, Message: "logged in as " + st.Username}
	})
}

func (s *GRPCServer) requestLogout(ctx context.Context, _ *api.Empty) (*api.SessionResponse, error) {
	return s.actSession(ctx, func(st session.State) (session.State, api.Outcome) {
		return s.dashboard.RequestLogout(ctx, st)
	})
}

func (s *GRPCServer) confirmLogout(ctx context.Context, _ *api.Empty) (*api.SessionResponse, error) {
	return s.actSession(ctx, func(st session.State) (session.State, api.Outcome) {
		return s.dashboard.ConfirmLogout(ctx, st)
	})
}

func (s *GRPCServer) cancelLogout(ctx context.Context, _ *api.Empty) (*api.SessionResponse, error) {
	return s.actSession(ctx, func(st session.State) (session.State, api.Outcome) {
		return s.dashboard.CancelLogout(ctx, st)
	})
}

func (s *GRPCServer) requestReset(ctx context.Context, _ *api.Empty) (*api.SessionResponse, error) {
	return s.actSession(ctx, func(st session.State) (session.State, api.Outcome) {
		return s.dashboard.RequestReset(ctx, st)
	})
}

func (s *GRPCServer) confirmReset(ctx context.Context, req *api.ConfirmResetRequest) (*api.SessionResponse, error) {
	return s.actSession(ctx, func(st session.State) (session.State, api.Outcome) {
		return s.dashboard.ConfirmReset(ctx, st, *req)
	})
}

func (s *GRPCServer) cancelReset(ctx context.Context, _ *api.Empty) (*api.SessionResponse, error) {
	return s.actSession(ctx, func(st session.State) (session.State, api.Outcome) {
		return s.dashboard.CancelReset(ctx, st)
	})
}

// outcome adapts handlers that only report an Outcome.
func outcome(s *GRPCServer, ctx context.Context, fn func(st session.State) (session.State, api.Outcome)) (*api.Outcome, error) {
	out, err := act(s, ctx, fn)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GRPCServer) changePassword(ctx context.Context, req *api.ChangePasswordRequest) (*api.Outcome, error) {
	return outcome(s, ctx, func(st session.State) (session.State, api.Outcome) {
		return s.dashboard.ChangePassword(ctx, st, *req)
	})
}

func (s *GRPCServer) editAttempt(ctx context.Context, req *api.EditAttemptRequest) (*api.Outcome, error) {
	return outcome(s, ctx, func(st session.State) (session.State, api.Outcome) {
		return s.dashboard.EditAttempt(ctx, st, *req)
	})
}

func (s *GRPCServer) deleteAttempt(ctx context.Context, req *api.DeleteAttemptRequest) (*api.Outcome, error) {
	return outcome(s, ctx, func(st session.State) (session.State, api.Outcome) {
		return s.dashboard.DeleteAttempt(ctx, st, *req)
	})
}

func (s *GRPCServer) setRole(ctx context.Context, req *api.SetRoleRequest) (*api.Outcome, error) {
	return outcome(s, ctx, func(st session.State) (session.State, api.Outcome) {
		return s.dashboard.SetRole(ctx, st, *req)
	})
}

func (s *GRPCServer) setPassword(ctx context.Context, req *api.SetPasswordRequest) (*api.Outcome, error) {
	return outcome(s, ctx, func(st session.State) (session.State, api.Outcome) {
		return s.dashboard.SetPassword(ctx, st, *req)
	})
}

func (s *GRPCServer) deleteAccount(ctx context.Context, req *api.DeleteAccountRequest) (*api.Outcome, error) {
	return outcome(s, ctx, func(st session.State) (session.State, api.Outcome) {
		return s.dashboard.DeleteAccount(ctx, st, *req)
	})
}

func (s *GRPCServer) bulkDeleteAttempts(ctx context.Context, req *api.BulkDeleteRequest) (*api.Outcome, error) {
	return outcome(s, ctx, func(st session.State) (session.State, api.Outcome) {
		return s.dashboard.BulkDeleteAttempts(ctx, st, *req)
	})
}

func (s *GRPCServer) submitAttempt(ctx context.Context, req *api.SubmitAttemptRequest) (*api.SubmitAttemptResult, error) {
	res, err := act(s, ctx, func(st session.State) (session.State, api.SubmitAttemptResult) {
		return s.dashboard.SubmitAttempt(ctx, st, *req)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *GRPCServer) listAttempts(ctx context.Context, req *api.ListAttemptsRequest) (*api.ListAttemptsResult, error) {
	res, err := act(s, ctx, func(st session.State) (session.State, api.ListAttemptsResult) {
		return s.dashboard.ListAttempts(ctx, st, *req)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *GRPCServer) listAccounts(ctx context.Context, _ *api.Empty) (*api.ListAccountsResult, error) {
	res, err := act(s, ctx, func(st session.State) (session.State, api.ListAccountsResult) {
		return s.dashboard.ListAccounts(ctx, st)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *GRPCServer) export(ctx context.Context, req *api.ExportRequest) (*api.ExportResult, error) {
	res, err := act(s, ctx, func(st session.State) (session.State, api.ExportResult) {
		return s.dashboard.Export(ctx, st, *req)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
