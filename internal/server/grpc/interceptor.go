package grpc

import (
	"context"
	"errors"
	"path"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/skdtracker/internal/api"
	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/server/auth"
	"github.com/dmitrijs2005/skdtracker/internal/server/metrics"
	"github.com/dmitrijs2005/skdtracker/internal/server/session"
)

type ctxKey string

const sessionKey ctxKey = "session"

func withSession(ctx context.Context, st session.State) context.Context {
	return context.WithValue(ctx, sessionKey, st)
}

func sessionFromContext(ctx context.Context) (session.State, bool) {
	st, ok := ctx.Value(sessionKey).(session.State)
	return st, ok
}

func accessToken(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// loadSession resolves a token to its stored state.
func (s *GRPCServer) loadSession(ctx context.Context, token string) (session.State, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return session.State{}, status.Error(codes.Unauthenticated, err.Error())
	}

	st, err := s.sessions.Load(ctx, claims.SessionID)
	if errors.Is(err, common.ErrorNotFound) {
		return session.State{}, status.Error(codes.Unauthenticated, "session expired")
	}
	if err != nil {
		s.logger.Error(ctx, "session load failed", "error", err)
		return session.State{}, status.Error(codes.Internal, "internal error")
	}
	return st, nil
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if api.Public(path.Base(info.FullMethod)) {
		return handler(ctx, req)
	}

	token := accessToken(ctx)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	st, err := s.loadSession(ctx, token)
	if err != nil {
		return nil, err
	}

	return handler(withSession(ctx, st), req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	metrics.ObserveRequest(path.Base(info.FullMethod), status.Code(err).String(), time.Since(start))
	return resp, err
}
