// Package grpc exposes the dashboard handlers as the skd.Dashboard gRPC
// service.
//
// Messages travel as JSON (see internal/api). Every call except Ping,
// Register and Login carries a session token in the "access_token" metadata
// key; the interceptor resolves it to the stored session state, and the
// handler persists the state the dashboard returns.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/skdtracker/internal/api"
	"github.com/dmitrijs2005/skdtracker/internal/logging"
	"github.com/dmitrijs2005/skdtracker/internal/server/dashboard"
	"github.com/dmitrijs2005/skdtracker/internal/server/session"
)

type GRPCServer struct {
	address   string
	dashboard *dashboard.Controller
	sessions  session.Store
	logger    logging.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewGRPCServer(a string, l logging.Logger, d *dashboard.Controller, sessions session.Store, secretKey string, tokenTTL time.Duration) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		dashboard: d,
		sessions:  sessions,
		jwtSecret: []byte(secretKey),
		tokenTTL:  tokenTTL,
	}
}

// newGRPCServer builds the grpc.Server with the JSON codec, interceptors and
// the dashboard service registered.
func (s *GRPCServer) newGRPCServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ForceServerCodec(api.Codec{}),
		grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor),
	)
	srv.RegisterService(&serviceDesc, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newGRPCServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
