package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/skdtracker/internal/api"
	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/dbx"
	"github.com/dmitrijs2005/skdtracker/internal/logging"
	"github.com/dmitrijs2005/skdtracker/internal/server/config"
	"github.com/dmitrijs2005/skdtracker/internal/server/dashboard"
	"github.com/dmitrijs2005/skdtracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/skdtracker/internal/server/services"
	"github.com/dmitrijs2005/skdtracker/internal/server/session"
	"github.com/dmitrijs2005/skdtracker/internal/server/storetest"
)

const testSecret = "secret"

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type stubExporter struct{}

func (stubExporter) Render(rows []services.ExportRow, format string) ([]byte, string, error) {
	return services.NewExportService(&config.Config{}).Render(rows, format)
}

func (stubExporter) Publish(_ context.Context, _ []byte, ext, _ string) (string, string, error) {
	return "exports/k." + ext, "http://s3.local/exports/k." + ext, nil
}

// newTestServer wires a GRPCServer to a fresh SQLite store with an admin
// account "admin"/"admin123".
func newTestServer(t *testing.T, sessions session.Store) *GRPCServer {
	t.Helper()
	db := storetest.Open(t)
	rm, err := repomanager.NewStoreRepositoryManager(dbx.DriverSQLite)
	require.NoError(t, err)

	logger := logging.NewZapLoggerFrom(zap.NewNop())
	admin := services.NewAdminService(db, rm, logger)
	_, err = admin.EnsureAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	c := dashboard.NewController(
		services.NewCredentialService(db, rm, logger),
		services.NewScoreService(db, rm, logger),
		admin,
		stubExporter{},
		logger,
	)
	return NewGRPCServer("127.0.0.1:0", nopLogger{}, c, sessions, testSecret, time.Hour)
}

// dial serves s over an in-memory listener and returns a connected client.
func dial(t *testing.T, s *GRPCServer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := s.newGRPCServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(api.Codec{})),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func call(ctx context.Context, conn *grpc.ClientConn, token, method string, req, resp any) error {
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
	}
	return conn.Invoke(ctx, api.FullMethod(method), req, resp)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", nopLogger{}, nil, session.NewMemoryStore(time.Hour), testSecret, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, nil, session.NewMemoryStore(time.Hour), testSecret, time.Hour)

	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}
