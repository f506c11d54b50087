// Package server wires the SKD tracker server together: row store and
// migrations, session store, services, the gRPC dashboard endpoint and the
// health/metrics HTTP listener. It handles graceful shutdown on SIGINT,
// SIGTERM and SIGQUIT.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jmoiron/sqlx"

	"github.com/dmitrijs2005/skdtracker/internal/dbx"
	"github.com/dmitrijs2005/skdtracker/internal/logging"
	"github.com/dmitrijs2005/skdtracker/internal/server/config"
	"github.com/dmitrijs2005/skdtracker/internal/server/dashboard"
	"github.com/dmitrijs2005/skdtracker/internal/server/metrics"
	"github.com/dmitrijs2005/skdtracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/skdtracker/internal/server/services"
	"github.com/dmitrijs2005/skdtracker/internal/server/session"

	gs "github.com/dmitrijs2005/skdtracker/internal/server/grpc"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sqlx.DB
	sessions  session.Store
	dashboard *dashboard.Controller
	closers   []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: c, logger: logger}

	db, err := dbx.Open(ctx, c.StoreDriver, c.StoreDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, db.Close)

	rm, err := repomanager.NewStoreRepositoryManager(c.StoreDriver)
	if err != nil {
		app.Close()
		return nil, err
	}
	if err := rm.RunMigrations(ctx, db.DB); err != nil {
		app.Close()
		return nil, err
	}

	if c.RedisURL != "" {
		rs, err := session.NewRedisStore(ctx, c.RedisURL, c.SessionValidityDuration)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("session store init error: %w", err)
		}
		app.sessions = rs
		app.closers = append(app.closers, rs.Close)
	} else {
		logger.Warn(ctx, "REDIS_URL not set, sessions are kept in memory")
		app.sessions = session.NewMemoryStore(c.SessionValidityDuration)
	}

	creds := services.NewCredentialService(db, rm, logger)
	scores := services.NewScoreService(db, rm, logger)
	admin := services.NewAdminService(db, rm, logger)
	export := services.NewExportService(c)

	if c.AdminPassword != "" {
		created, err := admin.EnsureAdmin(ctx, c.AdminUsername, c.AdminPassword)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("admin bootstrap error: %w", err)
		}
		if !created {
			logger.Info(ctx, "admin account present", "username", c.AdminUsername)
		}
	}

	app.dashboard = dashboard.NewController(creds, scores, admin, export, logger)
	return app, nil
}

// Close releases the store and session connections.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		_ = app.closers[i]()
	}
	app.closers = nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.dashboard, app.sessions,
		app.config.SecretKey, app.config.SessionValidityDuration)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := metrics.NewHTTPServer(app.config.EndpointAddrHTTP, app.db, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a listener fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.Close()
	app.logger.Info(ctx, "App stopped")
}
