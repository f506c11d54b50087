package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/skdtracker/internal/logging"
)

// Pinger reports store reachability; *sqlx.DB and *sql.DB satisfy it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HTTPServer struct {
	address string
	pinger  Pinger
	logger  logging.Logger
}

func NewHTTPServer(address string, pinger Pinger, l logging.Logger) *HTTPServer {
	return &HTTPServer{
		address: address,
		pinger:  pinger,
		logger:  l.With("module", "http_server"),
	}
}

// Handler routes /healthz and /metrics.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", s.healthz)
	return mux
}

func (s *HTTPServer) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := s.pinger.PingContext(ctx)
	StorePing.Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Warn(ctx, "health check failed", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Run serves until ctx is cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
