// Package metrics holds the server's prometheus collectors and the side HTTP
// listener exposing /metrics and /healthz.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skdtracker"

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Dashboard RPCs by method and status code",
		},
		[]string{"method", "code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_request_duration_seconds",
			Help:      "Dashboard RPC duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	AttemptsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attempts_recorded_total",
		Help:      "Score attempts recorded",
	})

	AttemptTotal = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "attempt_total_score",
		Help:      "Distribution of recorded attempt totals",
		Buckets:   prometheus.LinearBuckets(0, 50, 12),
	})

	StorePing = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_ping_seconds",
		Help:      "Row store ping latency",
		Buckets:   prometheus.DefBuckets,
	})
)

// Login outcomes.
const (
	LoginSuccess  = "success"
	LoginRejected = "rejected"
	LoginError    = "error"
)

func ObserveRequest(method, code string, d time.Duration) {
	RequestsTotal.WithLabelValues(method, code).Inc()
	RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

func ObserveLogin(outcome string) {
	LoginsTotal.WithLabelValues(outcome).Inc()
}

func ObserveAttempt(total int) {
	AttemptsRecorded.Inc()
	AttemptTotal.Observe(float64(total))
}
