package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AuthEventsTotal counts register, login, logout and token resolution
	// outcomes.
	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Authentication events by type and outcome.",
		},
		[]string{"event", "outcome"},
	)

	TaskOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_operations_total",
			Help: "Task store operations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Outcome returns the outcome label for err.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
