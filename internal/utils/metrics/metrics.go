// Package metrics exposes the service's Prometheus collectors. Everything
// is registered through promauto at init time and scraped via /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts every HTTP request the server accepts.
	RequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "issue_tracker_requests_total",
		Help: "The total number of HTTP requests",
	})

	// ResponsesTotal counts responses by status code.
	ResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issue_tracker_responses_total",
		Help: "The total number of HTTP responses by status code",
	}, []string{"status"})

	// RequestDuration observes overall request handling time.
	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "issue_tracker_request_duration_seconds",
		Help:    "The request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// RequestDurationByPath observes handling time per method and route.
	RequestDurationByPath = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "issue_tracker_request_duration_by_path_seconds",
		Help:    "The request duration in seconds by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// LoginAttemptsTotal counts login attempts by outcome.
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issue_tracker_login_attempts_total",
		Help: "The total number of login attempts",
	}, []string{"status"})

	// TokenRefreshTotal counts refresh rotations by outcome.
	TokenRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issue_tracker_token_refresh_total",
		Help: "The total number of refresh token rotations",
	}, []string{"status"})

	// TokenReuseDetectedTotal counts cascade revocations triggered by a
	// replayed refresh token.
	TokenReuseDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "issue_tracker_token_reuse_detected_total",
		Help: "The total number of refresh token reuse detections",
	})

	// RateLimitExceededTotal counts requests rejected by rate limiting.
	RateLimitExceededTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "issue_tracker_rate_limit_exceeded_total",
		Help: "The total number of rate limit exceeded events",
	})
)
