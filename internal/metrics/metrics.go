package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "web_http_request_duration_seconds",
			Help:    "Web tier HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	UpstreamCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "web_upstream_call_duration_seconds",
			Help:    "REST API call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"method", "resource", "status"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_cache_lookups_total",
			Help: "Response cache lookups by outcome",
		},
		[]string{"tag", "outcome"}, // outcome: hit, miss, error
	)

	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_token_refresh_total",
			Help: "Silent access token refresh attempts by outcome",
		},
		[]string{"outcome"}, // outcome: success, failed, skipped
	)

	SessionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_session_transitions_total",
			Help: "Auth session state transitions",
		},
		[]string{"event"}, // event: login, logout, expired
	)

	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_scheduled_job_runs_total",
			Help: "Scheduled job runs by outcome",
		},
		[]string{"job", "outcome"}, // outcome: ok, failed
	)
)

func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func RecordUpstreamCall(method, resource, status string, d time.Duration) {
	UpstreamCallDuration.WithLabelValues(method, resource, status).Observe(d.Seconds())
}

func RecordCacheLookup(tag, outcome string) {
	CacheLookups.WithLabelValues(tag, outcome).Inc()
}

func RecordTokenRefresh(outcome string) {
	TokenRefreshes.WithLabelValues(outcome).Inc()
}

func RecordSessionTransition(event string) {
	SessionTransitions.WithLabelValues(event).Inc()
}

func RecordJobRun(job, outcome string) {
	JobRuns.WithLabelValues(job, outcome).Inc()
}
