// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobboard_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jobboard_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AuthEvents counts registrations, logins, logouts and password resets by outcome.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobboard_auth_events_total",
		Help: "Authentication events by type and result",
	}, []string{"event", "result"})

	// ApplicationsSubmitted counts job applications.
	ApplicationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobboard_applications_submitted_total",
		Help: "Total number of job applications submitted",
	})

	// JobViews counts job detail fetches.
	JobViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobboard_job_views_total",
		Help: "Total number of job detail views",
	})

	// CacheLookups counts cache-aside lookups by key kind and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobboard_cache_lookups_total",
		Help: "Cache lookups by kind and result (hit/miss)",
	}, []string{"kind", "result"})
)

// RecordAuthEvent increments AuthEvents.
func RecordAuthEvent(event string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	AuthEvents.WithLabelValues(event, result).Inc()
}

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	if table == "" {
		table = "unknown"
	}
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
