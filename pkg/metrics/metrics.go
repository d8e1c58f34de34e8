package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Milestone mutation latency (seconds), per operation.
	MilestoneMutationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "milestone_mutation_duration_seconds",
			Help:    "Milestone mutation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation"},
	)

	// Rows rewritten by schedule cascades.
	CascadeWritesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cascade_writes_total",
			Help: "Total number of successor schedule rows rewritten by cascades",
		},
	)

	// Sibling ordinal shifts applied by reorders.
	ReorderShiftsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reorder_shifts_total",
			Help: "Total number of sibling ordinal shifts applied by reorders",
		},
	)

	// Post-commit event publishes that failed.
	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_failures_total",
			Help: "Total number of failed change event publishes",
		},
		[]string{"routing_key"},
	)

	// HTTP request latency (seconds).
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Timeline list cache outcomes.
	TimelineCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_cache_requests_total",
			Help: "Timeline milestone-list cache lookups by outcome",
		},
		[]string{"outcome"}, // outcome: hit, miss
	)
)

// ObserveMutationDuration records how long one milestone mutation took.
func ObserveMutationDuration(operation string, duration time.Duration) {
	MilestoneMutationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// AddCascadeWrites records successor rows rewritten by one cascade.
func AddCascadeWrites(n int) {
	CascadeWritesTotal.Add(float64(n))
}

// AddReorderShifts records sibling rows shifted by one reorder.
func AddReorderShifts(n int64) {
	ReorderShiftsTotal.Add(float64(n))
}

// IncPublishFailure records a failed post-commit event publish.
func IncPublishFailure(routingKey string) {
	EventPublishFailures.WithLabelValues(routingKey).Inc()
}

// RecordHTTPRequestDuration records one HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordCacheOutcome records a timeline cache hit or miss.
func RecordCacheOutcome(outcome string) {
	TimelineCacheRequests.WithLabelValues(outcome).Inc()
}
