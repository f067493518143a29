// Package observability holds the Prometheus collectors shared across the service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration records handler latency by route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hoshii_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// StoreQueryLatency records backing store latency by operation and backend.
	StoreQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hoshii_store_query_latency_seconds",
		Help:    "Backing store query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "backend"})

	// StoreErrors counts failed store calls by operation.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hoshii_store_errors_total",
		Help: "Total number of failed backing store calls",
	}, []string{"operation", "backend"})

	// SupportSubmissions counts accepted participations by sky namespace.
	SupportSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hoshii_support_submissions_total",
		Help: "Total number of accepted support submissions",
	}, []string{"namespace", "known_action"})

	// StatsRequests counts served stats lookups by namespace and format.
	StatsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hoshii_stats_requests_total",
		Help: "Total number of sky stats lookups",
	}, []string{"namespace", "format"})

	// PresetImportItems counts preset import outcomes.
	PresetImportItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hoshii_preset_import_items_total",
		Help: "Preset import results by outcome",
	}, []string{"outcome"})

	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hoshii_redis_errors_total",
		Help: "Total number of failed Redis commands",
	}, []string{"command"})
)

// TrackStore returns a func that records the elapsed time for one store call
// and counts it as failed when *errp is non-nil.
func TrackStore(operation, backend string, errp *error) func() {
	start := time.Now()
	return func() {
		StoreQueryLatency.WithLabelValues(operation, backend).Observe(time.Since(start).Seconds())
		if errp != nil && *errp != nil {
			StoreErrors.WithLabelValues(operation, backend).Inc()
		}
	}
}
