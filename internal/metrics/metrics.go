// Package metrics declares the Prometheus instruments of jellycache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fingerprint metrics
var (
	FingerprintsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jellycache_fingerprints_total",
			Help: "Total number of request fingerprints computed",
		},
		[]string{"source"}, // "api", "cli"
	)

	ExtractFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jellycache_extract_failures_total",
			Help: "Total number of request URLs that could not be parsed",
		},
	)

	VariantScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jellycache_variant_score",
			Help:    "Distribution of quality scores of fingerprinted requests",
			Buckets: []float64{100, 500, 1000, 2500, 5000, 10000, 25000, 50000, 100000},
		},
	)

	VariantEstimatedBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jellycache_variant_estimated_bytes",
			Help:    "Estimated two-hour output size of fingerprinted requests",
			Buckets: prometheus.ExponentialBuckets(1<<28, 2, 8), // 256MiB .. 32GiB
		},
	)
)

// Registry metrics
var (
	VariantsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jellycache_variants_recorded_total",
			Help: "Total number of variant registry writes",
		},
		[]string{"status"}, // "ok", "error"
	)

	VariantsKnown = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jellycache_variants_known",
			Help: "Number of distinct variants in the registry",
		},
	)
)

// Upstream metrics
var (
	UpstreamUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jellycache_upstream_up",
			Help: "Whether the last upstream health probe succeeded (1) or not (0)",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jellycache_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jellycache_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
