package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "manifest_gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "manifest_gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "manifest_gallery_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Manifest pipeline metrics
var (
	ManifestsParsedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "manifest_gallery_manifests_parsed_total",
			Help: "Total number of manifests parsed",
		},
	)

	ParseWarningsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "manifest_gallery_parse_warnings_total",
			Help: "Total number of manifest lines dropped with a warning",
		},
	)

	GalleryCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "manifest_gallery_cache_hits_total",
			Help: "Total number of gallery requests served from the unchanged-manifest cache",
		},
	)

	GalleryBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "manifest_gallery_build_duration_seconds",
			Help:    "Time to run the parse/resolve/fetch pipeline for one manifest",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
)

// Fetcher metrics
var (
	FetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "manifest_gallery_fetch_attempts_total",
			Help: "Total number of per-mirror fetch attempts by outcome",
		},
		[]string{"outcome"}, // "success", "transport_error", "bad_status", "decode_error"
	)

	FetchExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "manifest_gallery_fetch_exhausted_total",
			Help: "Total number of candidates for which every mirror failed verification",
		},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "manifest_gallery_fetch_duration_seconds",
			Help:    "Duration of individual mirror fetch attempts",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"},
	)
)

// Preview store metrics
var (
	PreviewStoreBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "manifest_gallery_preview_store_bytes",
			Help: "Current size of the in-memory preview store in bytes",
		},
	)

	PreviewStoreEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "manifest_gallery_preview_store_entries",
			Help: "Current number of payloads held by the preview store",
		},
	)

	PreviewEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "manifest_gallery_preview_evictions_total",
			Help: "Total number of payloads evicted from the preview store",
		},
	)
)

// Fetch attempt outcome label values.
const (
	OutcomeSuccess        = "success"
	OutcomeTransportError = "transport_error"
	OutcomeBadStatus      = "bad_status"
	OutcomeDecodeError    = "decode_error"
)
