// Package metrics provides Prometheus metrics for the puantaj
// performance reporting service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the puantaj service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Core business metrics - report generation
	reportsGenerated prometheus.Counter
	partialReports   prometheus.Counter
	reportLatency    prometheus.Histogram

	// Source fetch metrics, labeled by source type
	sourceFetchLatency *prometheus.HistogramVec
	sourceFetchErrors  *prometheus.CounterVec
	sourceRecords      *prometheus.CounterVec

	// Normalization quality metrics
	recordsNormalized *prometheus.CounterVec
	recordsRejected   *prometheus.CounterVec

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "puantaj",
		subsystem:        "reporting",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.reportsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_generated_total",
		Help:      "Total number of performance reports generated",
	})

	m.partialReports = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_partial_total",
		Help:      "Total number of reports returned with degraded sources",
	})

	m.reportLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_latency_milliseconds",
		Help:      "Histogram of end-to-end report generation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.sourceFetchLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "source_fetch_latency_milliseconds",
			Help:      "Histogram of per-source fetch latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"source"},
	)

	m.sourceFetchErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "source_fetch_errors_total",
			Help:      "Total number of source fetch failures (degrades reports to partial)",
		},
		[]string{"source"},
	)

	m.sourceRecords = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "source_records_total",
			Help:      "Total number of canonical records produced per source",
		},
		[]string{"source"},
	)

	m.recordsNormalized = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "records_normalized_total",
			Help:      "Total number of records normalized into canonical form",
		},
		[]string{"source"},
	)

	m.recordsRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "records_rejected_total",
			Help:      "Total number of records dropped by normalization or integrity guards",
		},
		[]string{"source"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordReportGenerated increments the generated reports counter.
func RecordReportGenerated() {
	globalManager.reportsGenerated.Inc()
}

// RecordPartialReport increments the partial reports counter.
func RecordPartialReport() {
	globalManager.partialReports.Inc()
}

// RecordReportLatency records end-to-end report generation latency.
func RecordReportLatency(latencyMs float64) {
	globalManager.reportLatency.Observe(latencyMs)
}

// RecordSourceFetchLatency records one source fetch's latency.
func RecordSourceFetchLatency(source string, latencyMs float64) {
	globalManager.sourceFetchLatency.WithLabelValues(source).Observe(latencyMs)
}

// RecordSourceFetchError increments the fetch error counter for a source.
func RecordSourceFetchError(source string) {
	globalManager.sourceFetchErrors.WithLabelValues(source).Inc()
}

// RecordSourceRecords adds to the produced record counter for a source.
func RecordSourceRecords(source string, count int) {
	globalManager.sourceRecords.WithLabelValues(source).Add(float64(count))
}

// RecordRecordsNormalized adds to the normalized record counter for a source.
func RecordRecordsNormalized(source string, count int) {
	globalManager.recordsNormalized.WithLabelValues(source).Add(float64(count))
}

// RecordRecordRejected increments the rejected record counter for a source.
func RecordRecordRejected(source string) {
	globalManager.recordsRejected.WithLabelValues(source).Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request's duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
