// Package metrics provides Prometheus metrics for the points table service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus instruments for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Inference metrics
	inferenceAttempts prometheus.Counter
	inferenceRetries  prometheus.Counter
	inferenceFailures *prometheus.CounterVec
	inferenceLatency  prometheus.Histogram

	// Batch pipeline metrics
	imagesProcessed  *prometheus.CounterVec
	recordsExtracted *prometheus.CounterVec
	batchDuration    *prometheus.HistogramVec
	emptyBatches     *prometheus.CounterVec

	// Scoring and export metrics
	tableBuilds prometheus.Counter
	tableRows   prometheus.Gauge
	exports     *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "points",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.inferenceAttempts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_attempts_total",
		Help:      "Total number of inference attempts, including retries",
	})

	m.inferenceRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_retries_total",
		Help:      "Total number of retried inference attempts",
	})

	m.inferenceFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "inference_failures_total",
			Help:      "Total number of terminal inference failures by classified kind",
		},
		[]string{"kind"},
	)

	m.inferenceLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_latency_seconds",
		Help:      "Latency of successful inference calls in seconds",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 45, 60},
	})

	m.imagesProcessed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "images_processed_total",
			Help:      "Total number of images processed by schema and outcome",
		},
		[]string{"schema", "outcome"},
	)

	m.recordsExtracted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "records_extracted_total",
			Help:      "Total number of records extracted from model output by schema",
		},
		[]string{"schema"},
	)

	m.batchDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "batch_duration_seconds",
			Help:      "Duration of a full analysis batch in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"schema"},
	)

	m.emptyBatches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "empty_batches_total",
			Help:      "Total number of batches that yielded no records",
		},
		[]string{"schema"},
	)

	m.tableBuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "table_builds_total",
		Help:      "Total number of points tables computed",
	})

	m.tableRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "table_rows",
		Help:      "Number of rows in the most recently computed points table",
	})

	m.exports = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "exports_total",
			Help:      "Total number of table exports by format",
		},
		[]string{"format"},
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

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component and type",
		},
		[]string{"component", "error_type"},
	)
}

// RecordInferenceAttempt increments the inference attempts counter.
func RecordInferenceAttempt() {
	globalManager.inferenceAttempts.Inc()
}

// RecordInferenceRetry increments the inference retries counter.
func RecordInferenceRetry() {
	globalManager.inferenceRetries.Inc()
}

// RecordInferenceFailure records a terminal inference failure by kind.
func RecordInferenceFailure(kind string) {
	globalManager.inferenceFailures.WithLabelValues(kind).Inc()
}

// RecordInferenceLatency records the latency of a successful inference call.
func RecordInferenceLatency(seconds float64) {
	globalManager.inferenceLatency.Observe(seconds)
}

// RecordImageProcessed records one processed image with its outcome
// ("ok", "skipped", or "empty").
func RecordImageProcessed(schema, outcome string) {
	globalManager.imagesProcessed.WithLabelValues(schema, outcome).Inc()
}

// RecordRecordsExtracted adds to the extracted record count for a schema.
func RecordRecordsExtracted(schema string, count int) {
	globalManager.recordsExtracted.WithLabelValues(schema).Add(float64(count))
}

// RecordBatchDuration records the duration of a full analysis batch.
func RecordBatchDuration(schema string, seconds float64) {
	globalManager.batchDuration.WithLabelValues(schema).Observe(seconds)
}

// RecordEmptyBatch increments the empty batch counter for a schema.
func RecordEmptyBatch(schema string) {
	globalManager.emptyBatches.WithLabelValues(schema).Inc()
}

// RecordTableBuild increments the table builds counter.
func RecordTableBuild() {
	globalManager.tableBuilds.Inc()
}

// UpdateTableRows sets the row count of the last computed table.
func UpdateTableRows(count int) {
	globalManager.tableRows.Set(float64(count))
}

// RecordExport increments the export counter for a format.
func RecordExport(format string) {
	globalManager.exports.WithLabelValues(format).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
