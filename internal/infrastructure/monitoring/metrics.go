package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the storage service.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Storage operation metrics
	StorageOps        *prometheus.CounterVec
	StorageOpDuration *prometheus.HistogramVec
	UploadedBytes     prometheus.Counter
	UploadsActive     prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a metrics collector on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a metrics collector on the given registry. Tests
// pass their own registry so repeated construction cannot collide.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storage_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storage_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		StorageOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storage_operations_total",
				Help: "Total number of storage operations by outcome",
			},
			[]string{"operation", "status"},
		),
		StorageOpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storage_operation_duration_seconds",
				Help:    "Storage operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		UploadedBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "storage_uploaded_bytes_total",
				Help: "Total bytes accepted by upload operations",
			},
		),
		UploadsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "storage_uploads_active",
				Help: "Number of uploads currently streaming",
			},
		),
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "storage_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records one handled HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// RecordStorageOp records the outcome and duration of one storage operation.
func (m *Metrics) RecordStorageOp(operation, status string, duration time.Duration) {
	m.StorageOps.WithLabelValues(operation, status).Inc()
	m.StorageOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Timer measures one storage operation.
type Timer struct {
	start     time.Time
	metrics   *Metrics
	operation string
}

// NewTimer starts a timer for a storage operation.
func NewTimer(metrics *Metrics, operation string) *Timer {
	return &Timer{start: time.Now(), metrics: metrics, operation: operation}
}

// Stop stops the timer and records the outcome.
func (t *Timer) Stop(status string) {
	t.metrics.RecordStorageOp(t.operation, status, time.Since(t.start))
}
