package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// scoreBuckets cover the [0, 1] score range in tenths.
var scoreBuckets = prometheus.LinearBuckets(0.1, 0.1, 10) //nolint:gochecknoglobals // fixed bucket layout

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Scoring
	analyses         *prometheus.CounterVec
	analysesRejected *prometheus.CounterVec
	overallHealing   *prometheus.HistogramVec
	infectionRisk    *prometheus.HistogramVec
	riskFlagged      *prometheus.CounterVec
	timelineRequests *prometheus.CounterVec

	// History
	historyWrites     prometheus.Counter
	historyDuplicates prometheus.Counter
	historyClears     prometheus.Counter

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec
	storeKeys    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager on a custom registry, so default Go collectors stay out.
//
//nolint:gochecknoglobals // process-wide registry and singleton manager
var (
	customRegistry = prometheus.NewRegistry()
	globalManager  = NewManager(WithPrometheusRegistry(customRegistry))
)

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "woundcare",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.analyses = auto.NewCounterVec(m.counterOpts("analyses_total", "Wound images scored, by preset"), []string{"preset"})
	m.analysesRejected = auto.NewCounterVec(m.counterOpts("analyses_rejected_total", "Analyze requests rejected before scoring, by reason"), []string{"reason"})
	m.overallHealing = auto.NewHistogramVec(m.histogramOpts("overall_healing", "Distribution of overall healing scores", scoreBuckets), []string{"preset"})
	m.infectionRisk = auto.NewHistogramVec(m.histogramOpts("infection_risk", "Distribution of infection risk scores", scoreBuckets), []string{"preset"})
	m.riskFlagged = auto.NewCounterVec(m.counterOpts("risk_flagged_total", "Scores whose infection risk crossed the flag threshold"), []string{"preset"})
	m.timelineRequests = auto.NewCounterVec(m.counterOpts("timeline_requests_total", "Doctor timeline views, by patient"), []string{"patient"})

	m.historyWrites = auto.NewCounter(m.counterOpts("history_writes_total", "History entries saved"))
	m.historyDuplicates = auto.NewCounter(m.counterOpts("history_duplicates_total", "History writes skipped as retries of an earlier write"))
	m.historyClears = auto.NewCounter(m.counterOpts("history_clears_total", "History resets"))

	m.storeLatency = auto.NewHistogramVec(m.histogramOpts("store_latency_milliseconds", "Key-value store operation latency in milliseconds", m.histogramBuckets), []string{"backend", "op"})
	m.storeErrors = auto.NewCounterVec(m.counterOpts("store_errors_total", "Key-value store failures"), []string{"backend", "op"})
	m.storeKeys = auto.NewGauge(m.gaugeOpts("store_keys", "Keys held by the key-value store"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorsByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total", "HTTP errors by type and severity"), []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordAnalysis counts one scored image and observes its derived scores.
func (m *Manager) RecordAnalysis(preset string, overallHealing, infectionRisk float64, flagged bool) {
	m.analyses.WithLabelValues(preset).Inc()
	m.overallHealing.WithLabelValues(preset).Observe(overallHealing)
	m.infectionRisk.WithLabelValues(preset).Observe(infectionRisk)
	if flagged {
		m.riskFlagged.WithLabelValues(preset).Inc()
	}
}

// RecordAnalysisRejected counts an analyze request refused before scoring.
func (m *Manager) RecordAnalysisRejected(reason string) {
	m.analysesRejected.WithLabelValues(reason).Inc()
}

// RecordTimelineRequest counts a doctor timeline view.
func (m *Manager) RecordTimelineRequest(patient string) {
	m.timelineRequests.WithLabelValues(patient).Inc()
}

// RecordHistoryWrite counts a saved history entry.
func (m *Manager) RecordHistoryWrite() { m.historyWrites.Inc() }

// RecordHistoryDuplicate counts a skipped duplicate history write.
func (m *Manager) RecordHistoryDuplicate() { m.historyDuplicates.Inc() }

// RecordHistoryClear counts a history reset.
func (m *Manager) RecordHistoryClear() { m.historyClears.Inc() }

// RecordStoreLatency observes a store operation latency.
func (m *Manager) RecordStoreLatency(backend, op string, latencyMs float64) {
	m.storeLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func (m *Manager) RecordStoreError(backend, op string) {
	m.storeErrors.WithLabelValues(backend, op).Inc()
}

// UpdateStoreKeys sets the number of stored keys.
func (m *Manager) UpdateStoreKeys(n int) { m.storeKeys.Set(float64(n)) }

// RecordHTTPRequest counts an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts an HTTP error for an endpoint.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType counts an HTTP error by type and severity.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	m.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets heap usage in bytes.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) { m.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine count.
func (m *Manager) UpdateSystemGoroutineCount(count int) { m.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime observes an average GC pause.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) { m.systemGCPauseTime.Observe(pauseMs) }

// RecordAnalysis records a scored image on the global manager.
func RecordAnalysis(preset string, overallHealing, infectionRisk float64, flagged bool) {
	globalManager.RecordAnalysis(preset, overallHealing, infectionRisk, flagged)
}

// RecordAnalysisRejected counts a refused analyze request.
func RecordAnalysisRejected(reason string) {
	globalManager.RecordAnalysisRejected(reason)
}

// RecordTimelineRequest counts a doctor timeline view.
func RecordTimelineRequest(patient string) {
	globalManager.RecordTimelineRequest(patient)
}

// RecordHistoryWrite counts a saved history entry.
func RecordHistoryWrite() {
	globalManager.RecordHistoryWrite()
}

// RecordHistoryDuplicate counts a skipped duplicate history write.
func RecordHistoryDuplicate() {
	globalManager.RecordHistoryDuplicate()
}

// RecordHistoryClear counts a history reset.
func RecordHistoryClear() {
	globalManager.RecordHistoryClear()
}

// RecordStoreLatency observes a store operation latency.
func RecordStoreLatency(backend, op string, latencyMs float64) {
	globalManager.RecordStoreLatency(backend, op, latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(backend, op string) {
	globalManager.RecordStoreError(backend, op)
}

// UpdateStoreKeys sets the number of stored keys.
func UpdateStoreKeys(n int) {
	globalManager.UpdateStoreKeys(n)
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint counts an HTTP error for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// RecordErrorByType counts an HTTP error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

// UpdateSystemMemoryUsage sets heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.UpdateSystemMemoryUsage(bytes)
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.UpdateSystemGoroutineCount(count)
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.RecordSystemGCPauseTime(pauseMs)
}

// Global returns the process-wide manager.
func Global() *Manager { return globalManager }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
