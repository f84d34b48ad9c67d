// Package metrics provides Prometheus metrics for the match analysis service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace     string
	subsystem     string
	filterBuckets []float64
	httpBuckets   []float64
	enabled       bool
	constLabels   map[string]string
	metricPrefix  string
	registry      prometheus.Registerer

	// Import metrics
	eventsImported  prometheus.Counter
	eventsDuplicate prometheus.Counter
	eventsRejected  prometheus.Counter
	storedEvents    *prometheus.GaugeVec

	// Filter engine metrics
	filterApplications prometheus.Counter
	filterCacheHits    prometheus.Counter
	filterLatency      prometheus.Histogram
	filteredEvents     prometheus.Gauge
	chartClicks        *prometheus.CounterVec

	// Session metrics
	activeSessions prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System metrics
	systemMemory     prometheus.Gauge
	systemGoroutines prometheus.Gauge
	systemGCPause    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:     "conexus",
		subsystem:     "analysis",
		filterBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		httpBuckets:   []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
		enabled:       true,
		constLabels:   make(map[string]string),
		registry:      prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	reg := m.registry
	if !m.enabled {
		// unregistered collectors still accept observations
		reg = nil
	}
	auto := promauto.With(reg)
	constLabels := prometheus.Labels(m.constLabels)

	m.eventsImported = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("events_imported_total"),
		Help: "Total number of match events accepted by imports",
	})
	m.eventsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("events_duplicate_total"),
		Help: "Total number of imported events skipped because their id was already stored",
	})
	m.eventsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("events_rejected_total"),
		Help: "Total number of imported events rejected for missing category",
	})
	m.storedEvents = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("stored_events"),
		Help: "Number of events stored per match",
	}, []string{"match_id"})

	m.filterApplications = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("filter_applications_total"),
		Help: "Total number of filter recomputations",
	})
	m.filterCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("filter_cache_hits_total"),
		Help: "Recomputations skipped or collapsed because the result did not change",
	})
	m.filterLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    m.name("filter_latency_milliseconds"),
		Help:    "Filter application latency in milliseconds",
		Buckets: m.filterBuckets,
	})
	m.filteredEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("filtered_events"),
		Help: "Size of the most recently computed filtered event set",
	})
	m.chartClicks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("chart_clicks_total"),
		Help: "Chart clicks translated into filter changes by payload kind and outcome",
	}, []string{"kind", "outcome"})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("active_sessions"),
		Help: "Number of open analysis sessions",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("http_requests_total"),
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    m.name("http_request_duration_milliseconds"),
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.httpBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("http_errors_total"),
		Help: "HTTP error responses by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemory = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("system_memory_bytes"),
		Help: "Heap bytes allocated by the process",
	})
	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("system_goroutines"),
		Help: "Number of live goroutines",
	})
	m.systemGCPause = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    m.name("system_gc_pause_milliseconds"),
		Help:    "Average GC pause in milliseconds, sampled periodically",
		Buckets: m.httpBuckets,
	})
}

// RecordEventsImported adds n accepted events.
func RecordEventsImported(n int) {
	globalManager.eventsImported.Add(float64(n))
}

// RecordEventsDuplicate adds n duplicate events.
func RecordEventsDuplicate(n int) {
	globalManager.eventsDuplicate.Add(float64(n))
}

// RecordEventsRejected adds n rejected events.
func RecordEventsRejected(n int) {
	globalManager.eventsRejected.Add(float64(n))
}

// UpdateStoredEvents sets the stored event count for a match.
func UpdateStoredEvents(matchID string, count int) {
	globalManager.storedEvents.WithLabelValues(matchID).Set(float64(count))
}

// RecordFilterApplication records one recomputation and its latency.
func RecordFilterApplication(latencyMs float64, resultSize int) {
	globalManager.filterApplications.Inc()
	globalManager.filterLatency.Observe(latencyMs)
	globalManager.filteredEvents.Set(float64(resultSize))
}

// RecordFilterCacheHit increments the cache hit counter.
func RecordFilterCacheHit() {
	globalManager.filterCacheHits.Inc()
}

// RecordChartClick records a translated chart click.
func RecordChartClick(kind, outcome string) {
	globalManager.chartClicks.WithLabelValues(kind, outcome).Inc()
}

// UpdateActiveSessions sets the number of open sessions.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemory.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutines.Set(float64(n))
}

// RecordSystemGCPauseTime records a sampled average GC pause.
func RecordSystemGCPauseTime(ms float64) {
	globalManager.systemGCPause.Observe(ms)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
