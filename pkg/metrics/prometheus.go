// Package metrics provides Prometheus metrics for the tier list service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the tier list service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Board
	entriesAdded   *prometheus.CounterVec
	entriesDeleted prometheus.Counter
	boardEntries   prometheus.Gauge
	rankedEntries  prometheus.Gauge
	boardResets    *prometheus.CounterVec

	// Placement
	dragsStarted prometheus.Counter
	drops        *prometheus.CounterVec

	// Ethos lookups
	lookups       *prometheus.CounterVec
	lookupLatency prometheus.Histogram

	// Export
	exports       *prometheus.CounterVec
	exportLatency prometheus.Histogram

	// Command dispatcher
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	commandsTotal   *prometheus.CounterVec
	commandLatency  prometheus.Histogram
	queueEnqueueErr prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// Process
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPauseTime    prometheus.Gauge
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
		namespace:        "tierlist",
		subsystem:        "",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogram(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.entriesAdded = auto.NewCounterVec(m.counter("entries_added_total", "Entries added to the pool by kind"), []string{"kind"})
	m.entriesDeleted = auto.NewCounter(m.counter("entries_deleted_total", "Entries removed in delete mode"))
	m.boardEntries = auto.NewGauge(m.gauge("board_entries", "Entries currently on the board"))
	m.rankedEntries = auto.NewGauge(m.gauge("ranked_entries", "Entries currently placed in a tier"))
	m.boardResets = auto.NewCounterVec(m.counter("board_resets_total", "Confirmed clear and reset actions"), []string{"action"})

	m.dragsStarted = auto.NewCounter(m.counter("drags_started_total", "Drag sessions started"))
	m.drops = auto.NewCounterVec(m.counter("drops_total", "Drops by outcome"), []string{"outcome"})

	m.lookups = auto.NewCounterVec(m.counter("ethos_lookups_total", "Ethos profile lookups by outcome"), []string{"outcome"})
	m.lookupLatency = auto.NewHistogram(m.histogram("ethos_lookup_latency_milliseconds", "Ethos lookup latency in milliseconds"))

	m.exports = auto.NewCounterVec(m.counter("exports_total", "Board exports by sink and outcome"), []string{"sink", "outcome"})
	m.exportLatency = auto.NewHistogram(m.histogram("export_render_latency_milliseconds", "Board rasterization latency in milliseconds"))

	m.queueSize = auto.NewGauge(m.gauge("queue_size", "Commands waiting for the dispatcher"))
	m.queueCapacity = auto.NewGauge(m.gauge("queue_capacity", "Maximum command queue capacity"))
	m.commandsTotal = auto.NewCounterVec(m.counter("commands_total", "Commands applied by name and outcome"), []string{"command", "outcome"})
	m.commandLatency = auto.NewHistogram(m.histogram("command_latency_milliseconds", "Time from enqueue to completion of a command"))
	m.queueEnqueueErr = auto.NewCounter(m.counter("queue_enqueue_errors_total", "Commands rejected by the queue"))

	m.httpRequests = auto.NewCounterVec(
		m.counter("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counter("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counter("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.memoryUsage = auto.NewGauge(m.gauge("system_memory_bytes", "Heap bytes allocated"))
	m.goroutineCount = auto.NewGauge(m.gauge("system_goroutines", "Number of goroutines"))
	m.gcPauseTime = auto.NewGauge(m.gauge("system_gc_pause_milliseconds", "Average GC pause in milliseconds"))
}

// UpdateSystem sets the process gauges.
func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int, gcPauseMs float64) {
	if m.enabled {
		m.memoryUsage.Set(float64(memoryBytes))
		m.goroutineCount.Set(float64(goroutines))
		m.gcPauseTime.Set(gcPauseMs)
	}
}

// Enabled reports whether the manager records anything.
func (m *Manager) Enabled() bool { return m.enabled }

// RecordEntryAdded counts a new entry of the given kind ("manual" or "ethos").
func (m *Manager) RecordEntryAdded(kind string) {
	if m.enabled {
		m.entriesAdded.WithLabelValues(kind).Inc()
	}
}

// RecordEntryDeleted counts a confirmed delete.
func (m *Manager) RecordEntryDeleted() {
	if m.enabled {
		m.entriesDeleted.Inc()
	}
}

// UpdateBoard sets the board size gauges.
func (m *Manager) UpdateBoard(total, ranked int) {
	if m.enabled {
		m.boardEntries.Set(float64(total))
		m.rankedEntries.Set(float64(ranked))
	}
}

// RecordBoardReset counts a confirmed "clear" or "reset".
func (m *Manager) RecordBoardReset(action string) {
	if m.enabled {
		m.boardResets.WithLabelValues(action).Inc()
	}
}

// RecordDrag counts a started drag session.
func (m *Manager) RecordDrag() {
	if m.enabled {
		m.dragsStarted.Inc()
	}
}

// RecordDrop counts a drop by outcome.
func (m *Manager) RecordDrop(outcome string) {
	if m.enabled {
		m.drops.WithLabelValues(outcome).Inc()
	}
}

// RecordLookup counts an Ethos lookup by outcome.
func (m *Manager) RecordLookup(outcome string) {
	if m.enabled {
		m.lookups.WithLabelValues(outcome).Inc()
	}
}

// RecordLookupLatency records Ethos lookup latency in milliseconds.
func (m *Manager) RecordLookupLatency(latencyMs float64) {
	if m.enabled {
		m.lookupLatency.Observe(latencyMs)
	}
}

// RecordExport counts an export delivered to sink.
func (m *Manager) RecordExport(sink, outcome string) {
	if m.enabled {
		m.exports.WithLabelValues(sink, outcome).Inc()
	}
}

// RecordExportLatency records rasterization latency in milliseconds.
func (m *Manager) RecordExportLatency(latencyMs float64) {
	if m.enabled {
		m.exportLatency.Observe(latencyMs)
	}
}

// UpdateQueue sets the command queue gauges.
func (m *Manager) UpdateQueue(size, capacity int) {
	if m.enabled {
		m.queueSize.Set(float64(size))
		m.queueCapacity.Set(float64(capacity))
	}
}

// RecordCommand counts an applied command and its latency.
func (m *Manager) RecordCommand(name, outcome string, latencyMs float64) {
	if m.enabled {
		m.commandsTotal.WithLabelValues(name, outcome).Inc()
		m.commandLatency.Observe(latencyMs)
	}
}

// RecordQueueEnqueueError counts a rejected command.
func (m *Manager) RecordQueueEnqueueError() {
	if m.enabled {
		m.queueEnqueueErr.Inc()
	}
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if m.enabled {
		m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordErrorByEndpoint records an error with endpoint, method and type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if m.enabled {
		m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// Global helpers delegate to the process-wide manager.

// RecordEntryAdded counts a new entry of the given kind.
func RecordEntryAdded(kind string) { globalManager.RecordEntryAdded(kind) }

// RecordEntryDeleted counts a confirmed delete.
func RecordEntryDeleted() { globalManager.RecordEntryDeleted() }

// UpdateBoard sets the board size gauges.
func UpdateBoard(total, ranked int) { globalManager.UpdateBoard(total, ranked) }

// RecordBoardReset counts a confirmed clear or reset.
func RecordBoardReset(action string) { globalManager.RecordBoardReset(action) }

// RecordDrag counts a started drag session.
func RecordDrag() { globalManager.RecordDrag() }

// RecordDrop counts a drop by outcome.
func RecordDrop(outcome string) { globalManager.RecordDrop(outcome) }

// RecordLookup counts an Ethos lookup by outcome.
func RecordLookup(outcome string) { globalManager.RecordLookup(outcome) }

// RecordLookupLatency records Ethos lookup latency in milliseconds.
func RecordLookupLatency(latencyMs float64) { globalManager.RecordLookupLatency(latencyMs) }

// RecordExport counts an export delivered to sink.
func RecordExport(sink, outcome string) { globalManager.RecordExport(sink, outcome) }

// RecordExportLatency records rasterization latency in milliseconds.
func RecordExportLatency(latencyMs float64) { globalManager.RecordExportLatency(latencyMs) }

// UpdateQueue sets the command queue gauges.
func UpdateQueue(size, capacity int) { globalManager.UpdateQueue(size, capacity) }

// RecordCommand counts an applied command and its latency.
func RecordCommand(name, outcome string, latencyMs float64) {
	globalManager.RecordCommand(name, outcome, latencyMs)
}

// RecordQueueEnqueueError counts a rejected command.
func RecordQueueEnqueueError() { globalManager.RecordQueueEnqueueError() }

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// RecordErrorByEndpoint records an error with endpoint, method and type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystem sets the process gauges.
func UpdateSystem(memoryBytes uint64, goroutines int, gcPauseMs float64) {
	globalManager.UpdateSystem(memoryBytes, goroutines, gcPauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
