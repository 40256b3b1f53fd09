// Package metrics provides Prometheus metrics for the targeval
// evaluation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Evaluation runs
	runsTotal   *prometheus.CounterVec
	runErrors   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec

	// Input
	rowsLoaded   prometheus.Gauge
	targetsTotal prometheus.Gauge
	loadErrors   prometheus.Counter

	// Output
	reportsWritten *prometheus.CounterVec
	reportErrors   *prometheus.CounterVec
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
		namespace:        "targeval",
		subsystem:        "eval",
		histogramBuckets: prometheus.DefBuckets,
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

	m.runsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "runs_total",
			Help:      "Total number of completed evaluation runs by policy",
		},
		[]string{"policy"},
	)

	m.runErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "run_errors_total",
			Help:      "Total number of failed evaluation runs by policy",
		},
		[]string{"policy"},
	)

	m.runDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "run_duration_milliseconds",
			Help:      "Evaluation run duration in milliseconds by policy",
			Buckets:   m.histogramBuckets,
		},
		[]string{"policy"},
	)

	m.rowsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_loaded",
		Help:      "Number of individuals in the loaded score/target matrix",
	})

	m.targetsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "targets_total",
		Help:      "Total target flags observed over the evaluation horizon",
	})

	m.loadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "load_errors_total",
		Help:      "Total number of score file load failures",
	})

	m.reportsWritten = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "reports_written_total",
			Help:      "Total number of reports written by format",
		},
		[]string{"format"},
	)

	m.reportErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "report_errors_total",
			Help:      "Total number of report write failures by format",
		},
		[]string{"format"},
	)
}

// RecordRun increments the completed-run counter for a policy.
func RecordRun(policy string) {
	globalManager.runsTotal.WithLabelValues(policy).Inc()
}

// RecordRunError increments the failed-run counter for a policy.
func RecordRunError(policy string) {
	globalManager.runErrors.WithLabelValues(policy).Inc()
}

// RecordRunDuration records an evaluation run duration in milliseconds.
func RecordRunDuration(policy string, latencyMs float64) {
	globalManager.runDuration.WithLabelValues(policy).Observe(latencyMs)
}

// UpdateRowsLoaded sets the size of the loaded matrix.
func UpdateRowsLoaded(count int) {
	globalManager.rowsLoaded.Set(float64(count))
}

// UpdateTargetsTotal sets the total observed target flags.
func UpdateTargetsTotal(count int) {
	globalManager.targetsTotal.Set(float64(count))
}

// RecordLoadError increments the score file load failure counter.
func RecordLoadError() {
	globalManager.loadErrors.Inc()
}

// RecordReportWritten increments the written-report counter for a format.
func RecordReportWritten(format string) {
	globalManager.reportsWritten.WithLabelValues(format).Inc()
}

// RecordReportError increments the report write failure counter for a format.
func RecordReportError(format string) {
	globalManager.reportErrors.WithLabelValues(format).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
