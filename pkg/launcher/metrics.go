package launcher

import (
	"time"

	"github.com/jrepp/modelauncher/pkg/procmgr"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultMetricsNamespace prefixes every exported metric
const DefaultMetricsNamespace = "mode_launcher"

// Mode lookup outcomes
const (
	lookupFound        = "found"
	lookupNotFound     = "not_found"
	lookupInvalidShape = "invalid_shape"
)

// MetricsCollector records controller and process metrics on one registry
type MetricsCollector struct {
	transitions *prometheus.CounterVec
	state       *prometheus.GaugeVec
	lookups     *prometheus.CounterVec
	spawnErrors prometheus.Counter
	skippedApps prometheus.Counter
	runDuration prometheus.Histogram
	configBytes prometheus.Gauge

	processes *procmgr.PrometheusMetricsCollector
	registry  *prometheus.Registry
}

// NewMetricsCollector creates a collector. The process metrics of the
// Coordinator share its registry; hand them over with ProcessCollector.
func NewMetricsCollector(namespace string) *MetricsCollector {
	if namespace == "" {
		namespace = DefaultMetricsNamespace
	}

	processes := procmgr.NewPrometheusMetricsCollector(namespace)

	mc := &MetricsCollector{
		processes: processes,
		registry:  processes.Registry(),
	}

	mc.transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Controller state transitions",
		},
		[]string{"from", "to"},
	)

	mc.state = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "1 for the controller's current state, 0 otherwise",
		},
		[]string{"state"},
	)

	mc.lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_lookups_total",
			Help:      "Mode lookups by outcome",
		},
		[]string{"mode", "result"},
	)

	mc.spawnErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spawn_failures_total",
			Help:      "Applications the OS refused to start",
		},
	)

	mc.skippedApps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_apps_total",
			Help:      "Non-string entries ignored in apps arrays",
		},
	)

	mc.runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time from start of run to a terminal state",
			Buckets:   prometheus.ExponentialBuckets(0.01, 10, 8),
		},
	)

	mc.configBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "config_bytes",
			Help:      "Size of the mode file as handed to the parser",
		},
	)

	mc.registry.MustRegister(
		mc.transitions,
		mc.state,
		mc.lookups,
		mc.spawnErrors,
		mc.skippedApps,
		mc.runDuration,
		mc.configBytes,
	)

	return mc
}

// ProcessCollector returns the collector to install on the Coordinator
func (mc *MetricsCollector) ProcessCollector() procmgr.MetricsCollector {
	return mc.processes
}

// Registry returns the registry holding every launcher metric
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// RecordTransition records a state change
func (mc *MetricsCollector) RecordTransition(from, to State) {
	mc.transitions.WithLabelValues(from.String(), to.String()).Inc()
	mc.state.WithLabelValues(from.String()).Set(0)
	mc.state.WithLabelValues(to.String()).Set(1)
}

// RecordModeLookup records the outcome of resolving a mode
func (mc *MetricsCollector) RecordModeLookup(mode, result string) {
	mc.lookups.WithLabelValues(mode, result).Inc()
}

// RecordSpawnFailure records an application that failed to start
func (mc *MetricsCollector) RecordSpawnFailure() {
	mc.spawnErrors.Inc()
}

// RecordSkippedApps records non-string apps entries
func (mc *MetricsCollector) RecordSkippedApps(n int) {
	mc.skippedApps.Add(float64(n))
}

// RecordConfigSize records the size of the loaded mode file
func (mc *MetricsCollector) RecordConfigSize(n int) {
	mc.configBytes.Set(float64(n))
}

// RecordRunDuration records how long a run took
func (mc *MetricsCollector) RecordRunDuration(d time.Duration) {
	mc.runDuration.Observe(d.Seconds())
}

// WriteTextfile writes all metrics in the Prometheus text format, for the
// node exporter textfile collector. The file is replaced atomically.
func (mc *MetricsCollector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, mc.registry)
}
