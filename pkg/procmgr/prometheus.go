package procmgr

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsCollector implements MetricsCollector using Prometheus metrics
type PrometheusMetricsCollector struct {
	// Lifecycle metrics
	starts *prometheus.CounterVec
	exits  *prometheus.CounterVec

	// Runtime metrics
	lifetime *prometheus.HistogramVec
	active   prometheus.Gauge

	registry *prometheus.Registry
}

// NewPrometheusMetricsCollector creates a new Prometheus metrics collector
func NewPrometheusMetricsCollector(namespace string) *PrometheusMetricsCollector {
	if namespace == "" {
		namespace = "procmgr"
	}

	pmc := &PrometheusMetricsCollector{
		registry: prometheus.NewRegistry(),
	}

	// Starts
	pmc.starts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "process_starts_total",
			Help:      "Total number of child processes tracked after a successful spawn",
		},
		[]string{"path"},
	)

	// Exits
	pmc.exits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "process_exits_total",
			Help:      "Total number of processed child exit notifications",
		},
		[]string{"path", "outcome"},
	)

	// Lifetime
	pmc.lifetime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "process_lifetime_seconds",
			Help:      "Time between tracking a child and processing its exit",
			Buckets:   []float64{0.01, 0.1, 1, 10, 60, 600, 3600, 86400},
		},
		[]string{"path"},
	)

	// Active
	pmc.active = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_processes",
			Help:      "Children started but not yet exited",
		},
	)

	// Register all metrics
	pmc.registry.MustRegister(
		pmc.starts,
		pmc.exits,
		pmc.lifetime,
		pmc.active,
	)

	return pmc
}

// ProcessStarted records a tracked child
func (pmc *PrometheusMetricsCollector) ProcessStarted(id ProcessID, path string) {
	pmc.starts.WithLabelValues(path).Inc()
}

// ProcessExited records a processed exit
func (pmc *PrometheusMetricsCollector) ProcessExited(id ProcessID, path string, status ExitStatus, lifetime time.Duration) {
	pmc.exits.WithLabelValues(path, exitOutcome(status)).Inc()
	pmc.lifetime.WithLabelValues(path).Observe(lifetime.Seconds())
}

// ActiveProcesses records the active process count
func (pmc *PrometheusMetricsCollector) ActiveProcesses(n int) {
	pmc.active.Set(float64(n))
}

// Registry returns the Prometheus registry for exporters
func (pmc *PrometheusMetricsCollector) Registry() *prometheus.Registry {
	return pmc.registry
}

func exitOutcome(status ExitStatus) string {
	switch {
	case status.Err != nil:
		return "wait_error"
	case status.Signaled():
		return "signaled"
	case status.Code == 0:
		return "success"
	default:
		return "failure"
	}
}

// Compile-time interface compliance check
var _ MetricsCollector = (*PrometheusMetricsCollector)(nil)
