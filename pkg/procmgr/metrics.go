package procmgr

import (
	"time"
)

// MetricsCollector defines the interface for collecting coordinator metrics
type MetricsCollector interface {
	// ProcessStarted records a child entering the registry
	ProcessStarted(id ProcessID, path string)

	// ProcessExited records a processed exit notification
	ProcessExited(id ProcessID, path string, status ExitStatus, lifetime time.Duration)

	// ActiveProcesses records the current active process count
	ActiveProcesses(n int)
}

// noopMetricsCollector is a no-op implementation of MetricsCollector
type noopMetricsCollector struct{}

func (n *noopMetricsCollector) ProcessStarted(id ProcessID, path string) {}
func (n *noopMetricsCollector) ProcessExited(id ProcessID, path string, status ExitStatus, lifetime time.Duration) {
}
func (n *noopMetricsCollector) ActiveProcesses(count int) {}

// NewNoopMetricsCollector creates a no-op metrics collector
func NewNoopMetricsCollector() MetricsCollector {
	return &noopMetricsCollector{}
}
