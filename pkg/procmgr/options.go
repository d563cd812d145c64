package procmgr

import (
	"log/slog"
)

// Option configures the Coordinator
type Option func(*Coordinator)

// WithExitHandler sets the callback invoked for every processed exit
func WithExitHandler(h ExitHandler) Option {
	return func(c *Coordinator) {
		c.onExit = h
	}
}

// WithMetricsCollector sets the metrics collector
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(c *Coordinator) {
		if mc != nil {
			c.metrics = mc
		}
	}
}

// WithLogger sets the logger used for lifecycle diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}
