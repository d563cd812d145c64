package launcher

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jrepp/modelauncher/internal/ui"
)

// ControllerBuilder provides a fluent interface for constructing a Controller.
//
// Usage:
//
//	controller, err := launcher.NewBuilder().
//	    WithConfigPath("modes.yaml").
//	    WithWaitTimeout(10 * time.Minute).
//	    Build()
//
// All builder methods return the builder for method chaining. The first
// invalid setting is remembered and reported by Build.
type ControllerBuilder struct {
	config *Config
	opts   []Option
	err    error
}

// NewBuilder creates a new ControllerBuilder with defaults.
//
// Defaults:
//   - ConfigPath: "config.json"
//   - WaitTimeout: none
//   - MaxConfigBytes: unlimited
//   - Detach: true
func NewBuilder() *ControllerBuilder {
	return &ControllerBuilder{
		config: DefaultConfig(),
	}
}

// WithConfigPath sets the mode file to read.
//
// Example:
//
//	builder.WithConfigPath("/etc/mode-launcher/config.json")
func (b *ControllerBuilder) WithConfigPath(path string) *ControllerBuilder {
	if b.err != nil {
		return b
	}
	if path == "" {
		b.err = ErrInvalidConfiguration("config_path", path, "mode file path cannot be empty")
		return b
	}
	b.config.ConfigPath = path
	return b
}

// WithWaitTimeout bounds how long the run waits for applications to exit.
// Zero waits forever.
func (b *ControllerBuilder) WithWaitTimeout(timeout time.Duration) *ControllerBuilder {
	if b.err != nil {
		return b
	}
	if timeout < 0 {
		b.err = ErrInvalidConfiguration("wait_timeout", timeout, "wait timeout cannot be negative")
		return b
	}
	b.config.WaitTimeout = timeout
	return b
}

// WithMaxConfigBytes caps the mode file size. Zero reads any size.
func (b *ControllerBuilder) WithMaxConfigBytes(limit int64) *ControllerBuilder {
	if b.err != nil {
		return b
	}
	if limit < 0 {
		b.err = ErrInvalidConfiguration("max_config_bytes", limit, "byte limit cannot be negative")
		return b
	}
	b.config.MaxConfigBytes = limit
	return b
}

// WithTruncateConfig keeps the first MaxConfigBytes of an oversized mode
// file instead of failing.
func (b *ControllerBuilder) WithTruncateConfig(truncate bool) *ControllerBuilder {
	if b.err != nil {
		return b
	}
	b.config.TruncateConfig = truncate
	return b
}

// WithLegacyBuffer reproduces a fixed 4096-byte read buffer: at most 4095
// bytes are parsed and anything beyond is dropped silently.
//
// Example:
//
//	builder.WithLegacyBuffer()
func (b *ControllerBuilder) WithLegacyBuffer() *ControllerBuilder {
	return b.WithMaxConfigBytes(LegacyBufferSize).WithTruncateConfig(true)
}

// WithDetach controls whether applications get their own session
func (b *ControllerBuilder) WithDetach(detach bool) *ControllerBuilder {
	if b.err != nil {
		return b
	}
	b.config.Detach = detach
	return b
}

// WithMetricsFile writes a Prometheus text dump to path when the run ends
func (b *ControllerBuilder) WithMetricsFile(path string) *ControllerBuilder {
	if b.err != nil {
		return b
	}
	b.config.MetricsFile = path
	return b
}

// WithLogger sets the diagnostics logger
func (b *ControllerBuilder) WithLogger(logger *slog.Logger) *ControllerBuilder {
	if b.err != nil {
		return b
	}
	if logger == nil {
		b.err = ErrInvalidConfiguration("logger", nil, "logger cannot be nil")
		return b
	}
	b.opts = append(b.opts, WithLogger(logger))
	return b
}

// WithUI sets the console used for progress output
func (b *ControllerBuilder) WithUI(console *ui.UI) *ControllerBuilder {
	if b.err != nil {
		return b
	}
	if console == nil {
		b.err = ErrInvalidConfiguration("ui", nil, "console cannot be nil")
		return b
	}
	b.opts = append(b.opts, WithUI(console))
	return b
}

// WithMetricsCollector sets the metrics collector
func (b *ControllerBuilder) WithMetricsCollector(mc *MetricsCollector) *ControllerBuilder {
	if b.err != nil {
		return b
	}
	b.opts = append(b.opts, WithMetricsCollector(mc))
	return b
}

// WithConfig directly sets the configuration object.
//
// Note: This replaces all previous configuration settings.
func (b *ControllerBuilder) WithConfig(config *Config) *ControllerBuilder {
	if b.err != nil {
		return b
	}
	if config == nil {
		b.err = ErrInvalidConfiguration("config", nil, "config cannot be nil")
		return b
	}
	b.config = config
	return b
}

// Build creates the Controller.
//
// Returns an error if any builder setting was invalid or the final
// configuration does not validate.
func (b *ControllerBuilder) Build() (*Controller, error) {
	if b.err != nil {
		return nil, fmt.Errorf("builder validation failed: %w", b.err)
	}

	if err := b.validateConfig(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	opts := append([]Option{WithConfig(b.config)}, b.opts...)
	return NewController(opts...), nil
}

// MustBuild creates the Controller and panics on error.
func (b *ControllerBuilder) MustBuild() *Controller {
	controller, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build launcher controller: %v", err))
	}
	return controller
}

// GetConfig returns the current configuration without building.
func (b *ControllerBuilder) GetConfig() *Config {
	return b.config
}

// validateConfig performs final validation before building.
func (b *ControllerBuilder) validateConfig() error {
	if b.config.ConfigPath == "" {
		return ErrInvalidConfiguration("config_path", "", "mode file path is required")
	}

	if b.config.WaitTimeout < 0 {
		return ErrInvalidConfiguration("wait_timeout", b.config.WaitTimeout, "wait timeout cannot be negative")
	}

	if b.config.MaxConfigBytes < 0 {
		return ErrInvalidConfiguration("max_config_bytes", b.config.MaxConfigBytes, "byte limit cannot be negative")
	}

	if b.config.TruncateConfig && b.config.MaxConfigBytes == 0 {
		return ErrInvalidConfiguration("truncate_config", true, "truncation needs a byte limit")
	}

	return nil
}
