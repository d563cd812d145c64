package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrepp/modelauncher/internal/ui"
	"github.com/jrepp/modelauncher/pkg/procmgr"
)

// Config holds launcher configuration
type Config struct {
	// ConfigPath is the mode file, relative to the working directory
	ConfigPath string

	// WaitTimeout bounds the Waiting state; 0 waits until every application exits
	WaitTimeout time.Duration

	// Mode file read limits
	MaxConfigBytes int64
	TruncateConfig bool

	// Detach starts applications in their own session or process group
	Detach bool

	// MetricsFile receives a Prometheus text dump when the run ends
	MetricsFile string
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		ConfigPath: DefaultConfigPath,
		Detach:     true,
	}
}

// Controller drives one launcher run through its states
type Controller struct {
	config *Config
	runID  string

	loader      *ConfigLoader
	coordinator *procmgr.Coordinator
	spawner     *Spawner

	ui      *ui.UI
	metrics *MetricsCollector
	logger  *slog.Logger

	mu    sync.Mutex
	state State
}

// Option configures the Controller
type Option func(*Controller)

// WithConfig replaces the default configuration
func WithConfig(config *Config) Option {
	return func(c *Controller) {
		if config != nil {
			c.config = config
		}
	}
}

// WithUI sets the console the run reports progress on
func WithUI(console *ui.UI) Option {
	return func(c *Controller) {
		c.ui = console
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetricsCollector sets the metrics collector
func WithMetricsCollector(mc *MetricsCollector) Option {
	return func(c *Controller) {
		c.metrics = mc
	}
}

// NewController creates a controller in the Idle state
func NewController(opts ...Option) *Controller {
	c := &Controller{
		config: DefaultConfig(),
		runID:  uuid.New().String(),
		logger: slog.Default(),
		state:  StateIdle,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Every diagnostic of this run carries its id
	c.logger = c.logger.With("run_id", c.runID)

	if c.ui == nil {
		c.ui = ui.NewUI()
	}
	if c.metrics == nil {
		c.metrics = NewMetricsCollector(DefaultMetricsNamespace)
	}

	c.loader = NewConfigLoader(c.config.MaxConfigBytes, c.config.TruncateConfig, c.logger)
	c.coordinator = procmgr.NewCoordinator(
		procmgr.WithExitHandler(c.onExit),
		procmgr.WithMetricsCollector(c.metrics.ProcessCollector()),
		procmgr.WithLogger(c.logger),
	)
	c.spawner = NewSpawner(c.coordinator, c.config.Detach, c.logger)

	return c
}

// Run reads the mode file, launches the applications of mode and waits for
// all of them to exit. A Controller runs once.
//
// The returned error is nil or a *LauncherError. Fatal errors (see IsFatal)
// mean the run ended in Failed. Mode lookup and spawn problems are reported
// as they happen and returned after the run reached Done; a caller mapping
// errors to exit codes should treat those as success.
func (c *Controller) Run(ctx context.Context, mode string) error {
	if err := c.begin(); err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		c.metrics.RecordRunDuration(time.Since(start))
		c.writeMetrics()
	}()

	path := c.config.ConfigPath
	data, err := c.loader.Load(ctx, path)
	if err != nil {
		return c.fail(err)
	}
	c.metrics.RecordConfigSize(len(data))

	c.transition(StateParsing)

	doc, err := ParseDocument(path, data)
	if err != nil {
		return c.fail(err)
	}

	c.transition(StateLaunching)

	report, err := c.launch(ctx, doc, mode)
	if err != nil {
		return c.fail(err)
	}

	c.transition(StateWaiting)

	if err := c.wait(ctx); err != nil {
		return c.fail(err)
	}

	c.transition(StateDone)
	c.ui.Success("All tasks complete. Launcher exiting.")

	return report.err()
}

// launchReport collects the non-fatal problems of the Launching state
type launchReport struct {
	spawned  int
	problems []error
}

func (r launchReport) err() error {
	return errors.Join(r.problems...)
}

// launch spawns every string entry of the mode's apps array. Lookup and
// spawn problems go into the report; the error is set only when ctx ends
// mid-launch.
func (c *Controller) launch(ctx context.Context, doc *Document, mode string) (launchReport, error) {
	var report launchReport

	m, ok := doc.LookupMode(mode)
	if !ok {
		c.metrics.RecordModeLookup(mode, lookupNotFound)
		notFound := ErrModeNotFound(mode, c.config.ConfigPath)
		c.ui.Error("Error: " + notFound.Message)
		report.problems = append(report.problems, notFound)
		return report, nil
	}

	apps, ok := m.Apps()
	if !ok {
		c.metrics.RecordModeLookup(mode, lookupInvalidShape)
		invalid := ErrInvalidModeShape(mode)
		c.ui.Error("Error: " + invalid.Message)
		report.problems = append(report.problems, invalid)
		return report, nil
	}
	c.metrics.RecordModeLookup(mode, lookupFound)

	c.ui.Info(fmt.Sprintf("Entering mode: %s", mode))
	c.ui.Info(fmt.Sprintf("Launching %d applications...", apps.Declared))

	if apps.Skipped > 0 {
		c.logger.Warn("skipping non-string apps entries", "mode", mode, "skipped", apps.Skipped)
		c.metrics.RecordSkippedApps(apps.Skipped)
	}

	for _, path := range apps.Paths {
		if err := ctx.Err(); err != nil {
			return report, ErrInterrupted(c.coordinator.Active(), err)
		}

		c.ui.Println(fmt.Sprintf("  - Starting: %s", path))

		if _, err := c.spawner.Spawn(path); err != nil {
			c.metrics.RecordSpawnFailure()
			c.reportSpawnFailure(err)
			report.problems = append(report.problems, err)
			continue
		}
		report.spawned++
	}

	c.logger.Debug("mode launched",
		"mode", mode,
		"spawned", report.spawned,
		"failed", len(report.problems),
		"skipped", apps.Skipped)

	return report, nil
}

func (c *Controller) reportSpawnFailure(err error) {
	var launcherErr *LauncherError
	if errors.As(err, &launcherErr) {
		c.ui.Error("    " + launcherErr.Summary())
		return
	}
	c.ui.Error("    " + err.Error())
}

// wait blocks until the Coordinator has no active process, the configured
// timeout expires, or ctx ends.
func (c *Controller) wait(ctx context.Context) error {
	if c.coordinator.Active() == 0 {
		return nil
	}

	c.ui.Info("Waiting for launched applications to close...")

	health := c.coordinator.Health()
	for id, p := range health.Processes {
		c.logger.Debug("waiting on process", "process_id", id, "path", p.Path, "pid", p.PID, "state", p.State)
	}
	c.logUsage(ctx)

	if c.config.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.WaitTimeout)
		defer cancel()
	}

	err := c.coordinator.Wait(ctx)
	if err == nil {
		return nil
	}

	active := c.coordinator.Active()
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrWaitTimeout(active, err)
	}
	return ErrInterrupted(active, err)
}

// logUsage records what each live child costs, at debug level only
func (c *Controller) logUsage(ctx context.Context) {
	if !c.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	samples, err := c.coordinator.SampleUsage(ctx)
	if err != nil {
		c.logger.Debug("usage sampling stopped", "error", err)
	}
	for _, u := range samples {
		c.logger.Debug("process usage",
			"process_id", u.ID,
			"pid", u.PID,
			"rss_bytes", u.RSSBytes,
			"cpu_percent", u.CPUPercent,
			"threads", u.NumThreads)
	}
}

// onExit runs serially inside Coordinator.Wait
func (c *Controller) onExit(ev procmgr.ExitEvent) {
	c.ui.Println(fmt.Sprintf("Process exited with %s", ev.Status))
}

// fail moves to Failed and reports err on the console
func (c *Controller) fail(err error) error {
	c.transition(StateFailed)

	var launcherErr *LauncherError
	if errors.As(err, &launcherErr) {
		c.ui.Error("Error: " + launcherErr.Summary())
		if launcherErr.Suggestion != "" {
			c.ui.Warning(launcherErr.Suggestion)
		}
	} else {
		c.ui.Error("Error: " + err.Error())
	}

	c.logger.Error("launcher run failed", "state", StateFailed, "error", err)

	return err
}

// begin leaves Idle; a Controller that already ran refuses to start again
func (c *Controller) begin() error {
	c.mu.Lock()
	from := c.state
	if err := validateTransition(from, StateReading); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("run: %w", err)
	}
	c.state = StateReading
	c.mu.Unlock()

	c.recordTransition(from, StateReading)
	return nil
}

// transition moves to the next state. Moves the state machine does not
// allow are logged and ignored.
func (c *Controller) transition(to State) {
	c.mu.Lock()
	from := c.state
	if err := validateTransition(from, to); err != nil {
		c.mu.Unlock()
		c.logger.Error("rejected state transition", "from", from, "to", to, "error", err)
		return
	}
	c.state = to
	c.mu.Unlock()

	c.recordTransition(from, to)
}

func (c *Controller) recordTransition(from, to State) {
	c.logger.Debug("state transition", "from", from, "to", to)
	c.metrics.RecordTransition(from, to)
}

func (c *Controller) writeMetrics() {
	if c.config.MetricsFile == "" {
		return
	}
	if err := c.metrics.WriteTextfile(c.config.MetricsFile); err != nil {
		c.logger.Warn("write metrics file", "path", c.config.MetricsFile, "error", err)
	}
}

// Ready returns nil once every application has been launched and the
// controller is waiting on them or finished
func (c *Controller) Ready() error {
	switch state := c.State(); state {
	case StateWaiting, StateDone:
		return nil
	default:
		return fmt.Errorf("launcher is %s", state)
	}
}

// RunID returns the id attached to this controller's log records
func (c *Controller) RunID() string {
	return c.runID
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Active returns the number of launched applications still running
func (c *Controller) Active() int {
	return c.coordinator.Active()
}

// Metrics returns the metrics collector
func (c *Controller) Metrics() *MetricsCollector {
	return c.metrics
}

// ModeSummary describes one mode of a mode file
type ModeSummary struct {
	Name string
	// Apps is the number of string entries, or -1 if apps is not an array
	Apps int
}

// Modes reads the mode file and lists its modes without launching anything
// or changing state.
func (c *Controller) Modes(ctx context.Context) ([]ModeSummary, error) {
	path := c.config.ConfigPath
	data, err := c.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument(path, data)
	if err != nil {
		return nil, err
	}

	names := doc.Modes()
	summaries := make([]ModeSummary, 0, len(names))
	for _, name := range names {
		summary := ModeSummary{Name: name, Apps: -1}
		if m, ok := doc.LookupMode(name); ok {
			if apps, ok := m.Apps(); ok {
				summary.Apps = len(apps.Paths)
			}
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
