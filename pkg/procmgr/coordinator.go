package procmgr

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// exitBacklog bounds how many exit notifications can be queued before
// watcher goroutines block waiting for Wait to drain them.
const exitBacklog = 64

// NewCoordinator creates a new lifecycle coordinator
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		handles: make(map[ProcessID]*Handle),
		exits:   make(chan exitNotification, exitBacklog),
		metrics: NewNoopMetricsCollector(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Track registers a child that has already been started and begins watching
// for its exit. The active process count is incremented before the watcher
// starts, so the exit can never be accounted for ahead of the start.
func (c *Coordinator) Track(path string, pid int, wait WaitFunc) (ProcessID, error) {
	if wait == nil {
		return "", fmt.Errorf("track %s: no wait function", path)
	}

	c.mu.Lock()
	c.nextSeq++
	id := ProcessID(fmt.Sprintf("proc-%d", c.nextSeq))
	c.handles[id] = &Handle{
		ID:        id,
		Path:      path,
		PID:       pid,
		StartedAt: time.Now(),
	}
	c.active++
	active := c.active
	c.mu.Unlock()

	c.logger.Debug("tracking process", "process_id", id, "path", path, "pid", pid, "active", active)

	c.metrics.ProcessStarted(id, path)
	c.metrics.ActiveProcesses(active)

	go c.watch(id, wait)

	return id, nil
}

// watch runs in a goroutine per child and forwards the exit to Wait
func (c *Coordinator) watch(id ProcessID, wait WaitFunc) {
	status := wait()
	c.exits <- exitNotification{id: id, status: status, at: time.Now()}
}

// Wait processes exit notifications one at a time, in arrival order, until
// no tracked child remains. It returns nil once the active count is zero and
// ctx.Err() if the context ends first; in that case the remaining children
// stay tracked and a later Wait resumes where this one stopped.
func (c *Coordinator) Wait(ctx context.Context) error {
	for {
		if c.Active() == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			c.logger.Warn("stopped waiting for processes", "active", c.Active(), "error", ctx.Err())
			return ctx.Err()
		case n := <-c.exits:
			c.handleExit(n)
		}
	}
}

// handleExit releases the handle for one exit notification
func (c *Coordinator) handleExit(n exitNotification) {
	c.mu.Lock()
	handle, exists := c.handles[n.id]
	if !exists {
		c.mu.Unlock()
		c.logger.Warn("exit for unknown process", "process_id", n.id)
		return
	}

	delete(c.handles, n.id)
	if c.active > 0 {
		c.active--
	}
	remaining := c.active
	c.mu.Unlock()

	lifetime := n.at.Sub(handle.StartedAt)

	c.logger.Debug("process exited",
		"process_id", n.id,
		"path", handle.Path,
		"pid", handle.PID,
		"code", n.status.Code,
		"signal", n.status.Signal,
		"signal_name", SignalName(n.status.Signal),
		"lifetime", lifetime,
		"remaining", remaining)

	if n.status.Err != nil {
		c.logger.Warn("process wait failed", "process_id", n.id, "path", handle.Path, "error", n.status.Err)
	}

	c.metrics.ProcessExited(n.id, handle.Path, n.status, lifetime)
	c.metrics.ActiveProcesses(remaining)

	if c.onExit != nil {
		c.onExit(ExitEvent{
			ID:        n.id,
			Path:      handle.Path,
			PID:       handle.PID,
			Status:    n.status,
			Lifetime:  lifetime,
			Remaining: remaining,
		})
	}
}

// Active returns the number of started children whose exit has not been processed
func (c *Coordinator) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Tracked reports whether id is still in the registry
func (c *Coordinator) Tracked(id ProcessID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.handles[id]
	return exists
}

// Health returns the current state of every live child
func (c *Coordinator) Health() HealthCheck {
	c.mu.Lock()
	defer c.mu.Unlock()

	health := HealthCheck{
		ActiveProcesses: c.active,
		Processes:       make(map[ProcessID]ProcessHealth, len(c.handles)),
	}

	now := time.Now()
	for id, handle := range c.handles {
		health.Processes[id] = ProcessHealth{
			State:  ProcessStateRunning,
			Path:   handle.Path,
			PID:    handle.PID,
			Uptime: now.Sub(handle.StartedAt),
		}
	}

	return health
}
