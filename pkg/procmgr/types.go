package procmgr

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ProcessState represents the lifecycle state of a tracked child process
type ProcessState int

const (
	// ProcessStateRunning - process was started and has not reported an exit yet
	ProcessStateRunning ProcessState = iota
	// ProcessStateExited - exit notification processed, handle released
	ProcessStateExited
)

// String returns the string representation of a ProcessState
func (ps ProcessState) String() string {
	switch ps {
	case ProcessStateRunning:
		return "Running"
	case ProcessStateExited:
		return "Exited"
	default:
		return "Unknown"
	}
}

// ProcessID uniquely identifies a tracked process within one coordinator
type ProcessID string

// ExitStatus is what the OS reported when a child terminated.
// Signal is 0 unless the child was killed by a signal, in which case Code is 0.
type ExitStatus struct {
	Code   int
	Signal int
	// Err is set when the exit could not be observed cleanly (e.g. wait failed).
	Err error
}

// Signaled reports whether the child was terminated by a signal
func (s ExitStatus) Signaled() bool {
	return s.Signal != 0
}

// String renders the status the way it is reported on the console
func (s ExitStatus) String() string {
	return fmt.Sprintf("status %d, signal %d", s.Code, s.Signal)
}

// WaitFunc blocks until the child exits and returns its status.
// It is called exactly once, from the handle's exit watcher goroutine.
type WaitFunc func() ExitStatus

// Handle is one spawned child. It is owned by the Coordinator from Track until
// its exit notification has been processed, after which it is dropped from the
// registry and never touched again.
type Handle struct {
	ID        ProcessID
	Path      string
	PID       int
	StartedAt time.Time
}

// ExitEvent is delivered for every tracked child, in arrival order
type ExitEvent struct {
	ID       ProcessID
	Path     string
	PID      int
	Status   ExitStatus
	Lifetime time.Duration
	// Remaining is the active count after this exit was accounted for
	Remaining int
}

// ExitHandler is invoked serially by Coordinator.Wait for each exit
type ExitHandler func(ExitEvent)

// Coordinator owns the registry of live children and the active process
// counter. Exit notifications are fanned in through a single channel and
// processed one at a time by Wait.
type Coordinator struct {
	mu sync.Mutex

	// Registry: removal is the only way a handle is released
	handles map[ProcessID]*Handle
	active  int
	nextSeq uint64

	exits chan exitNotification

	// Configuration
	onExit  ExitHandler
	metrics MetricsCollector
	logger  *slog.Logger
}

// exitNotification is sent by a handle's watcher goroutine
type exitNotification struct {
	id     ProcessID
	status ExitStatus
	at     time.Time
}

// ProcessHealth describes one live child in a Health snapshot
type ProcessHealth struct {
	State  ProcessState
	Path   string
	PID    int
	Uptime time.Duration
}

// HealthCheck is a point-in-time view of the coordinator
type HealthCheck struct {
	ActiveProcesses int
	Processes       map[ProcessID]ProcessHealth
}
