package launcher

import (
	"log/slog"
	"os"
	"os/exec"

	"github.com/jrepp/modelauncher/pkg/procmgr"
)

// Spawner starts applications and hands them to a Coordinator
type Spawner struct {
	coordinator *procmgr.Coordinator
	detach      bool
	logger      *slog.Logger
}

// NewSpawner creates a spawner that tracks children on coordinator
func NewSpawner(coordinator *procmgr.Coordinator, detach bool, logger *slog.Logger) *Spawner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Spawner{
		coordinator: coordinator,
		detach:      detach,
		logger:      logger,
	}
}

// Spawn starts path with argv [path], no extra arguments, the launcher's
// environment and working directory, and inherited standard streams. A path
// without a separator is looked up on PATH. On success the child is tracked
// and the active count has already been incremented when Spawn returns; on
// failure nothing is tracked and a SPAWN_FAILED error carries the OS cause.
func (s *Spawner) Spawn(path string) (procmgr.ProcessID, error) {
	cmd := exec.Command(path)
	cmd.Args = []string{path}
	// Real files, not pipes: Wait must not depend on copy goroutines that
	// grandchildren could keep open.
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if s.detach {
		cmd.SysProcAttr = detachedProcAttr()
	}

	if err := cmd.Start(); err != nil {
		return "", ErrSpawnFailed(path, err)
	}

	pid := cmd.Process.Pid
	id, err := s.coordinator.Track(path, pid, func() procmgr.ExitStatus {
		return procmgr.ExitStatusOf(cmd.ProcessState, cmd.Wait())
	})
	if err != nil {
		// Unreachable with a non-nil wait func; reap anyway so the child is not lost
		go func() { _ = cmd.Wait() }()
		return "", ErrSpawnFailed(path, err)
	}

	s.logger.Debug("spawned application", "path", path, "pid", pid, "process_id", id, "detached", s.detach)

	return id, nil
}
