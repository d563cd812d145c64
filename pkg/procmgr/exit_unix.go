//go:build unix

package procmgr

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// ExitStatusOf converts the result of exec.Cmd.Wait into an ExitStatus.
// A child killed by a signal reports code 0 and the signal number.
func ExitStatusOf(state *os.ProcessState, waitErr error) ExitStatus {
	if state == nil {
		return ExitStatus{Code: -1, Err: waitErr}
	}

	status := ExitStatus{Code: state.ExitCode()}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		status.Code = 0
		status.Signal = int(ws.Signal())
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		status.Err = waitErr
	}

	return status
}

// SignalName returns the conventional name of a signal number, e.g. "SIGTERM".
func SignalName(sig int) string {
	if sig == 0 {
		return ""
	}
	return unix.SignalName(syscall.Signal(sig))
}
