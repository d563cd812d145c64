//go:build !unix

package procmgr

import (
	"errors"
	"os"
	"os/exec"
)

// ExitStatusOf converts the result of exec.Cmd.Wait into an ExitStatus.
// Platforms without POSIX signals only ever report an exit code.
func ExitStatusOf(state *os.ProcessState, waitErr error) ExitStatus {
	if state == nil {
		return ExitStatus{Code: -1, Err: waitErr}
	}

	status := ExitStatus{Code: state.ExitCode()}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		status.Err = waitErr
	}

	return status
}

// SignalName returns "" since there are no signal exits to name.
func SignalName(sig int) string {
	return ""
}
