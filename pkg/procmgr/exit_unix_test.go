//go:build unix

package procmgr

import (
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runForStatus(t *testing.T, path string) ExitStatus {
	t.Helper()

	cmd := exec.Command(path)
	require.NoError(t, cmd.Start())
	err := cmd.Wait()
	return ExitStatusOf(cmd.ProcessState, err)
}

func writeScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "child.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

// TestExitStatusOf_Success tests a clean exit
func TestExitStatusOf_Success(t *testing.T) {
	status := runForStatus(t, writeScript(t, "exit 0"))
	assert.Equal(t, ExitStatus{}, status)
}

// TestExitStatusOf_ExitCode tests a non-zero exit
func TestExitStatusOf_ExitCode(t *testing.T) {
	status := runForStatus(t, writeScript(t, "exit 7"))
	assert.Equal(t, 7, status.Code)
	assert.Equal(t, 0, status.Signal)
	assert.NoError(t, status.Err)
}

// TestExitStatusOf_Signal tests a child that is killed by a signal
func TestExitStatusOf_Signal(t *testing.T) {
	status := runForStatus(t, writeScript(t, "kill -TERM $$"))
	assert.Equal(t, 0, status.Code)
	assert.Equal(t, int(syscall.SIGTERM), status.Signal)
	assert.NoError(t, status.Err)
	assert.Equal(t, "SIGTERM", SignalName(status.Signal))
}

// TestExitStatusOf_NoState tests a wait that never produced a process state
func TestExitStatusOf_NoState(t *testing.T) {
	status := ExitStatusOf(nil, os.ErrProcessDone)
	assert.Equal(t, -1, status.Code)
	assert.ErrorIs(t, status.Err, os.ErrProcessDone)
}

// TestSignalName_Zero tests that no signal has no name
func TestSignalName_Zero(t *testing.T) {
	assert.Equal(t, "", SignalName(0))
}
