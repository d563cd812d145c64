//go:build unix

package launcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrepp/modelauncher/pkg/procmgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSpawner_TracksChild tests that a started child is counted until it exits
func TestSpawner_TracksChild(t *testing.T) {
	var events []procmgr.ExitEvent
	coordinator := procmgr.NewCoordinator(
		procmgr.WithLogger(quietLogger()),
		procmgr.WithExitHandler(func(ev procmgr.ExitEvent) {
			events = append(events, ev)
		}),
	)
	spawner := NewSpawner(coordinator, true, quietLogger())

	path := writeScript(t, "app.sh", "exit 3")
	id, err := spawner.Spawn(path)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, coordinator.Active())

	require.NoError(t, coordinator.Wait(waitCtx(t)))
	assert.Equal(t, 0, coordinator.Active())
	assert.False(t, coordinator.Tracked(id))

	require.Len(t, events, 1)
	assert.Equal(t, path, events[0].Path)
	assert.Equal(t, 3, events[0].Status.Code)
	assert.Positive(t, events[0].PID)
}

// TestSpawner_ArgvIsPathOnly tests that the child sees exactly one argument
func TestSpawner_ArgvIsPathOnly(t *testing.T) {
	out := filepath.Join(t.TempDir(), "argv")
	path := writeScript(t, "argv.sh", `printf '%s|%s' "$0" "$#" > `+out)

	coordinator := procmgr.NewCoordinator(procmgr.WithLogger(quietLogger()))
	_, err := NewSpawner(coordinator, false, quietLogger()).Spawn(path)
	require.NoError(t, err)
	require.NoError(t, coordinator.Wait(waitCtx(t)))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, path+"|0", string(got))
}

// TestSpawner_Failure tests that nothing is tracked for a missing executable
func TestSpawner_Failure(t *testing.T) {
	coordinator := procmgr.NewCoordinator(procmgr.WithLogger(quietLogger()))
	spawner := NewSpawner(coordinator, true, quietLogger())

	id, err := spawner.Spawn("/nonexistent/app")
	require.Error(t, err)
	assert.Empty(t, id)
	assert.True(t, IsErrorCode(err, ErrorCodeSpawnFailed))
	assert.False(t, IsFatal(err))
	assert.Equal(t, 0, coordinator.Active())
}

// TestSpawner_NotExecutable tests a file without execute permission
func TestSpawner_NotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a program"), 0o644))

	coordinator := procmgr.NewCoordinator(procmgr.WithLogger(quietLogger()))
	_, err := NewSpawner(coordinator, true, quietLogger()).Spawn(path)
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrorCodeSpawnFailed))
	assert.Equal(t, 0, coordinator.Active())
}

// TestSpawner_Detached tests that a detached child leads its own session
func TestSpawner_Detached(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ids")
	// ps-free check: a session leader's process group id equals its pid
	path := writeScript(t, "sid.sh", `echo "$$ $(cut -d' ' -f5 /proc/$$/stat)" > `+out)
	if _, err := os.Stat("/proc/self/stat"); err != nil {
		t.Skip("no /proc on this platform")
	}

	coordinator := procmgr.NewCoordinator(procmgr.WithLogger(quietLogger()))
	_, err := NewSpawner(coordinator, true, quietLogger()).Spawn(path)
	require.NoError(t, err)
	require.NoError(t, coordinator.Wait(waitCtx(t)))

	got, err := os.ReadFile(out)
	require.NoError(t, err)

	var pid, pgrp int
	_, err = fmt.Sscanf(string(got), "%d %d", &pid, &pgrp)
	require.NoError(t, err)
	assert.Equal(t, pid, pgrp)
}
