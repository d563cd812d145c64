package procmgr

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCoordinator_SampleUsage tests sampling a live child
func TestCoordinator_SampleUsage(t *testing.T) {
	c := NewCoordinator()

	cmd := exec.Command(writeScript(t, "sleep 5"))
	require.NoError(t, cmd.Start())
	t.Cleanup(func() { _ = cmd.Process.Kill() })

	id, err := c.Track(cmd.Path, cmd.Process.Pid, func() ExitStatus {
		return ExitStatusOf(cmd.ProcessState, cmd.Wait())
	})
	require.NoError(t, err)

	samples, err := c.SampleUsage(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, id, samples[0].ID)
	assert.Equal(t, cmd.Process.Pid, samples[0].PID)
	assert.Greater(t, samples[0].RSSBytes, uint64(0))
	assert.GreaterOrEqual(t, samples[0].NumThreads, int32(1))

	require.NoError(t, cmd.Process.Kill())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Wait(ctx))

	samples, err = c.SampleUsage(context.Background())
	require.NoError(t, err)
	assert.Empty(t, samples)
}

// TestCoordinator_SampleUsageSkipsVanished tests a PID the OS no longer knows
func TestCoordinator_SampleUsageSkipsVanished(t *testing.T) {
	c := NewCoordinator()
	child := newGatedChild()
	t.Cleanup(func() { child.exit(ExitStatus{}) })

	// PIDs are capped well below this on Linux
	_, err := c.Track("/usr/bin/ghost", 1<<30, child.wait)
	require.NoError(t, err)

	samples, err := c.SampleUsage(context.Background())
	require.NoError(t, err)
	assert.Empty(t, samples)
}

// TestCoordinator_SampleUsageCancelled tests an already cancelled context
func TestCoordinator_SampleUsageCancelled(t *testing.T) {
	c := NewCoordinator()
	child := newGatedChild()
	t.Cleanup(func() { child.exit(ExitStatus{}) })

	_, err := c.Track("/usr/bin/editor", 1, child.wait)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.SampleUsage(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
