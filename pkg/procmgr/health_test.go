package procmgr

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCoordinator_Health tests the Health() API
func TestCoordinator_Health(t *testing.T) {
	c := NewCoordinator()

	// Initial health - no processes
	health := c.Health()
	assert.Equal(t, 0, health.ActiveProcesses)
	assert.Empty(t, health.Processes)

	first := newGatedChild()
	second := newGatedChild()
	firstID, err := c.Track("/opt/apps/editor", 4001, first.wait)
	require.NoError(t, err)
	secondID, err := c.Track("/opt/apps/browser", 4002, second.wait)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	health = c.Health()
	assert.Equal(t, 2, health.ActiveProcesses)
	require.Len(t, health.Processes, 2)

	editor, exists := health.Processes[firstID]
	require.True(t, exists)
	assert.Equal(t, ProcessStateRunning, editor.State)
	assert.Equal(t, "/opt/apps/editor", editor.Path)
	assert.Equal(t, 4001, editor.PID)
	assert.Greater(t, editor.Uptime, time.Duration(0))

	// Release one child and check it leaves the snapshot
	first.exit(ExitStatus{})
	require.Eventually(t, func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_ = c.Wait(ctx)
		return c.Active() == 1
	}, 2*time.Second, 20*time.Millisecond)

	health = c.Health()
	assert.Equal(t, 1, health.ActiveProcesses)
	_, exists = health.Processes[firstID]
	assert.False(t, exists)
	_, exists = health.Processes[secondID]
	assert.True(t, exists)

	second.exit(ExitStatus{})
	require.NoError(t, c.Wait(context.Background()))
	assert.Empty(t, c.Health().Processes)
}
