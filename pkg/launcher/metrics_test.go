package launcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jrepp/modelauncher/pkg/procmgr"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMetricsCollector_Transitions tests the transition counter and state gauge
func TestMetricsCollector_Transitions(t *testing.T) {
	mc := NewMetricsCollector("")

	mc.RecordTransition(StateIdle, StateReading)
	mc.RecordTransition(StateReading, StateFailed)

	assert.Equal(t, float64(1), testutil.ToFloat64(mc.transitions.WithLabelValues("Idle", "Reading")))
	assert.Equal(t, float64(1), testutil.ToFloat64(mc.transitions.WithLabelValues("Reading", "Failed")))
	assert.Equal(t, float64(0), testutil.ToFloat64(mc.state.WithLabelValues("Reading")))
	assert.Equal(t, float64(1), testutil.ToFloat64(mc.state.WithLabelValues("Failed")))
}

// TestMetricsCollector_Counters tests lookups, failures and skipped entries
func TestMetricsCollector_Counters(t *testing.T) {
	mc := NewMetricsCollector("")

	mc.RecordModeLookup("dev", lookupFound)
	mc.RecordModeLookup("dev", lookupFound)
	mc.RecordModeLookup("x", lookupNotFound)
	mc.RecordSpawnFailure()
	mc.RecordSkippedApps(3)
	mc.RecordConfigSize(128)
	mc.RecordRunDuration(250 * time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(mc.lookups.WithLabelValues("dev", "found")))
	assert.Equal(t, float64(1), testutil.ToFloat64(mc.lookups.WithLabelValues("x", "not_found")))
	assert.Equal(t, float64(1), testutil.ToFloat64(mc.spawnErrors))
	assert.Equal(t, float64(3), testutil.ToFloat64(mc.skippedApps))
	assert.Equal(t, float64(128), testutil.ToFloat64(mc.configBytes))
	assert.Equal(t, 1, testutil.CollectAndCount(mc.runDuration))
}

// TestMetricsCollector_SharedRegistry tests that process metrics land on the same registry
func TestMetricsCollector_SharedRegistry(t *testing.T) {
	mc := NewMetricsCollector("custom")

	processes := mc.ProcessCollector()
	processes.ProcessStarted("proc-1", "/bin/app")
	processes.ActiveProcesses(1)
	processes.ProcessExited("proc-1", "/bin/app", procmgr.ExitStatus{}, time.Second)
	processes.ActiveProcesses(0)

	families, err := mc.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, family := range families {
		names[family.GetName()] = true
	}
	assert.True(t, names["custom_process_starts_total"])
	assert.True(t, names["custom_process_exits_total"])
	assert.True(t, names["custom_active_processes"])
}

// TestMetricsCollector_WriteTextfile tests the Prometheus text dump
func TestMetricsCollector_WriteTextfile(t *testing.T) {
	mc := NewMetricsCollector("")
	mc.RecordSpawnFailure()

	path := filepath.Join(t.TempDir(), "launcher.prom")
	require.NoError(t, mc.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, "# TYPE mode_launcher_spawn_failures_total counter"))
	assert.True(t, strings.Contains(text, "mode_launcher_spawn_failures_total 1"))
}

// TestMetricsCollector_WriteTextfileError tests an unwritable destination
func TestMetricsCollector_WriteTextfileError(t *testing.T) {
	mc := NewMetricsCollector("")

	err := mc.WriteTextfile(filepath.Join(t.TempDir(), "missing", "launcher.prom"))
	assert.Error(t, err)
}
