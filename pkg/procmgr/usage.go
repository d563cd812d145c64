package procmgr

import (
	"context"
	"sort"

	"github.com/shirou/gopsutil/v3/process"
)

// ResourceUsage is a point-in-time sample of one live child
type ResourceUsage struct {
	ID         ProcessID
	Path       string
	PID        int
	RSSBytes   uint64
	CPUPercent float64
	NumThreads int32
}

// SampleUsage reads resource usage for every live child from the OS.
// Children that exit between the registry snapshot and the read are skipped,
// as are children the OS will not describe to us. Samples are ordered by ID.
func (c *Coordinator) SampleUsage(ctx context.Context) ([]ResourceUsage, error) {
	c.mu.Lock()
	handles := make([]Handle, 0, len(c.handles))
	for _, h := range c.handles {
		handles = append(handles, *h)
	}
	c.mu.Unlock()

	sort.Slice(handles, func(i, j int) bool { return handles[i].ID < handles[j].ID })

	samples := make([]ResourceUsage, 0, len(handles))
	for _, h := range handles {
		if err := ctx.Err(); err != nil {
			return samples, err
		}

		proc, err := process.NewProcessWithContext(ctx, int32(h.PID))
		if err != nil {
			c.logger.Debug("skipping usage sample", "process_id", h.ID, "pid", h.PID, "error", err)
			continue
		}

		sample := ResourceUsage{ID: h.ID, Path: h.Path, PID: h.PID}
		if mem, err := proc.MemoryInfoWithContext(ctx); err == nil && mem != nil {
			sample.RSSBytes = mem.RSS
		}
		if cpu, err := proc.CPUPercentWithContext(ctx); err == nil {
			sample.CPUPercent = cpu
		}
		if threads, err := proc.NumThreadsWithContext(ctx); err == nil {
			sample.NumThreads = threads
		}
		samples = append(samples, sample)
	}

	return samples, nil
}
