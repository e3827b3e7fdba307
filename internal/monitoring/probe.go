package monitoring

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot is a point-in-time view of the process and its host.
type Snapshot struct {
	UptimeSeconds     int64   `json:"uptime_seconds"`
	Goroutines        int     `json:"goroutines"`
	HostUptimeSeconds uint64  `json:"host_uptime_seconds,omitempty"`
	MemoryUsedPercent float64 `json:"memory_used_percent,omitempty"`
}

// Probe reports process and host figures on demand. It runs nothing in the
// background.
type Probe struct {
	started time.Time
	now     func() time.Time
}

// NewProbe creates a Probe whose uptime starts now.
func NewProbe() *Probe {
	return &Probe{started: time.Now(), now: time.Now}
}

// Snapshot collects the current figures. Host figures that cannot be read are
// left out.
func (p *Probe) Snapshot(ctx context.Context) Snapshot {
	snap := Snapshot{
		UptimeSeconds: int64(p.now().Sub(p.started).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
	}

	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		snap.HostUptimeSeconds = uptime
	} else {
		log.Debug().Err(err).Msg("Probe: host uptime unavailable")
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		snap.MemoryUsedPercent = vm.UsedPercent
	} else {
		log.Debug().Err(err).Msg("Probe: memory stats unavailable")
	}
	return snap
}
