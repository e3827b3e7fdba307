package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProbeSnapshot(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &Probe{started: start, now: func() time.Time { return start.Add(90 * time.Second) }}

	snap := p.Snapshot(context.Background())
	assert.Equal(t, int64(90), snap.UptimeSeconds)
	assert.Positive(t, snap.Goroutines)
	assert.GreaterOrEqual(t, snap.MemoryUsedPercent, 0.0)
	assert.LessOrEqual(t, snap.MemoryUsedPercent, 100.0)
}
