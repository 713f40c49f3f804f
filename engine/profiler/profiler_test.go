package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	start := time.Unix(0, 0)
	p := NewProfiler(start, time.Second)
	p.SetQuiet(true)

	var reports []Stats
	for i := 1; i <= 100; i++ {
		if stats, ok := p.Tick(start.Add(time.Duration(i) * 20 * time.Millisecond)); ok {
			reports = append(reports, stats)
		}
	}

	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.Equal(t, 50, r.Frames)
		assert.Equal(t, time.Second, r.Elapsed)
		assert.InDelta(t, 50.0, r.FPS, 1e-9)
		assert.Positive(t, r.HeapMB)
	}
}

func TestDefaultInterval(t *testing.T) {
	start := time.Unix(0, 0)
	p := NewProfiler(start, 0)
	p.SetQuiet(true)

	_, ok := p.Tick(start.Add(999 * time.Millisecond))
	assert.False(t, ok)
	stats, ok := p.Tick(start.Add(time.Second))
	assert.True(t, ok)
	assert.Equal(t, 2, stats.Frames)
}
