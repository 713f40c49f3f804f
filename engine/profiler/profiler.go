package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one profiling report covering the frames drawn since the previous report.
type Stats struct {
	Frames  int
	Elapsed time.Duration
	FPS     float64

	// HeapMB is the live heap at the time of the report.
	HeapMB float64
	// GCCount is the cumulative number of completed GC cycles.
	GCCount uint32
}

// Profiler counts drawn frames and reports the achieved frame rate at a fixed interval.
// With the 20 ms frame budget the reported rate should settle near 50.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	quiet          bool
}

// NewProfiler creates a Profiler starting its first interval at start.
// The update interval defaults to 1 second when interval <= 0.
//
// Parameters:
//   - start: the time the first interval begins
//   - interval: how often stats are produced
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(start time.Time, interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       start,
		updateInterval: interval,
	}
}

// SetQuiet turns the log output off. Stats are still returned from Tick.
func (p *Profiler) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// Tick should be called once per drawn frame with the frame's timestamp.
//
// Parameters:
//   - now: the time the frame was drawn
//
// Returns:
//   - Stats: the report, valid only when ok is true
//   - bool: true if the update interval elapsed and a report was produced
func (p *Profiler) Tick(now time.Time) (Stats, bool) {
	p.frameCount++
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	stats := Stats{
		Frames:  p.frameCount,
		Elapsed: elapsed,
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		GCCount: p.memStats.NumGC,
	}
	if !p.quiet {
		log.Printf("[Profiler] FPS: %.2f | Frames: %d | Heap: %.2f MB | GC: %d",
			stats.FPS, stats.Frames, stats.HeapMB, stats.GCCount)
	}

	p.frameCount = 0
	p.lastTime = now
	return stats, true
}
