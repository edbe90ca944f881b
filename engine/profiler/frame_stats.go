package profiler

import (
	"log"
	"math"
	"runtime"
	"sync"
	"time"
)

// Stats is a snapshot of the frame statistics.
type Stats struct {
	FPS         float64
	MinFPS      float64
	MaxFPS      float64
	MsPerFrame  float64
	TotalFrames int64
	HeapMB      float64
	SysMB       float64
}

// FrameStats tracks frame rate and memory statistics for performance monitoring.
// Stats are recomputed once per update interval and optionally written to the log.
type FrameStats struct {
	mu             *sync.Mutex
	frameCount     int
	totalFrames    int64
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	logging        bool
	now            func() time.Time
	readMem        bool
	stats          Stats
}

// NewFrameStats creates a new FrameStats with default settings.
// Update interval defaults to 1 second and logging is off.
//
// Parameters:
//   - opts: variadic list of FrameStatsBuilderOption functions to configure the tracker
//
// Returns:
//   - *FrameStats: the newly created tracker
func NewFrameStats(opts ...FrameStatsBuilderOption) *FrameStats {
	f := &FrameStats{
		mu:             &sync.Mutex{},
		updateInterval: time.Second,
		now:            time.Now,
		readMem:        true,
		stats:          Stats{MinFPS: math.Inf(1)},
	}
	for _, opt := range opts {
		opt(f)
	}
	f.lastTime = f.now()
	return f
}

// SetLogging turns the per-interval log line on or off.
func (f *FrameStats) SetLogging(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logging = enabled
}

// Tick should be called once per frame to track frame timing.
// Recomputes the statistics when the update interval has elapsed. The log line includes:
// FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were recomputed this tick, false otherwise
func (f *FrameStats) Tick() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.frameCount++
	f.totalFrames++
	f.stats.TotalFrames = f.totalFrames
	currentTime := f.now()
	elapsed := currentTime.Sub(f.lastTime)

	if elapsed < f.updateInterval {
		return false
	}

	fps := float64(f.frameCount) / elapsed.Seconds()
	f.stats.FPS = fps
	f.stats.MinFPS = math.Min(f.stats.MinFPS, fps)
	f.stats.MaxFPS = math.Max(f.stats.MaxFPS, fps)
	f.stats.MsPerFrame = elapsed.Seconds() * 1000 / float64(f.frameCount)

	var allocRateMB float64
	var gcCount uint32
	var lastPauseUs, maxPauseUs uint64
	if f.readMem {
		runtime.ReadMemStats(&f.memStats)
		// Alloc: Bytes of allocated heap objects (live memory)
		// Sys: Total bytes of memory obtained from the OS (actual process footprint)
		f.stats.HeapMB = float64(f.memStats.Alloc) / 1024 / 1024
		f.stats.SysMB = float64(f.memStats.Sys) / 1024 / 1024

		allocDelta := f.memStats.TotalAlloc - f.lastTotalAlloc
		allocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

		gcCount = f.memStats.NumGC
		if gcCount > 0 {
			// PauseNs is a circular buffer of last 256 GC pauses
			lastPauseUs = f.memStats.PauseNs[(gcCount-1)%256] / 1000

			startIdx := f.lastGCCount
			if gcCount-startIdx > 256 {
				startIdx = gcCount - 256
			}
			for i := startIdx; i < gcCount; i++ {
				maxPauseUs = max(maxPauseUs, f.memStats.PauseNs[i%256]/1000)
			}
		}
		f.lastGCCount = gcCount
		f.lastTotalAlloc = f.memStats.TotalAlloc
	}

	if f.logging {
		log.Printf("[Profiler] FPS: %.2f (min %.2f, max %.2f) | %.3f ms/frame | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
			fps, f.stats.MinFPS, f.stats.MaxFPS, f.stats.MsPerFrame, f.stats.HeapMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, f.stats.SysMB)
	}

	f.frameCount = 0
	f.lastTime = currentTime
	return true
}

// Stats returns the statistics of the last completed interval. MinFPS is 0 until the
// first interval completes.
//
// Returns:
//   - Stats: the snapshot
func (f *FrameStats) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.stats
	if math.IsInf(s.MinFPS, 1) {
		s.MinFPS = 0
	}
	return s
}
