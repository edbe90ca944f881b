package profiler

import "time"

// ProfilerBuilderOption is a function that configures a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithTicksPerMs sets the calibration used to convert End's tick counts to milliseconds.
// The default treats ticks as nanoseconds.
//
// Parameters:
//   - ticksPerMs: ticks in one millisecond, must be positive
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the calibration option
func WithTicksPerMs(ticksPerMs float64) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.ticksPerMs = ticksPerMs
	}
}

// WithClock replaces the time source used by Start and Stop.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the clock option
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// FrameStatsBuilderOption is a function that configures FrameStats during construction.
type FrameStatsBuilderOption func(*FrameStats)

// WithUpdateInterval sets how often the statistics are recomputed.
//
// Parameters:
//   - d: the interval
//
// Returns:
//   - FrameStatsBuilderOption: a function that applies the interval option
func WithUpdateInterval(d time.Duration) FrameStatsBuilderOption {
	return func(f *FrameStats) {
		if d > 0 {
			f.updateInterval = d
		}
	}
}

// WithLogging turns on the per-interval log line.
//
// Parameters:
//   - enabled: whether to log
//
// Returns:
//   - FrameStatsBuilderOption: a function that applies the logging option
func WithLogging(enabled bool) FrameStatsBuilderOption {
	return func(f *FrameStats) {
		f.logging = enabled
	}
}

// WithFrameClock replaces the time source of the tracker.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - FrameStatsBuilderOption: a function that applies the clock option
func WithFrameClock(now func() time.Time) FrameStatsBuilderOption {
	return func(f *FrameStats) {
		f.now = now
	}
}

// WithMemoryStats controls whether runtime memory statistics are read each interval.
//
// Parameters:
//   - enabled: whether to read memory statistics
//
// Returns:
//   - FrameStatsBuilderOption: a function that applies the memory option
func WithMemoryStats(enabled bool) FrameStatsBuilderOption {
	return func(f *FrameStats) {
		f.readMem = enabled
	}
}
