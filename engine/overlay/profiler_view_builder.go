package overlay

import "github.com/Carmen-Shannon/oxy-mirror/engine/profiler"

// ProfilerViewBuilderOption is a function that configures a ProfilerView during construction.
type ProfilerViewBuilderOption func(*ProfilerView)

// WithProfiler sets the CPU profiler whose report is shown in CPU mode.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - ProfilerViewBuilderOption: a function that applies the profiler option
func WithProfiler(p *profiler.Profiler) ProfilerViewBuilderOption {
	return func(v *ProfilerView) {
		v.profiler = p
	}
}

// WithFrameStats sets the frame statistics shown in every mode.
//
// Parameters:
//   - s: the frame statistics tracker
//
// Returns:
//   - ProfilerViewBuilderOption: a function that applies the stats option
func WithFrameStats(s *profiler.FrameStats) ProfilerViewBuilderOption {
	return func(v *ProfilerView) {
		v.stats = s
	}
}

// WithDescription sets the function that describes the GPU, typically the device's
// Description method.
//
// Parameters:
//   - describe: the description source
//
// Returns:
//   - ProfilerViewBuilderOption: a function that applies the description option
func WithDescription(describe func() string) ProfilerViewBuilderOption {
	return func(v *ProfilerView) {
		v.describe = describe
	}
}

// WithViewFont sets the view font.
//
// Parameters:
//   - f: the font
//
// Returns:
//   - ProfilerViewBuilderOption: a function that applies the font option
func WithViewFont(f Font) ProfilerViewBuilderOption {
	return func(v *ProfilerView) {
		v.font = f
	}
}
