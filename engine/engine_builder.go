package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-mirror/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mirror/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
type EngineBuilderOption func(*engine)

// WithFrame sets the frame driven by the render loop. It is required.
//
// Parameters:
//   - f: the frame, normally an *orchestrator.Orchestrator
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrame(f Frame) EngineBuilderOption {
	return func(e *engine) {
		e.frame = f
	}
}

// WithWindow makes Run pump the window's messages and routes its resizes to the frame.
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithProfiler shares the scope profiler the frame reports into; the engine marks a
// frame boundary on it after every draw.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithFrameStats shares the frame rate tracker ticked after every draw.
func WithFrameStats(s *profiler.FrameStats) EngineBuilderOption {
	return func(e *engine) {
		e.stats = s
	}
}

// WithTickCallback runs callback on the tick goroutine at the tick rate.
//
// Parameters:
//   - callback: receives the seconds since the previous tick
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickCallback(callback func(dt float32)) EngineBuilderOption {
	return func(e *engine) {
		e.onTick = callback
	}
}

// WithTickRate sets how many times per second the tick callback runs. Non-positive
// rates keep the default of 60.
func WithTickRate(hz float64) EngineBuilderOption {
	return func(e *engine) {
		if hz > 0 {
			e.tickInterval = time.Duration(float64(time.Second) / hz)
		}
	}
}

// WithRenderFrameLimit caps the render loop at fps frames per second. 0 leaves it
// uncapped, which is the default.
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.frameInterval = 0
		if fps > 0 {
			e.frameInterval = time.Duration(float64(time.Second) / fps)
		}
	}
}
