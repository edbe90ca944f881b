package overlay

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-mirror/engine/profiler"
)

// ViewMode selects what the profiler view shows.
type ViewMode int

const (
	ViewOff ViewMode = iota
	ViewCPU
	ViewFrame
)

func (m ViewMode) String() string {
	switch m {
	case ViewCPU:
		return "cpu"
	case ViewFrame:
		return "frame"
	default:
		return "off"
	}
}

// ProfilerView shows the system and frame statistics block and, in CPU mode, the
// hierarchical CPU report.
type ProfilerView struct {
	mu       *sync.Mutex
	mode     ViewMode
	font     Font
	profiler *profiler.Profiler
	stats    *profiler.FrameStats
	describe func() string
}

// NewProfilerView creates a hidden profiler view.
//
// Parameters:
//   - opts: variadic list of ProfilerViewBuilderOption functions to configure the view
//
// Returns:
//   - *ProfilerView: the new view
func NewProfilerView(opts ...ProfilerViewBuilderOption) *ProfilerView {
	v := &ProfilerView{
		mu:   &sync.Mutex{},
		font: DefaultFont(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Cycle steps through off, CPU and frame modes.
func (v *ProfilerView) Cycle() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode = (v.mode + 1) % (ViewFrame + 1)
}

// Mode returns the current mode.
func (v *ProfilerView) Mode() ViewMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// Active reports whether the view is shown.
func (v *ProfilerView) Active() bool {
	return v.Mode() != ViewOff
}

// StatsText returns the system and frame statistics block.
func (v *ProfilerView) StatsText() string {
	var b strings.Builder
	if v.describe != nil {
		fmt.Fprintf(&b, " GPU : %s\n", v.describe())
	}
	if v.stats != nil {
		s := v.stats.Stats()
		fmt.Fprintf(&b, "FPS : %.0f (Min:%.0f - Max:%.0f)\n", s.FPS, s.MinFPS, s.MaxFPS)
		fmt.Fprintf(&b, "Time/Frame : %.3f ms (frame %d)", s.MsPerFrame, s.TotalFrames)
		if v.Mode() == ViewFrame {
			fmt.Fprintf(&b, "\nHeap : %.2f MB\nSys : %.2f MB", s.HeapMB, s.SysMB)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Draw renders the view. Nothing is drawn while it is off.
//
// Parameters:
//   - r: the overlay renderer
//   - width: the window width
func (v *ProfilerView) Draw(r Renderer, width int) {
	mode := v.Mode()
	if mode == ViewOff {
		return
	}

	stats := v.StatsText()
	r.DrawText(v.font, stats, image.Pt(20, 20), Yellow)

	if mode == ViewCPU && v.profiler != nil {
		top := 20 + v.font.Measure(stats).Y + v.font.LineHeight
		r.DrawText(v.font, v.profiler.String(), image.Pt(20, top), White)
	}
}
