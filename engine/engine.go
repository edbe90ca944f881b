// Package engine runs the demo's loops: the render goroutine that drives the frame,
// a fixed-rate tick goroutine, and the window message pump on the caller's goroutine.
package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-mirror/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mirror/engine/window"
)

// Frame is what the render loop drives. *orchestrator.Orchestrator implements it.
type Frame interface {
	// Update advances the frame state by dt seconds.
	Update(dt float32) error

	// Draw records and presents one frame.
	Draw() error

	// Resize reconfigures the frame for a new surface size.
	Resize(width, height int)
}

// Engine owns the goroutines of a running demo.
type Engine interface {
	// Profiler returns the scope profiler the frame reports into.
	Profiler() *profiler.Profiler

	// FrameStats returns the frame rate tracker ticked after every draw.
	FrameStats() *profiler.FrameStats

	// Resize queues a surface size for the render goroutine. Only the latest pending
	// size is kept and non-positive sizes (a minimized window) are dropped.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	Resize(width, height int)

	// Run starts the loops and blocks until the window closes or Quit is called. With
	// a window the message pump runs on the calling goroutine.
	Run()

	// Quit stops the loops and asks the window to close. Safe to call more than once
	// and from any goroutine.
	Quit()
}

type surfaceSize struct {
	width, height int
}

type engine struct {
	window window.Window
	frame  Frame

	profiler *profiler.Profiler
	stats    *profiler.FrameStats

	tickInterval  time.Duration
	onTick        func(dt float32)
	frameInterval time.Duration // 0 = uncapped

	resizes  chan surfaceSize
	quit     chan struct{}
	quitOnce sync.Once
	wg       sync.WaitGroup
}

var _ Engine = &engine{}

// NewEngine creates an engine. WithFrame is required. Resizes reported by the window
// are routed to the render goroutine.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine, not yet running
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickInterval: time.Second / 60,
		resizes:      make(chan surfaceSize, 1),
		quit:         make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.frame == nil {
		panic("engine: failed to create engine: no frame")
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}
	if e.stats == nil {
		e.stats = profiler.NewFrameStats()
	}
	if e.window != nil {
		e.window.SetResizeCallback(e.Resize)
	}
	return e
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) FrameStats() *profiler.FrameStats {
	return e.stats
}

func (e *engine) Run() {
	e.wg.Add(2)
	go e.tickLoop()
	go e.renderLoop()

	if e.window != nil {
		e.window.ProcessMessages()
		e.stop()
	}
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.stop()
	if e.window != nil {
		e.window.RequestClose()
	}
}

func (e *engine) stop() {
	e.quitOnce.Do(func() { close(e.quit) })
}

func (e *engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	size := surfaceSize{width: width, height: height}
	for {
		select {
		case e.resizes <- size:
			return
		default:
		}
		// Full: drop the stale size and retry.
		select {
		case <-e.resizes:
		default:
		}
	}
}

// tickLoop calls the tick callback at the configured rate with the measured delta.
func (e *engine) tickLoop() {
	defer e.wg.Done()
	if e.onTick == nil {
		<-e.quit
		return
	}

	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-e.quit:
			return
		case now := <-ticker.C:
			e.onTick(float32(now.Sub(last).Seconds()))
			last = now
		}
	}
}

// renderLoop is the only goroutine that touches the GPU. A pending resize is applied
// before the next frame. Frame errors are logged and the loop continues; a panic is
// logged and stops the engine.
func (e *engine) renderLoop() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.Quit()
		}
	}()

	last := time.Now()
	for {
		select {
		case <-e.quit:
			return
		case size := <-e.resizes:
			e.frame.Resize(size.width, size.height)
			continue
		default:
		}

		start := time.Now()
		e.renderFrame(float32(start.Sub(last).Seconds()))
		last = start

		if wait := e.frameInterval - time.Since(start); e.frameInterval > 0 && wait > 0 {
			time.Sleep(wait)
		}
	}
}

func (e *engine) renderFrame(dt float32) {
	if err := e.frame.Update(dt); err != nil {
		log.Printf("[Engine] update failed: %v", err)
	}
	if err := e.frame.Draw(); err != nil {
		log.Printf("[Engine] draw failed: %v", err)
	}
	e.profiler.MarkFrame()
	e.stats.Tick()
}
