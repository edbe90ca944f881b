// Package window opens the demo's GLFW window, exposes its WebGPU surface and turns
// GLFW input into plain callbacks.
package window

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"
)

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Window is the demo window: the surface the device presents into plus the input
// callbacks. Callbacks run on the goroutine that called NewWindow, inside ProcessMessages.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer size changes.
	// Minimizing reports a zero size.
	//
	// Parameters:
	//   - callback: function receiving the new framebuffer width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse wheel events.
	//
	// Parameters:
	//   - callback: function receiving the vertical wheel delta (positive = away from the user)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key presses. Auto-repeat calls it again
	// without a release in between.
	//
	// Parameters:
	//   - callback: function receiving the key code (GLFW values, see common.Key*)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key releases.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetCharCallback sets the callback for typed text, after keyboard layout and
	// modifiers are applied.
	//
	// Parameters:
	//   - callback: function receiving the typed character
	SetCharCallback(callback func(char rune))

	// SetMouseButtonCallback sets the callback for mouse button presses and releases.
	//
	// Parameters:
	//   - callback: function receiving the button, whether it was pressed, and the cursor position
	SetMouseButtonCallback(callback func(button MouseButton, pressed bool, x, y int32))

	// SetMouseMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in window pixels
	SetMouseMoveCallback(callback func(x, y int32))

	// SurfaceDescriptor returns the platform surface descriptor for creating the WebGPU
	// surface, or nil if the window is closed.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// RequestClose asks the message loop to stop. Safe to call from any goroutine.
	RequestClose()

	// Close destroys the window. Calls after the first return an error.
	//
	// Returns:
	//   - error: error if the window was already closed
	Close() error

	// ProcessMessages pumps window events until the window is asked to close.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels. Safe from any goroutine.
	Width() int

	// Height returns the current framebuffer height in pixels. Safe from any goroutine.
	Height() int
}

// callbacks holds the user handlers. They are set before ProcessMessages and only read
// on the window goroutine.
type callbacks struct {
	resize      func(width, height int)
	scroll      func(delta float32)
	keyDown     func(keyCode uint32)
	keyUp       func(keyCode uint32)
	char        func(char rune)
	mouseButton func(button MouseButton, pressed bool, x, y int32)
	mouseMove   func(x, y int32)
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	cfg *windowConfig
	on  callbacks

	width  atomic.Int32
	height atomic.Int32

	platform *glfwWindow
}

var _ Window = &engineWindow{}

// NewWindow opens the window. It locks the calling goroutine to its OS thread, which
// must be the main thread on macOS, and every later call except RequestClose, Width
// and Height must come from it.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	cfg := defaultWindowConfig()
	for _, opt := range options {
		opt(cfg)
	}

	runtime.LockOSThread()
	w := &engineWindow{cfg: cfg}
	w.width.Store(int32(cfg.width))
	w.height.Store(int32(cfg.height))
	if err := openPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("window: failed to create window: %v", err))
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.on.resize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.on.scroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.on.keyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.on.keyUp = callback
}

func (w *engineWindow) SetCharCallback(callback func(char rune)) {
	w.on.char = callback
}

func (w *engineWindow) SetMouseButtonCallback(callback func(button MouseButton, pressed bool, x, y int32)) {
	w.on.mouseButton = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y int32)) {
	w.on.mouseMove = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.platform == nil {
		return nil
	}
	return w.platform.surfaceDescriptor()
}

func (w *engineWindow) RequestClose() {
	if w.platform != nil {
		w.platform.requestClose()
	}
}

func (w *engineWindow) Close() error {
	if w.platform == nil {
		return fmt.Errorf("window: already closed")
	}
	w.platform.destroy()
	w.platform = nil
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.platform != nil && w.platform.poll() {
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return int(w.width.Load())
}

func (w *engineWindow) Height() int {
	return int(w.height.Load())
}

// setSize records a framebuffer size and reports it to the resize callback.
func (w *engineWindow) setSize(width, height int) {
	w.width.Store(int32(width))
	w.height.Store(int32(height))
	if w.on.resize != nil {
		w.on.resize(width, height)
	}
}
