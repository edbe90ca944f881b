package window

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the GLFW side of an engineWindow.
type glfwWindow struct {
	window *glfw.Window
}

var glfwButtons = map[glfw.MouseButton]MouseButton{
	glfw.MouseButtonLeft:   MouseButtonLeft,
	glfw.MouseButtonRight:  MouseButtonRight,
	glfw.MouseButtonMiddle: MouseButtonMiddle,
}

// openPlatformWindow initializes GLFW, creates a window without a client API (WebGPU
// owns the surface) and installs the input callbacks.
func openPlatformWindow(w *engineWindow) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	resizable := glfw.False
	if w.cfg.resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)

	win, err := glfw.CreateWindow(w.cfg.width, w.cfg.height, w.cfg.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.cfg.minWidth, w.cfg.minHeight, w.cfg.maxWidth, w.cfg.maxHeight)

	w.platform = &glfwWindow{window: win}
	installCallbacks(w, win)

	// The framebuffer is larger than the window on high-DPI displays; the surface needs pixels.
	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width.Store(int32(fbWidth))
	w.height.Store(int32(fbHeight))
	return nil
}

func installCallbacks(w *engineWindow, win *glfw.Window) {
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyUnknown {
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			if w.on.keyDown != nil {
				w.on.keyDown(uint32(key))
			}
		case glfw.Release:
			if w.on.keyUp != nil {
				w.on.keyUp(uint32(key))
			}
		}
	})

	win.SetCharCallback(func(_ *glfw.Window, char rune) {
		if w.on.char != nil {
			w.on.char(char)
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.on.scroll != nil {
			w.on.scroll(float32(yoff))
		}
	})

	win.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		b, ok := glfwButtons[button]
		if !ok || w.on.mouseButton == nil || action == glfw.Repeat {
			return
		}
		x, y := win.GetCursorPos()
		w.on.mouseButton(b, action == glfw.Press, int32(x), int32(y))
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.on.mouseMove != nil {
			w.on.mouseMove(int32(x), int32(y))
		}
	})

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.setSize(width, height)
	})
}

// surfaceDescriptor builds the per-platform surface descriptor through the wgpuglfw bridge.
func (g *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.window)
}

// requestClose flags the window to close. glfwSetWindowShouldClose is thread safe.
func (g *glfwWindow) requestClose() {
	g.window.SetShouldClose(true)
}

// poll handles pending events and reports whether the window should stay open.
func (g *glfwWindow) poll() bool {
	glfw.PollEvents()
	return !g.window.ShouldClose()
}

func (g *glfwWindow) destroy() {
	g.window.Destroy()
	glfw.Terminate()
}
