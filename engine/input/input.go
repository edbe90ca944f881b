// Package input maps keyboard events onto the runtime settings, the console and the
// profiler view. Key actions are edge triggered: holding a key acts once.
package input

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-mirror/common"
	"github.com/Carmen-Shannon/oxy-mirror/engine/light"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/states"
	"github.com/Carmen-Shannon/oxy-mirror/engine/settings"
)

// Console is the part of the console the controller drives.
type Console interface {
	Toggle()
	Active() bool
	HandleChar(r rune)
	HandleKey(key int)
}

// ProfilerView is the part of the profiler view the controller drives.
type ProfilerView interface {
	Cycle()
}

// Controller translates key presses into settings changes. While the console is open
// every key except the console toggle goes to the console instead.
type Controller struct {
	mu       *sync.Mutex
	down     map[uint32]bool
	settings *settings.Settings
	console  Console
	view     ProfilerView
	onQuit   func()
}

// NewController creates a controller editing s.
//
// Parameters:
//   - s: the settings the key map edits
//   - opts: variadic list of ControllerBuilderOption functions to configure the controller
//
// Returns:
//   - *Controller: the new controller
func NewController(s *settings.Settings, opts ...ControllerBuilderOption) *Controller {
	if s == nil {
		panic("input: failed to create controller: nil settings")
	}
	c := &Controller{
		mu:       &sync.Mutex{},
		down:     make(map[uint32]bool),
		settings: s,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// KeyDown handles a key press or auto-repeat.
//
// Parameters:
//   - key: the key code
func (c *Controller) KeyDown(key uint32) {
	c.mu.Lock()
	repeat := c.down[key]
	c.down[key] = true
	c.mu.Unlock()

	if key == common.KeyGraveAccent {
		if !repeat && c.console != nil {
			c.console.Toggle()
		}
		return
	}

	if c.console != nil && c.console.Active() {
		// Editing keys auto-repeat inside the console.
		if !repeat || key == common.KeyBackspace {
			c.console.HandleKey(int(key))
		}
		return
	}
	if repeat {
		return
	}
	c.press(key)
}

// KeyUp handles a key release.
//
// Parameters:
//   - key: the key code
func (c *Controller) KeyUp(key uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.down, key)
}

// Char forwards typed text to the console while it is open.
//
// Parameters:
//   - r: the typed character
func (c *Controller) Char(r rune) {
	if c.console != nil && c.console.Active() {
		c.console.HandleChar(r)
	}
}

func (c *Controller) press(key uint32) {
	switch key {
	case common.KeyEsc:
		if c.onQuit != nil {
			c.onQuit()
		}
		return
	case common.KeyF1:
		if c.view != nil {
			c.view.Cycle()
		}
		return
	case common.KeyF5:
		if err := c.settings.Save(); err != nil {
			log.Printf("[Settings] save failed: %v", err)
			return
		}
		log.Printf("[Settings] saved %s", c.settings.Path())
		return
	}

	c.settings.Update(func(v *settings.Values) {
		switch key {
		case common.Key0, common.Key1, common.Key2, common.Key3:
			v.DirLightCount = int(key - common.Key0)
		case common.KeyKPAdd, common.KeyEqual:
			v.PointLightCount = min(v.PointLightCount+1, light.MaxPointLights)
		case common.KeyKPSubtract, common.KeyMinus:
			v.PointLightCount = max(v.PointLightCount-1, 0)
		case common.KeyS:
			v.Rasterizer = states.RasterSolid
		case common.KeyA:
			v.Sampler = common.SamplerAnisotropic
		case common.KeyL:
			v.Sampler = common.SamplerLinear
		case common.KeyU:
			v.Blend = states.BlendFactor
		case common.KeyI:
			v.Blend = states.BlendAlphaToCoverage
		case common.KeyO:
			v.Blend = states.BlendTransparent
		case common.KeyP:
			v.Blend = states.BlendOpaque
		case common.KeyW:
			v.SetWireframe(!v.Wireframe)
		case common.KeyR:
			v.DrawReflections = !v.DrawReflections
		case common.KeyF:
			v.Fog.Enabled = !v.Fog.Enabled
		case common.KeyT:
			v.UseTexture = !v.UseTexture
		case common.KeyB:
			v.UseBlending = !v.UseBlending
		case common.KeyV:
			v.VSync = !v.VSync
		case common.KeyM:
			if v.MSAA == renderer.MSAA4x {
				v.MSAA = renderer.MSAAOff
			} else {
				v.MSAA = renderer.MSAA4x
			}
		}
	})
}
