package orchestrator

import (
	"github.com/Carmen-Shannon/oxy-mirror/engine/camera"
	"github.com/Carmen-Shannon/oxy-mirror/engine/light"
	"github.com/Carmen-Shannon/oxy-mirror/engine/overlay"
	"github.com/Carmen-Shannon/oxy-mirror/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-mirror/engine/scene"
	"github.com/Carmen-Shannon/oxy-mirror/engine/settings"
)

// OrchestratorBuilderOption is a function that supplies a collaborator to New.
type OrchestratorBuilderOption func(*Orchestrator)

// WithDevice sets the GPU command context frames are recorded against.
//
// Parameters:
//   - dev: the device
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the device option
func WithDevice(dev renderer.Device) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.dev = dev
	}
}

// WithGeometry sets where object ranges are looked up, normally the *geometry.Provider
// that was uploaded to the device.
//
// Parameters:
//   - ranges: the range source
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the geometry option
func WithGeometry(ranges RangeSource) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.ranges = ranges
	}
}

// WithEffects sets the lit effect used for the scene and the color effect used for gizmos.
//
// Parameters:
//   - basic: the lit effect
//   - color: the unlit vertex color effect
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the effects option
func WithEffects(basic, color effect.Effect) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.basic = basic
		o.color = color
	}
}

// WithRig sets the light rig.
//
// Parameters:
//   - rig: the rig owning the point light buffer
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the rig option
func WithRig(rig *light.Rig) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.rig = rig
	}
}

// WithCamera sets the camera.
func WithCamera(cam camera.Camera) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.cam = cam
	}
}

// WithSettings sets the runtime settings read once per frame.
func WithSettings(s *settings.Settings) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.settings = s
	}
}

// WithProfiler sets the profiler receiving the frame scopes. Without it a private
// profiler is used.
func WithProfiler(p *profiler.Profiler) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.prof = p
	}
}

// WithScene sets the drawables.
func WithScene(s *scene.Scene) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.scene = s
	}
}

// WithConsole sets the overlay drawn first whenever it is active.
//
// Parameters:
//   - console: the console overlay
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the console option
func WithConsole(console Overlay) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.console = console
	}
}

// WithProfilerView sets the overlay drawn when it is active and the console is not.
func WithProfilerView(view Overlay) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.view = view
	}
}

// WithHUD sets the heads-up line drawn when no other overlay is active.
func WithHUD(hud *overlay.HUD) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.hud = hud
	}
}

// WithCanvas sets the image overlays are drawn into before compositing.
func WithCanvas(canvas *overlay.Canvas) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.canvas = canvas
	}
}

// WithSize sets the initial surface size.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the size option
func WithSize(width, height int) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}
