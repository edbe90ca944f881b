package renderer

import "github.com/cogentcore/webgpu/wgpu"

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// PresentModeFor maps the vsync toggle onto a present mode.
//
// Parameters:
//   - vsync: whether presentation waits for vertical blank
//
// Returns:
//   - PresentMode: PresentModeVSync or PresentModeUncapped
func PresentModeFor(vsync bool) PresentMode {
	if vsync {
		return PresentModeVSync
	}
	return PresentModeUncapped
}

func (m PresentMode) wgpu() wgpu.PresentMode {
	switch m {
	case PresentModeVSync:
		return wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		return wgpu.PresentModeImmediate
	}
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4, which are the only counts the device accepts.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing.
	MSAA4x MSAASampleCount = 4
)

// Valid reports whether the device can render with this sample count.
//
// Returns:
//   - bool: true for MSAAOff and MSAA4x
func (c MSAASampleCount) Valid() bool {
	return c == MSAAOff || c == MSAA4x
}

// GeometrySet selects which of the two static vertex/index buffer pairs draws read from.
type GeometrySet int

const (
	// GeometryScene is the lit scene geometry: box, grid, sphere, cylinder and the imported mesh.
	GeometryScene GeometrySet = iota

	// GeometryGizmo is the line geometry of the debug gizmos.
	GeometryGizmo
)

func (g GeometrySet) String() string {
	switch g {
	case GeometryScene:
		return "scene"
	case GeometryGizmo:
		return "gizmo"
	default:
		return "unknown"
	}
}
