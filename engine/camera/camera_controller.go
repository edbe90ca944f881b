package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// DragMode selects what a mouse drag does to the orbit.
type DragMode int

const (
	// DragNone means no button is held.
	DragNone DragMode = iota
	// DragOrbit rotates around the target.
	DragOrbit
	// DragZoom moves toward or away from the target.
	DragZoom
)

// CameraController owns the camera's positional state. The camera reads from it
// each frame and builds its view matrix.
//
// The orbit is spherical: the polar angle is measured from +Y and the azimuth
// sweeps the XZ plane starting at +X.
type CameraController interface {
	// Position returns the world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: the target
	Target() mgl32.Vec3

	// SetTarget moves the pivot and recomputes the eye position.
	//
	// Parameters:
	//   - target: the new pivot
	SetTarget(target mgl32.Vec3)

	// Radius returns the distance from the target.
	Radius() float32

	// SetRadius sets the distance from the target, clamped to the radius limits.
	//
	// Parameters:
	//   - radius: the new radius
	SetRadius(radius float32)

	// Azimuth returns the angle around Y in radians.
	Azimuth() float32

	// SetAzimuth sets the angle around Y in radians.
	SetAzimuth(azimuth float32)

	// Polar returns the angle from +Y in radians.
	Polar() float32

	// SetPolar sets the angle from +Y, clamped away from the poles.
	SetPolar(polar float32)

	// Orbit rotates the eye around the target.
	//
	// Parameters:
	//   - dAzimuth: change in azimuth in radians
	//   - dPolar: change in polar angle in radians
	Orbit(dAzimuth, dPolar float32)

	// Zoom moves the eye toward the target. Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// BeginDrag starts a mouse drag at the given cursor position.
	//
	// Parameters:
	//   - mode: what the drag does
	//   - x, y: cursor position in pixels
	BeginDrag(mode DragMode, x, y int32)

	// EndDrag stops the current drag.
	EndDrag()

	// MouseMove applies cursor motion to the active drag, if any.
	//
	// Parameters:
	//   - x, y: cursor position in pixels
	MouseMove(x, y int32)

	// Scroll zooms by a wheel delta.
	//
	// Parameters:
	//   - delta: wheel offset, positive away from the user
	Scroll(delta float32)
}

type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	radius  float32
	azimuth float32
	polar   float32

	minRadius float32
	maxRadius float32
	minPolar  float32
	maxPolar  float32

	// radians per pixel of drag
	orbitSensitivity float32
	// radius units per pixel of drag
	dragZoomSpeed float32
	// radius units per wheel step
	zoomSpeed float32

	drag      DragMode
	lastMouse [2]int32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller looking at the origin.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		radius:  12,
		azimuth: 1.24 * math.Pi,
		polar:   0.42 * math.Pi,

		minRadius: 3,
		maxRadius: 200,
		minPolar:  0.1,
		maxPolar:  math.Pi - 0.1,

		orbitSensitivity: mgl32.DegToRad(0.25),
		dragZoomSpeed:    0.05,
		zoomSpeed:        1,
	}

	for _, option := range options {
		option(cc)
	}

	cc.clamp()
	cc.updatePosition()
	return cc
}

// clamp keeps radius and polar inside their limits. Caller must hold the mutex.
func (cc *cameraControllerImpl) clamp() {
	cc.radius = mgl32.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.polar = mgl32.Clamp(cc.polar, cc.minPolar, cc.maxPolar)
}

// updatePosition recomputes the eye from the spherical coordinates. Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	sinP, cosP := math.Sincos(float64(cc.polar))
	sinA, cosA := math.Sincos(float64(cc.azimuth))
	r := float64(cc.radius)

	cc.position = cc.target.Add(mgl32.Vec3{
		float32(r * sinP * cosA),
		float32(r * cosP),
		float32(r * sinP * sinA),
	})
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = radius
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Polar() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.polar
}

func (cc *cameraControllerImpl) SetPolar(polar float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.polar = polar
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Orbit(dAzimuth, dPolar float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.orbit(dAzimuth, dPolar)
}

func (cc *cameraControllerImpl) orbit(dAzimuth, dPolar float32) {
	cc.azimuth += dAzimuth
	cc.polar += dPolar
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius -= delta * cc.zoomSpeed
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) BeginDrag(mode DragMode, x, y int32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.drag = mode
	cc.lastMouse = [2]int32{x, y}
}

func (cc *cameraControllerImpl) EndDrag() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.drag = DragNone
}

func (cc *cameraControllerImpl) MouseMove(x, y int32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	dx := float32(x - cc.lastMouse[0])
	dy := float32(y - cc.lastMouse[1])
	cc.lastMouse = [2]int32{x, y}

	switch cc.drag {
	case DragOrbit:
		cc.orbit(cc.orbitSensitivity*dx, cc.orbitSensitivity*dy)
	case DragZoom:
		cc.radius += cc.dragZoomSpeed * (dx - dy)
		cc.clamp()
		cc.updatePosition()
	}
}

func (cc *cameraControllerImpl) Scroll(delta float32) {
	cc.Zoom(delta)
}
