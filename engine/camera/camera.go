package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-mirror/common"
	"github.com/go-gl/mathgl/mgl32"
)

// lens is the perspective projection: vertical field of view in radians and the clip planes.
type lens struct {
	fovY, near, far float32
}

var defaultLens = lens{fovY: 0.25 * math.Pi, near: 1, far: 1000}

// Camera turns the orbit controller's eye and target into view and projection
// matrices. The matrices change only on Update and Resize, so a frame reads one
// consistent set while input moves the controller.
type Camera interface {
	// Aspect returns width / height.
	Aspect() float32

	// EyePosition returns the eye of the last Update.
	EyePosition() mgl32.Vec3

	// View returns the world-to-eye matrix.
	View() mgl32.Mat4

	// Projection returns the perspective matrix with depth in [0, 1].
	Projection() mgl32.Mat4

	// ViewProjection returns Projection * View.
	ViewProjection() mgl32.Mat4

	// Controller returns the orbit controller driving the eye.
	Controller() CameraController

	// Update samples the controller and recomputes the matrices.
	Update()

	// Resize derives the aspect ratio from a surface size. Non-positive sizes are ignored.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	Resize(width, height int)
}

type cameraImpl struct {
	mu sync.Mutex

	lens       lens
	aspect     float32
	up         mgl32.Vec3
	controller CameraController

	eye        mgl32.Vec3
	view, proj mgl32.Mat4
	viewProj   mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera looking at the controller's target. A default orbit
// controller is attached unless WithController supplies one.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the camera, with matrices already computed
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		lens:   defaultLens,
		aspect: 1,
		up:     mgl32.Vec3{0, 1, 0},
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.recompute()
	return c
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) EyePosition() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) View() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) Projection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.proj
}

func (c *cameraImpl) ViewProjection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProj
}

// Controller is fixed at construction, no lock needed.
func (c *cameraImpl) Controller() CameraController {
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recompute()
}

func (c *cameraImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = float32(width) / float32(height)
	c.recompute()
}

// recompute requires c.mu, except during construction.
func (c *cameraImpl) recompute() {
	c.eye = c.controller.Position()
	c.view = mgl32.LookAtV(c.eye, c.controller.Target(), c.up)
	c.proj = common.Perspective(c.lens.fovY, c.aspect, c.lens.near, c.lens.far)
	c.viewProj = c.proj.Mul4(c.view)
}
