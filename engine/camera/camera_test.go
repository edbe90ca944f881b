package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d: want %v got %v", i, want, got)
	}
}

func TestSphericalPosition(t *testing.T) {
	cc := NewCameraController(WithRadius(10), WithAzimuth(0), WithPolar(math.Pi/2))
	assertVecNear(t, mgl32.Vec3{10, 0, 0}, cc.Position())

	cc.SetAzimuth(math.Pi / 2)
	assertVecNear(t, mgl32.Vec3{0, 0, 10}, cc.Position())

	cc.SetTarget(mgl32.Vec3{1, 2, 3})
	assertVecNear(t, mgl32.Vec3{1, 2, 13}, cc.Position())
}

func TestPolarIsClampedAwayFromPoles(t *testing.T) {
	cc := NewCameraController()
	cc.SetPolar(0)
	assert.InDelta(t, 0.1, cc.Polar(), 1e-6)
	cc.SetPolar(math.Pi)
	assert.InDelta(t, math.Pi-0.1, cc.Polar(), 1e-6)
	assert.Greater(t, cc.Position().Y(), float32(-cc.Radius()))
}

func TestZoomIsClamped(t *testing.T) {
	cc := NewCameraController(WithRadius(10), WithRadiusLimits(5, 20), WithZoomSpeed(1))

	cc.Zoom(3)
	assert.Equal(t, float32(7), cc.Radius())
	cc.Zoom(100)
	assert.Equal(t, float32(5), cc.Radius())
	cc.Scroll(-100)
	assert.Equal(t, float32(20), cc.Radius())
}

func TestLeftDragOrbits(t *testing.T) {
	cc := NewCameraController(WithAzimuth(0), WithPolar(1), WithOrbitSensitivity(0.01))

	cc.MouseMove(50, 50)
	assert.Zero(t, cc.Azimuth(), "moves without a drag are ignored")

	cc.BeginDrag(DragOrbit, 100, 100)
	cc.MouseMove(110, 95)
	assert.InDelta(t, 0.1, cc.Azimuth(), 1e-6)
	assert.InDelta(t, 0.95, cc.Polar(), 1e-6)

	cc.EndDrag()
	cc.MouseMove(200, 200)
	assert.InDelta(t, 0.1, cc.Azimuth(), 1e-6)
}

func TestRightDragZooms(t *testing.T) {
	cc := NewCameraController(WithRadius(10))
	cc.BeginDrag(DragZoom, 0, 0)
	cc.MouseMove(20, 0)
	assert.InDelta(t, 11, cc.Radius(), 1e-5)
	cc.MouseMove(20, 40)
	assert.InDelta(t, 9, cc.Radius(), 1e-5)
}

func TestCameraResizeSetsAspect(t *testing.T) {
	c := NewCamera()
	c.Resize(1600, 800)
	assert.Equal(t, float32(2), c.Aspect())

	c.Resize(800, 0)
	assert.Equal(t, float32(2), c.Aspect(), "zero height is ignored")
}

func TestCameraMatricesFollowController(t *testing.T) {
	cc := NewCameraController(WithRadius(10), WithAzimuth(0), WithPolar(math.Pi/2))
	c := NewCamera(WithController(cc), WithAspect(1))
	assertVecNear(t, mgl32.Vec3{10, 0, 0}, c.EyePosition())

	// the target lands in the middle of the screen
	clip := c.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-5)
	assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-5)
	depth := clip.Z() / clip.W()
	assert.True(t, depth > 0 && depth < 1, "depth %f", depth)

	cc.Zoom(2)
	assert.InDelta(t, 10, c.EyePosition().X(), 1e-5, "eye waits for Update")
	c.Update()
	assert.InDelta(t, 8, c.EyePosition().X(), 1e-5)
	assert.Equal(t, c.Projection().Mul4(c.View()), c.ViewProjection())
}

func TestNewCameraAttachesDefaultController(t *testing.T) {
	c := NewCamera()
	assert.NotNil(t, c.Controller())
	assert.InDelta(t, 12, c.EyePosition().Len(), 1e-4)
}

func TestWithLensRejectsInvalidPlanes(t *testing.T) {
	c := NewCamera(WithLens(1, 10, 5)).(*cameraImpl)
	assert.Equal(t, defaultLens, c.lens)

	c = NewCamera(WithLens(1, 0.5, 50)).(*cameraImpl)
	assert.Equal(t, lens{fovY: 1, near: 0.5, far: 50}, c.lens)
}

func TestWithTargetMovesPivot(t *testing.T) {
	target := mgl32.Vec3{0, 2, 0}
	cc := NewCameraController(WithTarget(target), WithRadius(5), WithAzimuth(0), WithPolar(math.Pi/2))
	assert.Equal(t, target, cc.Target())
	assertVecNear(t, mgl32.Vec3{5, 2, 0}, cc.Position())
}
