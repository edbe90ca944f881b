package camera

// CameraBuilderOption configures a camera during construction.
type CameraBuilderOption func(*cameraImpl)

// WithLens replaces the default perspective of 45 degrees over [1, 1000]. Invalid
// lenses (non-positive field of view, or far not beyond a positive near) are ignored.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - near: distance to the near clip plane
//   - far: distance to the far clip plane
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithLens(fovY, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if fovY > 0 && near > 0 && far > near {
			c.lens = lens{fovY: fovY, near: near, far: far}
		}
	}
}

// WithAspect sets the starting aspect ratio (width / height) until the first Resize.
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithController drives the camera from ctrl instead of a default orbit controller.
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
