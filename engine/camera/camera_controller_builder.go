package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the initial orbit radius (distance from target).
//
// Parameters:
//   - radius: distance from the orbit target
//
// Returns:
//   - CameraControllerOption: functional option to set the radius
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithRadiusLimits sets the zoom range.
//
// Parameters:
//   - minRadius: closest allowed distance
//   - maxRadius: farthest allowed distance
//
// Returns:
//   - CameraControllerOption: functional option to set the limits
func WithRadiusLimits(minRadius, maxRadius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = minRadius
		cc.maxRadius = maxRadius
	}
}

// WithAzimuth sets the initial angle around the Y axis.
//
// Parameters:
//   - azimuth: angle in radians (0 = +X axis)
//
// Returns:
//   - CameraControllerOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
	}
}

// WithPolar sets the initial angle from +Y.
//
// Parameters:
//   - polar: angle in radians (0 = straight down from above)
//
// Returns:
//   - CameraControllerOption: functional option to set the polar angle
func WithPolar(polar float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.polar = polar
	}
}

// WithTarget sets the look-at/pivot point.
//
// Parameters:
//   - target: the pivot
//
// Returns:
//   - CameraControllerOption: functional option to set the target position
func WithTarget(target mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithZoomSpeed sets the radius change per scroll step.
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithOrbitSensitivity sets the rotation in radians per pixel of drag.
func WithOrbitSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbitSensitivity = sensitivity
	}
}
