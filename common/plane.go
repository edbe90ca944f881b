package common

import "github.com/go-gl/mathgl/mgl32"

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the unit normal and d is the signed offset from the origin.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// MirrorPlaneY is the xz ground plane (y = 0) used as the mirror surface.
var MirrorPlaneY = Plane{Normal: mgl32.Vec3{0, 1, 0}, Distance: 0}

// NewPlane creates a Plane from a normal and offset. The normal is normalized and the offset
// rescaled so the plane equation is unchanged.
//
// Parameters:
//   - normal: the plane normal (any length except zero)
//   - distance: the d term of the plane equation
//
// Returns:
//   - Plane: the normalized plane
func NewPlane(normal mgl32.Vec3, distance float32) Plane {
	l := normal.Len()
	if l == 0 {
		return Plane{Normal: normal, Distance: distance}
	}
	return Plane{Normal: normal.Mul(1 / l), Distance: distance / l}
}

// SignedDistance returns the signed distance from a point to the plane.
//
// Parameters:
//   - p: the point to test
//
// Returns:
//   - float32: positive on the side the normal points to
func (p Plane) SignedDistance(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.Distance
}

// Reflection returns the affine matrix that mirrors points across the plane.
// The matrix is its own inverse.
//
// Returns:
//   - mgl32.Mat4: the column-major reflection matrix
func (p Plane) Reflection() mgl32.Mat4 {
	a, b, c, d := p.Normal.X(), p.Normal.Y(), p.Normal.Z(), p.Distance
	return mgl32.Mat4{
		1 - 2*a*a, -2 * a * b, -2 * a * c, 0,
		-2 * a * b, 1 - 2*b*b, -2 * b * c, 0,
		-2 * a * c, -2 * b * c, 1 - 2*c*c, 0,
		-2 * a * d, -2 * b * d, -2 * c * d, 1,
	}
}

// ReflectPoint mirrors a point across the plane.
//
// Parameters:
//   - pt: the point to mirror
//
// Returns:
//   - mgl32.Vec3: the mirrored point
func (p Plane) ReflectPoint(pt mgl32.Vec3) mgl32.Vec3 {
	return pt.Sub(p.Normal.Mul(2 * p.SignedDistance(pt)))
}
