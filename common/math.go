package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Perspective creates a perspective projection matrix for WebGPU clip space, where depth maps to [0, 1].
// mgl32.Perspective targets the OpenGL [-1, 1] depth range and cannot be used directly.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)
	out := mgl32.Ident4()

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
	return out
}

// InverseTranspose returns the inverse-transpose of a world matrix for transforming normals.
// The translation is cleared first so it cannot leak into the w component of transformed normals.
//
// Parameters:
//   - m: the world matrix
//
// Returns:
//   - mgl32.Mat4: the inverse-transpose, or identity if m is singular
func InverseTranspose(m mgl32.Mat4) mgl32.Mat4 {
	m[12], m[13], m[14] = 0, 0, 0
	if m.Det() == 0 {
		return mgl32.Ident4()
	}
	return m.Inv().Transpose()
}

// TextureTransform builds the affine texture coordinate transform for a tiled, offset and rotated texture.
// Coordinates are scaled by tiling first, then rotated about +Z, then translated by offset.
//
// Parameters:
//   - tiling: the UV scale
//   - offset: the UV translation applied last
//   - degrees: the rotation angle in degrees
//
// Returns:
//   - mgl32.Mat4: the column-major transform (T * R * S)
func TextureTransform(tiling, offset mgl32.Vec2, degrees float32) mgl32.Mat4 {
	s := mgl32.Scale3D(tiling.X(), tiling.Y(), 1)
	r := mgl32.HomogRotate3DZ(mgl32.DegToRad(degrees))
	t := mgl32.Translate3D(offset.X(), offset.Y(), 0)
	return t.Mul4(r).Mul4(s)
}

// ReflectRay reflects a direction vector about a surface normal.
//
// Parameters:
//   - v: the incoming direction
//   - n: the unit surface normal
//
// Returns:
//   - mgl32.Vec3: v - 2(v·n)n
func ReflectRay(v, n mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// Coalesce returns the first argument that is not the zero value of its type, or the
// zero value when every argument is zero. Descriptor defaults use it.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
