package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const standardTol = 1.0e-5

func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], standardTol, "component %d", i)
	}
}

func TestTextureTransformOrder(t *testing.T) {
	// 1,0 -> scale(2) = 2,0 -> rotate 90 = 0,2 -> trans 1,1 -> 1,3
	m := TextureTransform(mgl32.Vec2{2, 2}, mgl32.Vec2{1, 1}, 90)
	p := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 1, p.X(), standardTol)
	assert.InDelta(t, 3, p.Y(), standardTol)
}

func TestTextureTransformIdentity(t *testing.T) {
	m := TextureTransform(mgl32.Vec2{1, 1}, mgl32.Vec2{}, 0)
	assertMat4InDelta(t, mgl32.Ident4(), m)
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := float32(1), float32(1000)
	p := Perspective(mgl32.DegToRad(45), 16.0/9.0, near, far)

	n := p.Mul4x1(mgl32.Vec4{0, 0, -near, 1})
	f := p.Mul4x1(mgl32.Vec4{0, 0, -far, 1})
	assert.InDelta(t, 0, n.Z()/n.W(), standardTol)
	assert.InDelta(t, 1, f.Z()/f.W(), standardTol)
}

func TestPerspectiveAspectIsWidthOverHeight(t *testing.T) {
	p := Perspective(mgl32.DegToRad(90), 2, 1, 10)
	assert.InDelta(t, 0.5, p[0], standardTol)
	assert.InDelta(t, 1, p[5], standardTol)
}

func TestInverseTransposeIgnoresTranslation(t *testing.T) {
	w := mgl32.Translate3D(5, -3, 2).Mul4(mgl32.Scale3D(2, 1, 2))
	it := InverseTranspose(w)
	assert.InDelta(t, 0, it[12], standardTol)
	assert.InDelta(t, 0, it[13], standardTol)
	assert.InDelta(t, 0, it[14], standardTol)
	assert.InDelta(t, 0.5, it[0], standardTol)
	assert.InDelta(t, 1, it[5], standardTol)
}

func TestInverseTransposeSingular(t *testing.T) {
	assert.Equal(t, mgl32.Ident4(), InverseTranspose(mgl32.Scale3D(0, 1, 1)))
}

func assertMat4InDelta(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], standardTol, "element %d", i)
	}
}

func TestReflectRay(t *testing.T) {
	got := ReflectRay(mgl32.Vec3{1, -1, 0}, mgl32.Vec3{0, 1, 0})
	assertVec3InDelta(t, mgl32.Vec3{1, 1, 0}, got)
}

func TestPlaneReflectionIsInvolution(t *testing.T) {
	planes := []Plane{
		MirrorPlaneY,
		NewPlane(mgl32.Vec3{1, 1, 0}, -2),
		NewPlane(mgl32.Vec3{0, 0, 3}, 6),
	}
	points := []mgl32.Vec3{{0, 0, 0}, {1, 2, 3}, {-4, 0.5, 9}}

	for _, pl := range planes {
		r := pl.Reflection()
		assertMat4InDelta(t, mgl32.Ident4(), r.Mul4(r))
		for _, pt := range points {
			once := mgl32.TransformCoordinate(pt, r)
			assertVec3InDelta(t, pl.ReflectPoint(pt), once)
			assertVec3InDelta(t, pt, mgl32.TransformCoordinate(once, r))
		}
	}
}

func TestMirrorPlaneYFlipsHeight(t *testing.T) {
	got := MirrorPlaneY.ReflectPoint(mgl32.Vec3{1, 2, 3})
	assertVec3InDelta(t, mgl32.Vec3{1, -2, 3}, got)
	assert.InDelta(t, 2, MirrorPlaneY.SignedDistance(mgl32.Vec3{1, 2, 3}), standardTol)
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))
	b := SliceToBytes([]uint32{1, 2})
	require.Len(t, b, 8)
	assert.Equal(t, byte(1), b[0])
	assert.Equal(t, byte(2), b[4])
}

func TestSamplerByName(t *testing.T) {
	lin, ok := SamplerByName(SamplerLinear)
	require.True(t, ok)
	assert.Equal(t, uint16(1), lin.MaxAnisotropy)

	an, ok := SamplerByName(SamplerAnisotropic)
	require.True(t, ok)
	assert.Greater(t, an.MaxAnisotropy, uint16(1))

	_, ok = SamplerByName("nearest")
	assert.False(t, ok)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
