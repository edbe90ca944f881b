package scene

import (
	"errors"
	"image"
	"image/color"
	"runtime"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-mirror/engine/geometry"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/renderertest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingFactory fails on the nth texture.
type failingFactory struct {
	inner   *renderertest.Recorder
	failAt  int
	created []renderer.Texture
}

func (f *failingFactory) CreateTexture(label string, img image.Image) (renderer.Texture, error) {
	if len(f.created) == f.failAt {
		return nil, errors.New("out of memory")
	}
	tex, err := f.inner.CreateTexture(label, img)
	f.created = append(f.created, tex)
	return tex, err
}

func newTestScene(t *testing.T, opts ...SceneBuilderOption) *Scene {
	t.Helper()
	s, err := New(renderertest.New(), append([]SceneBuilderOption{WithTextureSize(16)}, opts...)...)
	require.NoError(t, err)
	return s
}

func translation(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

func TestDirectOrder(t *testing.T) {
	s := newTestScene(t)
	direct := s.Direct()
	require.Len(t, direct, 2*ColumnCount+3)

	assert.Equal(t, geometry.Box, direct[0].Object)
	for i := 1; i <= ColumnCount; i++ {
		assert.Equal(t, geometry.Cylinder, direct[i].Object)
	}
	assert.Equal(t, geometry.ImportedMesh, direct[ColumnCount+1].Object)
	for i := ColumnCount + 2; i < 2*ColumnCount+2; i++ {
		assert.Equal(t, geometry.Sphere, direct[i].Object)
	}
	assert.Equal(t, geometry.Grid, direct[len(direct)-1].Object)
	assert.Same(t, &s.Grid, direct[len(direct)-1])
}

func TestColumnPlacement(t *testing.T) {
	s := newTestScene(t)
	for i := range ColumnCount / 2 {
		z := -10 + float32(i)*5
		assert.Equal(t, mgl32.Vec3{-5, 1.5, z}, translation(s.Cylinders[2*i].World))
		assert.Equal(t, mgl32.Vec3{5, 1.5, z}, translation(s.Cylinders[2*i+1].World))
		assert.Equal(t, mgl32.Vec3{-5, 3.5, z}, translation(s.Spheres[2*i].World))
		assert.Equal(t, mgl32.Vec3{5, 3.5, z}, translation(s.Spheres[2*i+1].World))
	}
}

func TestBoxAndGizmoWorlds(t *testing.T) {
	s := newTestScene(t)

	corner := s.Box.World.Mul4x1(mgl32.Vec4{0.5, 0.5, 0.5, 1})
	assert.InDelta(t, 1, corner.X(), 1e-6)
	assert.InDelta(t, 1.01, corner.Y(), 1e-6)
	assert.InDelta(t, 1, corner.Z(), 1e-6)

	assert.Equal(t, mgl32.Vec3{0, 5, 0}, translation(s.WireBox.World))
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, translation(s.Axis.World))
	assert.Nil(t, s.WireBox.Material)
	assert.Equal(t, mgl32.Ident4(), s.Grid.World)
}

func TestBlendedMaterials(t *testing.T) {
	s := newTestScene(t)
	assert.True(t, s.Box.Material.Blended)
	assert.True(t, s.Spheres[3].Material.Blended)
	assert.False(t, s.Cylinders[0].Material.Blended)
	assert.False(t, s.Mesh.Material.Blended)
	assert.False(t, s.Grid.Material.Blended)
}

func TestMaterialColors(t *testing.T) {
	s := newTestScene(t)

	p, ok := s.Spheres[0].Material.Property(material.PropertySpecular)
	require.True(t, ok)
	assert.Equal(t, material.Vector4Value{0.9, 0.9, 0.9, 16}, p.Value)

	p, ok = s.Mesh.Material.Property(material.PropertyAmbient)
	require.True(t, ok)
	assert.Equal(t, material.Vector4Value{0.8, 0.8, 0.8, 1}, p.Value)
}

func TestGridTextureTiles(t *testing.T) {
	s := newTestScene(t)
	p, ok := s.Grid.Material.Property(material.PropertyTextureDiffuse)
	require.True(t, ok)
	tex := p.Value.(material.TextureValue)
	assert.Equal(t, mgl32.Vec2{GridTiling, GridTiling}, tex.Tiling)
	assert.Same(t, s.Texture(LabelGrid), tex.Texture)

	p, ok = s.Box.Material.Property(material.PropertyTextureDiffuse)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec2{1, 1}, p.Value.(material.TextureValue).Tiling)
}

func TestMeshWorld(t *testing.T) {
	s := newTestScene(t)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, translation(s.Mesh.World))

	s.SetMeshRotation(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))
	p := s.Mesh.World.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, 1, p.Y(), 1e-5)
	assert.InDelta(t, -0.2, p.Z(), 1e-5)
}

func TestTexturesAreCreated(t *testing.T) {
	s := newTestScene(t, WithTextureSize(32))
	for _, label := range []string{LabelBox, LabelGrid, LabelSphere, LabelCylinder} {
		tex := s.Texture(label)
		require.NotNil(t, tex, label)
		w, h := tex.Size()
		assert.Equal(t, 32, w)
		assert.Equal(t, 32, h)
	}
	w, _ := s.Texture(LabelMesh).Size()
	assert.Equal(t, 1, w)

	s.Release()
	assert.Nil(t, s.Texture(LabelBox))
}

func TestTextureWorkersExit(t *testing.T) {
	before := runtime.NumGoroutine()
	for range 3 {
		newTestScene(t, WithWorkers(4)).Release()
	}
	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= before }, time.Second, 10*time.Millisecond)
}

func TestNewReleasesOnFailure(t *testing.T) {
	f := &failingFactory{inner: renderertest.New(), failAt: 2}
	_, err := New(f, WithTextureSize(8))
	require.Error(t, err)
	require.Len(t, f.created, 2)
	for _, tex := range f.created {
		assert.True(t, tex.(*renderertest.Texture).Released)
	}
}

func TestCheckerTexture(t *testing.T) {
	a := color.RGBA{255, 0, 0, 255}
	b := color.RGBA{0, 0, 255, 255}
	img := CheckerTexture(8, 2, a, b)
	assert.Equal(t, a, img.RGBAAt(0, 0))
	assert.Equal(t, b, img.RGBAAt(4, 0))
	assert.Equal(t, b, img.RGBAAt(0, 4))
	assert.Equal(t, a, img.RGBAAt(7, 7))
}

func TestStripeTexture(t *testing.T) {
	a := color.RGBA{1, 2, 3, 255}
	b := color.RGBA{4, 5, 6, 255}
	img := StripeTexture(8, 2, a, b)
	assert.Equal(t, a, img.RGBAAt(0, 7))
	assert.Equal(t, b, img.RGBAAt(2, 0))
	assert.Equal(t, a, img.RGBAAt(4, 3))
}

func TestGradientTexture(t *testing.T) {
	img := GradientTexture(5, color.RGBA{0, 0, 0, 255}, color.RGBA{200, 100, 0, 255})
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(3, 0))
	assert.Equal(t, color.RGBA{100, 50, 0, 255}, img.RGBAAt(3, 2))
	assert.Equal(t, color.RGBA{200, 100, 0, 255}, img.RGBAAt(0, 4))
}

func TestCrateTextureIsOpaque(t *testing.T) {
	img := CrateTexture(16)
	require.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
	for i := 3; i < len(img.Pix); i += 4 {
		assert.GreaterOrEqual(t, img.Pix[i], uint8(250))
	}
}
