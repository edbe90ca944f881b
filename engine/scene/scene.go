// Package scene describes the demo's fixed set of drawables: their world matrices,
// materials and procedurally generated textures.
package scene

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-mirror/engine/geometry"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// ColumnCount is the number of cylinders, and of spheres, in the scene.
const ColumnCount = 10

// GridTiling is how many times the grid texture repeats across the grid.
const GridTiling = 30

// Texture labels, also used as material names.
const (
	LabelBox      = "box"
	LabelGrid     = "grid"
	LabelSphere   = "sphere"
	LabelCylinder = "cylinder"
	LabelMesh     = "mesh"
)

// TextureFactory creates GPU textures from images.
type TextureFactory interface {
	CreateTexture(label string, img image.Image) (renderer.Texture, error)
}

// Drawable is one draw of the scene: which geometry range, where, and with what material.
// Gizmo drawables have no material.
type Drawable struct {
	Name     string
	Object   geometry.ObjectName
	World    mgl32.Mat4
	Material *material.Material
}

// Scene holds the demo's drawables. It is owned by the render goroutine; only the
// mesh world matrix changes after construction.
type Scene struct {
	Box       Drawable
	Cylinders [ColumnCount]Drawable
	Mesh      Drawable
	Spheres   [ColumnCount]Drawable
	Grid      Drawable

	WireBox Drawable
	Axis    Drawable

	textures map[string]renderer.Texture
}

// New generates the scene's textures, uploads them through factory and builds the drawables.
//
// Parameters:
//   - factory: creates the GPU textures
//   - opts: variadic list of SceneBuilderOption functions to configure the scene
//
// Returns:
//   - *Scene: the new scene
//   - error: the first texture creation failure
func New(factory TextureFactory, opts ...SceneBuilderOption) (*Scene, error) {
	cfg := newSceneConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	images := generateTextures(cfg)
	s := &Scene{textures: make(map[string]renderer.Texture, len(images))}
	for _, label := range []string{LabelBox, LabelGrid, LabelSphere, LabelCylinder, LabelMesh} {
		tex, err := factory.CreateTexture(label, images[label])
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("scene: failed to create %s texture: %w", label, err)
		}
		s.textures[label] = tex
	}

	gizmo := mgl32.Translate3D(0, 5, 0)
	s.WireBox = Drawable{Name: "wireBox", Object: geometry.WireBox, World: gizmo}
	s.Axis = Drawable{Name: "axis", Object: geometry.Axis, World: gizmo}

	s.Box = Drawable{
		Name:   LabelBox,
		Object: geometry.Box,
		World:  mgl32.Translate3D(0, 0.51, 0).Mul4(mgl32.Scale3D(2, 1, 2)),
		Material: material.NewMaterial(
			material.WithName(LabelBox),
			material.WithBlended(true),
			material.WithColors(gray(0.5), gray(1), specular(0.2)),
			material.WithProperty(material.PropertyReflect, material.Vector4Value{}),
			material.WithTexture(material.NewTextureValue(s.textures[LabelBox])),
		),
	}

	cylinderMat := material.NewMaterial(
		material.WithName(LabelCylinder),
		material.WithColors(gray(0.5), gray(1), specular(0.2)),
		material.WithProperty(material.PropertyReflect, material.Vector4Value{}),
		material.WithTexture(material.NewTextureValue(s.textures[LabelCylinder])),
	)
	sphereMat := material.NewMaterial(
		material.WithName(LabelSphere),
		material.WithBlended(true),
		material.WithColors(
			material.Vector4Value{0.6, 0.8, 0.9, 1},
			material.Vector4Value{0.6, 0.8, 0.9, 1},
			specular(0.9),
		),
		material.WithProperty(material.PropertyReflect, material.Vector4Value{}),
		material.WithTexture(material.NewTextureValue(s.textures[LabelSphere])),
	)
	for i := range ColumnCount / 2 {
		z := -10 + float32(i)*5
		for side, x := range [2]float32{-5, 5} {
			n := i*2 + side
			s.Cylinders[n] = Drawable{
				Name:     fmt.Sprintf("%s%d", LabelCylinder, n),
				Object:   geometry.Cylinder,
				World:    mgl32.Translate3D(x, 1.5, z),
				Material: cylinderMat,
			}
			s.Spheres[n] = Drawable{
				Name:     fmt.Sprintf("%s%d", LabelSphere, n),
				Object:   geometry.Sphere,
				World:    mgl32.Translate3D(x, 3.5, z),
				Material: sphereMat,
			}
		}
	}

	s.Mesh = Drawable{
		Name:   LabelMesh,
		Object: geometry.ImportedMesh,
		Material: material.NewMaterial(
			material.WithName(LabelMesh),
			material.WithColors(gray(0.8), gray(0.8), specular(0.8)),
			material.WithProperty(material.PropertyReflect, material.Vector4Value{}),
			material.WithTexture(material.NewTextureValue(s.textures[LabelMesh])),
		),
	}
	s.SetMeshRotation(cfg.meshRotation)

	gridTex := material.NewTextureValue(s.textures[LabelGrid])
	gridTex.Tiling = mgl32.Vec2{GridTiling, GridTiling}
	s.Grid = Drawable{
		Name:   LabelGrid,
		Object: geometry.Grid,
		World:  mgl32.Ident4(),
		Material: material.NewMaterial(
			material.WithName(LabelGrid),
			material.WithColors(gray(0.5), gray(1), specular(0.2)),
			material.WithProperty(material.PropertyReflect, material.Vector4Value{}),
			material.WithTexture(gridTex),
		),
	}

	return s, nil
}

// MeshWorld returns the imported mesh world matrix for a rotation: scaled to 0.2, rotated,
// then lifted to y = 1.
//
// Parameters:
//   - rotation: the mesh orientation
//
// Returns:
//   - mgl32.Mat4: the world matrix
func MeshWorld(rotation mgl32.Quat) mgl32.Mat4 {
	return mgl32.Translate3D(0, 1, 0).
		Mul4(rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(0.2, 0.2, 0.2))
}

// SetMeshRotation recomputes the imported mesh world matrix.
//
// Parameters:
//   - rotation: the mesh orientation
func (s *Scene) SetMeshRotation(rotation mgl32.Quat) {
	s.Mesh.World = MeshWorld(rotation)
}

// Direct returns the lit drawables in draw order: box, cylinders, mesh, spheres, grid.
//
// Returns:
//   - []*Drawable: pointers into the scene
func (s *Scene) Direct() []*Drawable {
	out := make([]*Drawable, 0, 3+2*ColumnCount)
	out = append(out, &s.Box)
	for i := range s.Cylinders {
		out = append(out, &s.Cylinders[i])
	}
	out = append(out, &s.Mesh)
	for i := range s.Spheres {
		out = append(out, &s.Spheres[i])
	}
	return append(out, &s.Grid)
}

// Texture returns the texture created for label, or nil.
func (s *Scene) Texture(label string) renderer.Texture {
	return s.textures[label]
}

// Release frees the scene's textures.
func (s *Scene) Release() {
	for label, tex := range s.textures {
		tex.Release()
		delete(s.textures, label)
	}
}

// generateTextures builds every texture image in parallel.
func generateTextures(cfg *sceneConfig) map[string]image.Image {
	size := cfg.textureSize
	jobs := map[string]func() image.Image{
		LabelBox: func() image.Image { return CrateTexture(size) },
		LabelGrid: func() image.Image {
			return CheckerTexture(size, 2, color.RGBA{235, 235, 235, 255}, color.RGBA{70, 78, 92, 255})
		},
		LabelSphere: func() image.Image {
			return GradientTexture(size, color.RGBA{255, 255, 255, 255}, color.RGBA{120, 170, 230, 255})
		},
		LabelCylinder: func() image.Image {
			return StripeTexture(size, 8, color.RGBA{196, 92, 64, 255}, color.RGBA{228, 200, 170, 255})
		},
		LabelMesh: func() image.Image { return SolidTexture(color.RGBA{255, 255, 255, 255}) },
	}

	out := make(map[string]image.Image, len(jobs))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	pool := worker.NewDynamicWorkerPool(cfg.workers, 16, time.Second)
	defer geometry.StopPool(pool, cfg.workers)
	taskID := 0
	for label, job := range jobs {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				img := job()
				mu.Lock()
				out[label] = img
				mu.Unlock()
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()
	return out
}

func gray(v float32) material.Vector4Value {
	return material.Vector4Value{v, v, v, 1}
}

// specular returns a specular reflectance with the demo's power of 16 in w.
func specular(v float32) material.Vector4Value {
	return material.Vector4Value{v, v, v, 16}
}
