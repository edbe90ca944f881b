package scene

import (
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
)

type sceneConfig struct {
	textureSize  int
	workers      int
	meshRotation mgl32.Quat
}

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(c *sceneConfig)

func newSceneConfig() *sceneConfig {
	return &sceneConfig{
		textureSize:  256,
		workers:      min(runtime.NumCPU(), 5),
		meshRotation: mgl32.QuatIdent(),
	}
}

// WithTextureSize sets the edge length of the generated textures.
//
// Parameters:
//   - size: edge length in pixels, values below 8 are ignored
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTextureSize(size int) SceneBuilderOption {
	return func(c *sceneConfig) {
		if size >= 8 {
			c.textureSize = size
		}
	}
}

// WithWorkers sets the number of goroutines generating textures.
//
// Parameters:
//   - n: the worker count, values below 1 are ignored
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWorkers(n int) SceneBuilderOption {
	return func(c *sceneConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithMeshRotation sets the initial orientation of the imported mesh.
func WithMeshRotation(q mgl32.Quat) SceneBuilderOption {
	return func(c *sceneConfig) {
		c.meshRotation = q
	}
}
