package geometry

import "runtime"

type providerConfig struct {
	workers  int
	loadMesh func() (MeshData[Vertex], error)
}

// ProviderBuilderOption configures Build.
type ProviderBuilderOption func(*providerConfig)

func newProviderConfig() *providerConfig {
	return &providerConfig{
		workers: min(runtime.NumCPU(), len(SceneObjects)+len(GizmoObjects)),
	}
}

// WithWorkers sets the number of workers used to generate geometry.
//
// Parameters:
//   - n: the worker count, values below 1 are ignored
//
// Returns:
//   - ProviderBuilderOption: the option
func WithWorkers(n int) ProviderBuilderOption {
	return func(c *providerConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithMesh sets the function that produces the imported mesh. It runs on a worker
// alongside the generators. Without it the imported mesh range is empty.
//
// Parameters:
//   - load: returns the mesh or a loading error
//
// Returns:
//   - ProviderBuilderOption: the option
func WithMesh(load func() (MeshData[Vertex], error)) ProviderBuilderOption {
	return func(c *providerConfig) {
		c.loadMesh = load
	}
}
