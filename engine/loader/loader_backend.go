package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-mirror/engine/geometry"
)

// loaderBackend defines the generic interface for loading meshes from files or streams.
// Concrete implementations (e.g., meshLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports a mesh from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - geometry.MeshData[geometry.Vertex]: the imported mesh
	//   - error: error if loading fails
	Load(path string) (geometry.MeshData[geometry.Vertex], error)

	// LoadReader imports a mesh from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing mesh data
	//
	// Returns:
	//   - geometry.MeshData[geometry.Vertex]: the imported mesh
	//   - error: error if loading fails
	LoadReader(r io.Reader) (geometry.MeshData[geometry.Vertex], error)
}
