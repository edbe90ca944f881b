// Package geometry generates the static scene and gizmo meshes and concatenates them into
// the immutable vertex and index streams the renderer draws from.
package geometry

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-mirror/common"
	"github.com/go-gl/mathgl/mgl32"
)

// VertexSource is the canonical WGSL definition of the VertexInput struct.
// Matches the Vertex layout exactly (32 bytes).
//
//go:embed assets/vertex.wgsl
var VertexSource string

// ColorVertexSource is the canonical WGSL definition of the ColorVertexInput struct.
// Matches the ColorVertex layout exactly (28 bytes).
//
//go:embed assets/color_vertex.wgsl
var ColorVertexSource string

// Vertex is a lit, textured vertex.
type Vertex struct {
	Position mgl32.Vec3 // offset  0
	Normal   mgl32.Vec3 // offset 12
	TexC     mgl32.Vec2 // offset 24
}

// ColorVertex is an unlit vertex with a per-vertex color, used by gizmos.
type ColorVertex struct {
	Position mgl32.Vec3 // offset  0
	Color    mgl32.Vec4 // offset 12
}

// MeshData is an indexed triangle or line list.
type MeshData[V any] struct {
	Vertices []V
	Indices  []uint32
}

// VertexBytes returns the vertex stream as bytes for GPU upload.
//
// Returns:
//   - []byte: a view of the vertex slice
func (m *MeshData[V]) VertexBytes() []byte {
	return common.SliceToBytes(m.Vertices)
}

// IndexBytes returns the index stream as bytes for GPU upload.
//
// Returns:
//   - []byte: a view of the index slice
func (m *MeshData[V]) IndexBytes() []byte {
	return common.SliceToBytes(m.Indices)
}

// TriangleEdges converts a triangle list index stream into a line list that draws the
// three edges of every triangle. Triangle t at index offset 3t maps to line indices
// starting at 6t, so any triangle range converts by doubling its offset and count.
//
// Parameters:
//   - indices: the triangle list indices
//
// Returns:
//   - []uint32: the line list indices
func TriangleEdges(indices []uint32) []uint32 {
	out := make([]uint32, 0, len(indices)*2)
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		out = append(out, a, b, b, c, c, a)
	}
	return out
}
