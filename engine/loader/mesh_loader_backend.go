package loader

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-mirror/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// maxMeshElements bounds the counts read from a mesh header so a corrupt file cannot
// request an arbitrarily large allocation.
const maxMeshElements = 1 << 24

// ErrTruncated is returned when a mesh stream ends before the counts in its header are satisfied.
var ErrTruncated = errors.New("loader: truncated mesh data")

// meshHeader is the fixed 8-byte prefix of a .mesh file.
type meshHeader struct {
	VertexCount   uint32
	TriangleCount uint32
}

// meshRecord is one on-disk vertex: position, texture coordinate, then normal.
type meshRecord struct {
	X, Y, Z    float32
	U, V       float32
	NX, NY, NZ float32
}

// meshLoaderBackend decodes the little-endian binary .mesh format.
type meshLoaderBackend struct{}

var _ loaderBackend = &meshLoaderBackend{}

func newMeshLoaderBackend() loaderBackend {
	return &meshLoaderBackend{}
}

func (b *meshLoaderBackend) Load(path string) (geometry.MeshData[geometry.Vertex], error) {
	f, err := os.Open(path)
	if err != nil {
		return geometry.MeshData[geometry.Vertex]{}, errors.Wrap(err, "loader: failed to open mesh")
	}
	defer f.Close()

	return b.LoadReader(bufio.NewReader(f))
}

func (b *meshLoaderBackend) LoadReader(r io.Reader) (geometry.MeshData[geometry.Vertex], error) {
	var header meshHeader
	if err := readLE(r, &header, "header"); err != nil {
		return geometry.MeshData[geometry.Vertex]{}, err
	}
	if header.VertexCount > maxMeshElements || header.TriangleCount > maxMeshElements {
		return geometry.MeshData[geometry.Vertex]{}, errors.Errorf("loader: mesh header out of range (%d vertices, %d triangles)",
			header.VertexCount, header.TriangleCount)
	}

	records := make([]meshRecord, header.VertexCount)
	if err := readLE(r, records, "vertices"); err != nil {
		return geometry.MeshData[geometry.Vertex]{}, err
	}

	indices := make([]uint32, header.TriangleCount*3)
	if err := readLE(r, indices, "indices"); err != nil {
		return geometry.MeshData[geometry.Vertex]{}, err
	}
	for i, idx := range indices {
		if idx >= header.VertexCount {
			return geometry.MeshData[geometry.Vertex]{}, errors.Errorf("loader: index %d at position %d exceeds vertex count %d",
				idx, i, header.VertexCount)
		}
	}

	vertices := make([]geometry.Vertex, len(records))
	hasNormals := false
	for i, rec := range records {
		vertices[i] = geometry.Vertex{
			Position: mgl32.Vec3{rec.X, rec.Y, rec.Z},
			Normal:   mgl32.Vec3{rec.NX, rec.NY, rec.NZ},
			TexC:     mgl32.Vec2{rec.U, rec.V},
		}
		hasNormals = hasNormals || vertices[i].Normal != (mgl32.Vec3{})
	}

	if !hasNormals {
		generateNormals(vertices, indices)
	}

	return geometry.MeshData[geometry.Vertex]{Vertices: vertices, Indices: indices}, nil
}

// readLE decodes data in little-endian order, reporting a short read as ErrTruncated.
func readLE(r io.Reader, data any, section string) error {
	err := binary.Read(r, binary.LittleEndian, data)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return errors.Wrapf(ErrTruncated, "reading %s", section)
	default:
		return errors.Wrapf(err, "loader: failed to read %s", section)
	}
}

// generateNormals computes smooth per-vertex normals by accumulating area-weighted face
// normals from the index topology. Vertices touched by no triangle get +Y.
//
// Parameters:
//   - vertices: the vertex slice to fill, modified in place
//   - indices: the triangle list indices
func generateNormals(vertices []geometry.Vertex, indices []uint32) {
	n := len(vertices)
	accum := make([]mgl32.Vec3, n)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}

		p0, p1, p2 := vertices[i0].Position, vertices[i1].Position, vertices[i2].Position

		// length proportional to triangle area
		faceNormal := p1.Sub(p0).Cross(p2.Sub(p0))

		for _, idx := range []uint32{i0, i1, i2} {
			accum[idx] = accum[idx].Add(faceNormal)
		}
	}

	for i := range n {
		if accum[i].Len() < 1e-6 {
			vertices[i].Normal = mgl32.Vec3{0, 1, 0}
			continue
		}
		vertices[i].Normal = accum[i].Normalize()
	}
}
