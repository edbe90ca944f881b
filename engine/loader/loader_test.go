package loader

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-mirror/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeMesh writes records and triangle indices in the .mesh layout.
func encodeMesh(t *testing.T, records []meshRecord, indices []uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, meshHeader{
		VertexCount:   uint32(len(records)),
		TriangleCount: uint32(len(indices) / 3),
	}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, records))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, indices))
	return buf.Bytes()
}

func triangle() []meshRecord {
	return []meshRecord{
		{X: 0, Y: 0, Z: 0, U: 0, V: 0, NX: 0, NY: 0, NZ: 1},
		{X: 1, Y: 0, Z: 0, U: 1, V: 0, NX: 0, NY: 0, NZ: 1},
		{X: 0, Y: 1, Z: 0, U: 0, V: 1, NX: 0, NY: 0, NZ: 1},
	}
}

func writeMesh(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.mesh")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadDecodesFieldOrder(t *testing.T) {
	path := writeMesh(t, encodeMesh(t, triangle(), []uint32{0, 1, 2}))

	mesh, err := NewLoader(BackendTypeMesh).Load(path)
	require.NoError(t, err)

	require.Len(t, mesh.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	assert.Equal(t, geometry.Vertex{
		Position: mgl32.Vec3{1, 0, 0},
		Normal:   mgl32.Vec3{0, 0, 1},
		TexC:     mgl32.Vec2{1, 0},
	}, mesh.Vertices[1])
}

func TestLoadCachesByPath(t *testing.T) {
	path := writeMesh(t, encodeMesh(t, triangle(), []uint32{0, 1, 2}))
	l := NewLoader(BackendTypeMesh)

	first, err := l.Load(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	second, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	cached, ok := l.Get(path)
	assert.True(t, ok)
	assert.Equal(t, first, cached)
	assert.Len(t, l.Meshes(), 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(BackendTypeMesh).Load(filepath.Join(t.TempDir(), "missing.mesh"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := NewLoader(BackendTypeMesh).Load("model.obj")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadTruncated(t *testing.T) {
	full := encodeMesh(t, triangle(), []uint32{0, 1, 2})

	for _, cut := range []int{0, 4, 8 + 32, len(full) - 1} {
		_, err := NewLoader(BackendTypeMesh).LoadReader("cut", bytes.NewReader(full[:cut]))
		assert.ErrorIs(t, err, ErrTruncated, "cut at %d", cut)
	}
}

func TestLoadIndexOutOfRange(t *testing.T) {
	data := encodeMesh(t, triangle(), []uint32{0, 1, 3})

	_, err := NewLoader(BackendTypeMesh).LoadReader("bad", bytes.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds vertex count")
}

func TestLoadHeaderOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, meshHeader{VertexCount: maxMeshElements + 1}))

	_, err := NewLoader(BackendTypeMesh).LoadReader("huge", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestLoadGeneratesMissingNormals(t *testing.T) {
	records := triangle()
	for i := range records {
		records[i].NX, records[i].NY, records[i].NZ = 0, 0, 0
	}
	records = append(records, meshRecord{X: 5, Y: 5, Z: 5})

	mesh, err := NewLoader(BackendTypeMesh).LoadReader("flat", bytes.NewReader(encodeMesh(t, records, []uint32{0, 1, 2})))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1, mesh.Vertices[i].Normal.Z(), 1e-6)
	}
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, mesh.Vertices[3].Normal)
}

func TestWithMeshPreloadsCache(t *testing.T) {
	want := geometry.MeshData[geometry.Vertex]{Indices: []uint32{0, 0, 0}, Vertices: make([]geometry.Vertex, 1)}
	l := NewLoader(BackendTypeMesh, WithMesh("builtin.mesh", want))

	got, err := l.Load("builtin.mesh")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
