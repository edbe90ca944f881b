package geometry

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMesh() MeshData[Vertex] {
	return MeshData[Vertex]{
		Vertices: []Vertex{
			{Position: mgl32.Vec3{0, 0, 0}},
			{Position: mgl32.Vec3{1, 0, 0}},
			{Position: mgl32.Vec3{0, 1, 0}},
		},
		Indices: []uint32{0, 1, 2},
	}
}

func TestBuildConcatenatesInOrder(t *testing.T) {
	p, err := Build(WithWorkers(3), WithMesh(func() (MeshData[Vertex], error) { return testMesh(), nil }))
	require.NoError(t, err)

	var vertexOffset int32
	var indexOffset uint32
	for _, name := range SceneObjects {
		r, err := p.Range(name)
		require.NoError(t, err, name)
		assert.Equal(t, vertexOffset, r.VertexOffset, name)
		assert.Equal(t, indexOffset, r.IndexOffset, name)
		vertexOffset += int32(r.VertexCount)
		indexOffset += r.IndexCount
	}
	assert.Len(t, p.Scene().Vertices, int(vertexOffset))
	assert.Len(t, p.Scene().Indices, int(indexOffset))

	box, _ := p.Range(Box)
	assert.Equal(t, Range{VertexOffset: 0, VertexCount: 24, IndexOffset: 0, IndexCount: 36}, box)

	mesh, _ := p.Range(ImportedMesh)
	assert.Equal(t, uint32(3), mesh.VertexCount)
	assert.Equal(t, uint32(3), mesh.IndexCount)

	wireBox, err := p.GetRange(WireBox)
	require.NoError(t, err)
	assert.Equal(t, Range{VertexOffset: 0, VertexCount: 8, IndexOffset: 0, IndexCount: 24}, wireBox)

	axis, err := p.GetRange(Axis)
	require.NoError(t, err)
	assert.Equal(t, int32(8), axis.VertexOffset)
	assert.Equal(t, uint32(24), axis.IndexOffset)
	assert.Len(t, p.Gizmo().Indices, int(axis.IndexOffset+axis.IndexCount))

	assert.Len(t, p.SceneEdges(), 2*len(p.Scene().Indices))
}

func TestBuildIndicesStayLocal(t *testing.T) {
	p, err := Build()
	require.NoError(t, err)

	for _, name := range SceneObjects {
		r, err := p.Range(name)
		require.NoError(t, err)
		for _, idx := range p.Scene().Indices[r.IndexOffset : r.IndexOffset+r.IndexCount] {
			assert.Less(t, idx, r.VertexCount, name)
		}
	}
}

func TestBuildWithoutMesh(t *testing.T) {
	p, err := Build()
	require.NoError(t, err)

	r, err := p.Range(ImportedMesh)
	require.NoError(t, err)
	assert.Zero(t, r.IndexCount)
	assert.Zero(t, r.VertexCount)
}

func TestBuildMeshError(t *testing.T) {
	boom := errors.New("boom")
	p, err := Build(WithMesh(func() (MeshData[Vertex], error) { return MeshData[Vertex]{}, boom }))

	assert.Nil(t, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "mesh")
}

func TestRangeUnknownObject(t *testing.T) {
	p, err := Build()
	require.NoError(t, err)

	_, err = p.Range("teapot")
	assert.ErrorIs(t, err, ErrUnknownObject)
}

func TestBytesViews(t *testing.T) {
	mesh := testMesh()
	assert.Len(t, mesh.VertexBytes(), 3*32)
	assert.Len(t, mesh.IndexBytes(), 3*4)

	gizmo := CreateWireBox(1, 1, 1, red)
	assert.Len(t, gizmo.VertexBytes(), 8*28)
}

func TestBuildStopsItsWorkers(t *testing.T) {
	before := runtime.NumGoroutine()
	for range 3 {
		_, err := Build(WithWorkers(4))
		require.NoError(t, err)
	}
	_, err := Build(WithWorkers(4), WithMesh(func() (MeshData[Vertex], error) { return MeshData[Vertex]{}, errors.New("boom") }))
	require.Error(t, err)

	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= before }, time.Second, 10*time.Millisecond,
		"worker goroutines outlived Build")
}

func TestStopPoolIdleWorkers(t *testing.T) {
	before := runtime.NumGoroutine()
	pool := worker.NewDynamicWorkerPool(8, 16, time.Second)
	require.Greater(t, runtime.NumGoroutine(), before)

	StopPool(pool, 8)
	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= before }, time.Second, 10*time.Millisecond)
}
