package geometry

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ObjectName identifies a sub-range of one of the provider's buffers.
type ObjectName string

const (
	Box          ObjectName = "box"
	Grid         ObjectName = "grid"
	Sphere       ObjectName = "sphere"
	Cylinder     ObjectName = "cylinder"
	ImportedMesh ObjectName = "mesh"
	WireBox      ObjectName = "wireBox"
	Axis         ObjectName = "axis"
)

// SceneObjects lists the scene buffer objects in concatenation order.
var SceneObjects = []ObjectName{Box, Grid, Sphere, Cylinder, ImportedMesh}

// GizmoObjects lists the gizmo buffer objects in concatenation order.
var GizmoObjects = []ObjectName{WireBox, Axis}

// ErrUnknownObject is returned when a range is requested for a name the provider never built.
var ErrUnknownObject = errors.New("geometry: unknown object")

// Range locates one object inside a concatenated buffer. VertexOffset is the base vertex
// added to every index; IndexOffset and IndexCount select the indices to draw.
type Range struct {
	VertexOffset int32
	VertexCount  uint32
	IndexOffset  uint32
	IndexCount   uint32
}

var (
	red   = mgl32.Vec4{1, 0, 0, 1}
	green = mgl32.Vec4{0, 1, 0, 1}
)

// Provider owns the immutable scene and gizmo streams built at startup.
type Provider struct {
	scene      MeshData[Vertex]
	sceneEdges []uint32
	gizmo      MeshData[ColorVertex]
	ranges     map[ObjectName]Range
}

// Build generates every primitive in parallel, loads the imported mesh if a loader is set,
// and concatenates the results in the fixed object order.
//
// Parameters:
//   - opts: functional options for the build
//
// Returns:
//   - *Provider: the provider with both buffers populated
//   - error: the first generation or mesh loading failure
func Build(opts ...ProviderBuilderOption) (*Provider, error) {
	cfg := newProviderConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	sceneJobs := map[ObjectName]func() (MeshData[Vertex], error){
		Box:      func() (MeshData[Vertex], error) { return CreateBox(1, 1, 1), nil },
		Grid:     func() (MeshData[Vertex], error) { return CreateGrid(100, 100, 2, 2), nil },
		Sphere:   func() (MeshData[Vertex], error) { return CreateGeosphere(0.5, 3), nil },
		Cylinder: func() (MeshData[Vertex], error) { return CreateCylinder(0.5, 0.3, 3, 20, 20), nil },
		ImportedMesh: func() (MeshData[Vertex], error) {
			if cfg.loadMesh == nil {
				return MeshData[Vertex]{}, nil
			}
			return cfg.loadMesh()
		},
	}
	gizmoJobs := map[ObjectName]func() MeshData[ColorVertex]{
		WireBox: func() MeshData[ColorVertex] { return CreateWireBox(1, 1, 1, red) },
		Axis:    func() MeshData[ColorVertex] { return CreateWireSphere(0.5, 32, green) },
	}

	sceneParts := make(map[ObjectName]MeshData[Vertex], len(sceneJobs))
	gizmoParts := make(map[ObjectName]MeshData[ColorVertex], len(gizmoJobs))
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)

	pool := worker.NewDynamicWorkerPool(cfg.workers, 256, time.Second)
	defer StopPool(pool, cfg.workers)
	taskID := 0
	for name, job := range sceneJobs {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				mesh, err := job()
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if firstErr == nil {
						firstErr = errors.Wrapf(err, "geometry: failed to build %s", name)
					}
					return nil, err
				}
				sceneParts[name] = mesh
				return nil, nil
			},
		})
		taskID++
	}
	for name, job := range gizmoJobs {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				mesh := job()
				mu.Lock()
				gizmoParts[name] = mesh
				mu.Unlock()
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	p := &Provider{ranges: make(map[ObjectName]Range, len(SceneObjects)+len(GizmoObjects))}
	for _, name := range SceneObjects {
		p.ranges[name] = appendMesh(&p.scene, sceneParts[name])
	}
	for _, name := range GizmoObjects {
		p.ranges[name] = appendMesh(&p.gizmo, gizmoParts[name])
	}
	p.sceneEdges = TriangleEdges(p.scene.Indices)

	return p, nil
}

func appendMesh[V any](dst *MeshData[V], src MeshData[V]) Range {
	r := Range{
		VertexOffset: int32(len(dst.Vertices)),
		VertexCount:  uint32(len(src.Vertices)),
		IndexOffset:  uint32(len(dst.Indices)),
		IndexCount:   uint32(len(src.Indices)),
	}
	dst.Vertices = append(dst.Vertices, src.Vertices...)
	dst.Indices = append(dst.Indices, src.Indices...)
	return r
}

// Range returns where the named object lives in its buffer.
//
// Parameters:
//   - name: the object to look up
//
// Returns:
//   - Range: the object's offsets and counts
//   - error: ErrUnknownObject if the name was never built
func (p *Provider) Range(name ObjectName) (Range, error) {
	r, ok := p.ranges[name]
	if !ok {
		return Range{}, errors.Wrapf(ErrUnknownObject, "%q", name)
	}
	return r, nil
}

// GetRange is an alias of Range.
func (p *Provider) GetRange(name ObjectName) (Range, error) {
	return p.Range(name)
}

// Scene returns the concatenated lit geometry. The returned data must not be modified.
func (p *Provider) Scene() *MeshData[Vertex] {
	return &p.scene
}

// SceneEdges returns the line list for drawing the scene in wireframe. A triangle range
// (offset, count) in the scene index buffer maps to (2*offset, 2*count) in this stream.
func (p *Provider) SceneEdges() []uint32 {
	return p.sceneEdges
}

// Gizmo returns the concatenated gizmo line geometry. The returned data must not be modified.
func (p *Provider) Gizmo() *MeshData[ColorVertex] {
	return &p.gizmo
}

// StopPool ends every worker goroutine of a pool created with the given worker count and
// stops it. Workers of a DynamicWorkerPool only return on their own stop id and drop ids
// sent to their siblings, so each one is retired with a task that exits its goroutine.
// Call it once the pool's work is done.
//
// Parameters:
//   - pool: the pool to stop
//   - workers: the maxWorkers the pool was created with
func StopPool(pool worker.DynamicWorkerPool, workers int) {
	for i := range max(workers, 1) {
		pool.SubmitTask(worker.Task{
			ID: -1 - i,
			Do: func() (any, error) {
				runtime.Goexit()
				return nil, nil
			},
		})
	}
	pool.Stop()
}
