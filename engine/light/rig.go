package light

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/Carmen-Shannon/oxy-mirror/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// State is a snapshot of everything an effect needs to shade with the rig's lights.
type State struct {
	Directional      [DirectionalLightCount]DirectionalLight
	DirectionalCount int
	PointLightCount  int
	PointLights      Handle
}

// Rig owns the working point light records, the three directional lights and the
// dynamic buffer the active point lights are uploaded into.
type Rig struct {
	mu          *sync.Mutex
	buffer      *DynamicBuffer
	handle      Handle
	working     [MaxPointLights]PointLight
	directional [DirectionalLightCount]DirectionalLight
	dirCount    int
}

// ReflectionGuard is the scope of a mirrored light state opened by Rig.Reflect. The
// rig's lock is held until Restore is called.
type ReflectionGuard struct {
	rig      *Rig
	saved    [DirectionalLightCount]DirectionalLight
	restored bool
}

// OrbitPosition returns the animated position of point light i at time t. Lights
// circle the origin on rings of radius i+1 while bobbing around a height of 2.
//
// Parameters:
//   - i: the light index
//   - t: the animation timer
//
// Returns:
//   - mgl32.Vec3: the world-space position
func OrbitPosition(i int, t float32) mgl32.Vec3 {
	r := float32(i + 1)
	a := 2*float32(i) + math32.Pi + t
	return mgl32.Vec3{
		r * math32.Cos(a),
		2 + math32.Cos(t),
		r * math32.Sin(a),
	}
}

// NewRig creates a Rig backed by a new DynamicBuffer and allocates the initial
// active count.
//
// Parameters:
//   - allocator: the GPU storage allocator for the point light buffer
//   - opts: variadic list of RigBuilderOption functions to configure the rig
//
// Returns:
//   - *Rig: the new rig
func NewRig(allocator StorageAllocator, opts ...RigBuilderOption) *Rig {
	cfg := defaultRigConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	r := &Rig{
		mu:          &sync.Mutex{},
		buffer:      NewDynamicBuffer(allocator, MaxPointLights),
		directional: cfg.directional,
		dirCount:    cfg.directionalCount,
	}
	for i := range r.working {
		if i < len(cfg.pointLights) {
			r.working[i] = cfg.pointLights[i]
			continue
		}
		r.working[i] = NewPointLight(WithDiffuse(randomDiffuse(cfg.rand)))
	}

	if err := r.SetActiveCount(cfg.activeCount); err != nil {
		panic(fmt.Sprintf("light: failed to create rig: %v", err))
	}
	return r
}

// randomDiffuse picks a random saturated hue at full value.
func randomDiffuse(rnd *rand.Rand) mgl32.Vec4 {
	c := colorful.Hsv(rnd.Float64()*360, 0.5+0.5*rnd.Float64(), 1).Clamped()
	return mgl32.Vec4{float32(c.R), float32(c.G), float32(c.B), 1}
}

// SetActiveCount reallocates the point light buffer for n records and uploads the
// working records into it.
//
// Parameters:
//   - n: the new active count in [0, MaxPointLights]
//
// Returns:
//   - error: ErrCapacityExceeded if n is out of range, or an allocation error
func (r *Rig) SetActiveCount(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, err := r.buffer.SetActiveCount(n)
	if err != nil {
		return err
	}
	r.handle = h
	return r.upload(r.working[:n])
}

// ActiveCount returns the number of active point lights.
//
// Returns:
//   - int: the active count
func (r *Rig) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buffer.Count()
}

// SetDirectionalCount sets how many of the directional lights are shaded.
//
// Parameters:
//   - n: the count in [0, DirectionalLightCount]
//
// Returns:
//   - error: ErrCapacityExceeded if n is out of range
func (r *Rig) SetDirectionalCount(n int) error {
	if n < 0 || n > DirectionalLightCount {
		return fmt.Errorf("%w: requested %d directional lights", ErrCapacityExceeded, n)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirCount = n
	return nil
}

// Animate moves every active working record along its orbit and uploads the result.
//
// Parameters:
//   - timer: the animation timer
//
// Returns:
//   - error: error if the buffer could not be mapped
func (r *Rig) Animate(timer float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.buffer.Count()
	for i := 0; i < n; i++ {
		r.working[i].Position = OrbitPosition(i, timer)
	}
	return r.upload(r.working[:n])
}

// PointLights returns a copy of the active working records.
//
// Returns:
//   - []PointLight: the active records
func (r *Rig) PointLights() []PointLight {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]PointLight, r.buffer.Count())
	copy(out, r.working[:])
	return out
}

// State returns the current light state.
//
// Returns:
//   - State: the directional records, counts and point light buffer handle
func (r *Rig) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state()
}

// Reflect mirrors the light state across plane and returns the guard that restores it.
// The directional directions are reflected in place and the mirrored point light
// positions are uploaded while the working records stay untouched. The rig's lock is
// held until the guard is restored.
//
// Parameters:
//   - plane: the mirror plane
//
// Returns:
//   - *ReflectionGuard: the open guard
//   - error: error if the mirrored records could not be uploaded
func (r *Rig) Reflect(plane common.Plane) (*ReflectionGuard, error) {
	r.mu.Lock()

	g := &ReflectionGuard{rig: r, saved: r.directional}
	for i := range r.directional {
		r.directional[i] = r.directional[i].Reflected(plane.Normal)
	}

	n := r.buffer.Count()
	mirrored := make([]PointLight, n)
	for i := 0; i < n; i++ {
		mirrored[i] = r.working[i]
		mirrored[i].Position = plane.ReflectPoint(r.working[i].Position)
	}
	if err := r.upload(mirrored); err != nil {
		r.directional = g.saved
		g.restored = true
		r.mu.Unlock()
		return nil, err
	}
	return g, nil
}

// Release frees the point light buffer.
func (r *Rig) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buffer.Release()
	r.handle = Handle{}
}

// State returns the mirrored light state while the guard is open.
//
// Returns:
//   - State: the mirrored state
func (g *ReflectionGuard) State() State {
	return g.rig.state()
}

// Restore puts back the original directional directions, re-uploads the working
// point light records and releases the rig's lock. Calls after the first are no-ops.
//
// Returns:
//   - error: error if the working records could not be uploaded
func (g *ReflectionGuard) Restore() error {
	if g == nil || g.restored {
		return nil
	}
	g.restored = true

	r := g.rig
	defer r.mu.Unlock()

	r.directional = g.saved
	return r.upload(r.working[:r.buffer.Count()])
}

func (r *Rig) state() State {
	return State{
		Directional:      r.directional,
		DirectionalCount: r.dirCount,
		PointLightCount:  r.buffer.Count(),
		PointLights:      r.handle,
	}
}

// upload writes records into the buffer through a write view. Callers hold r.mu.
func (r *Rig) upload(records []PointLight) error {
	if len(records) == 0 {
		return nil
	}
	view, err := r.buffer.BeginUpdate()
	if err != nil {
		return err
	}
	for i := 0; i < view.Len() && i < len(records); i++ {
		view.Set(i, records[i])
	}
	return r.buffer.EndUpdate()
}
