// Package renderertest provides a recording renderer.Device for tests. Every call is
// appended to a log in call order; Apply snapshots the effect's uniform blocks and
// resources so tests can inspect exactly what each draw was issued with.
package renderertest

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/Carmen-Shannon/oxy-mirror/engine/geometry"
	"github.com/Carmen-Shannon/oxy-mirror/engine/light"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/states"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Op names recorded in Call.Op.
const (
	OpClear           = "Clear"
	OpSetTopology     = "SetTopology"
	OpSetGeometry     = "SetGeometry"
	OpSetRasterizer   = "SetRasterizer"
	OpSetBlend        = "SetBlend"
	OpSetDepthStencil = "SetDepthStencil"
	OpApply           = "Apply"
	OpDrawIndexed     = "DrawIndexed"
	OpComposite       = "Composite"
	OpPresent         = "Present"
	OpWriteStorage    = "WriteStorage"
	OpReleaseStorage  = "ReleaseStorage"
)

// Call is one recorded device call. Only the fields relevant to Op are set.
type Call struct {
	Op        string
	Name      string
	Color     color.RGBA
	Factor    mgl32.Vec4
	Range     geometry.Range
	Blocks    map[string][]byte
	Resources map[string]effect.Resource
	Data      []byte
	VSync     bool
}

// Texture is the recorder's texture handle.
type Texture struct {
	Name          string
	Width, Height int
	Released      bool
}

func (t *Texture) Label() string    { return t.Name }
func (t *Texture) Size() (int, int) { return t.Width, t.Height }
func (t *Texture) Release()         { t.Released = true }

// Sampler is the recorder's sampler handle.
type Sampler struct {
	SamplerName string
}

func (s *Sampler) Name() string { return s.SamplerName }

// Storage is a recorded light storage allocation. Data holds the last write.
type Storage struct {
	rec      *Recorder
	Label    string
	Bytes    uint64
	Data     []byte
	Writes   int
	Released bool
}

func (s *Storage) Write(data []byte) {
	s.Data = append(s.Data[:0], data...)
	s.Writes++
	s.rec.record(Call{Op: OpWriteStorage, Name: s.Label, Data: append([]byte(nil), data...)})
}

func (s *Storage) Size() uint64 { return s.Bytes }

func (s *Storage) Release() {
	s.Released = true
	s.rec.record(Call{Op: OpReleaseStorage, Name: s.Label})
}

// Recorder is a renderer.Device that records calls instead of drawing.
type Recorder struct {
	mu sync.Mutex

	calls    []Call
	storages []*Storage
	frame    bool

	sampleCount renderer.MSAASampleCount
	width       int
	height      int
	uploaded    *geometry.Provider

	// FailOp makes the named op return FailErr once it has been reached FailAfter times.
	FailOp    string
	FailAfter int
	FailErr   error
	failCount int
}

var _ renderer.Device = &Recorder{}

// New returns an empty recorder with MSAA off.
func New() *Recorder {
	return &Recorder{sampleCount: renderer.MSAAOff}
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *Recorder) fail(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailOp != op {
		return nil
	}
	r.failCount++
	if r.failCount > r.FailAfter {
		if r.FailErr != nil {
			return r.FailErr
		}
		return fmt.Errorf("renderertest: %s failed", op)
	}
	return nil
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Ops returns the op names of the recorded calls in order.
func (r *Recorder) Ops() []string {
	calls := r.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

// Filter returns the recorded calls with the given op.
func (r *Recorder) Filter(op string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears the call log. Allocated storages are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Storages returns every storage allocated so far, released ones included.
func (r *Recorder) Storages() []*Storage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Storage(nil), r.storages...)
}

// Uploaded returns the provider passed to UploadGeometry.
func (r *Recorder) Uploaded() *geometry.Provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uploaded
}

// Size returns the size passed to the last Resize.
func (r *Recorder) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Recorder) AllocateStorage(label string, size uint64) (light.Storage, error) {
	if err := r.fail("AllocateStorage"); err != nil {
		return nil, err
	}
	s := &Storage{rec: r, Label: label, Bytes: size}
	r.mu.Lock()
	r.storages = append(r.storages, s)
	r.mu.Unlock()
	return s, nil
}

func (r *Recorder) UploadGeometry(p *geometry.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploaded = p
	return nil
}

func (r *Recorder) CreateTexture(label string, img image.Image) (renderer.Texture, error) {
	b := img.Bounds()
	return &Texture{Name: label, Width: b.Dx(), Height: b.Dy()}, nil
}

func (r *Recorder) Sampler(name string) (renderer.Sampler, error) {
	return &Sampler{SamplerName: name}, nil
}

func (r *Recorder) Clear(c color.RGBA) error {
	if err := r.fail(OpClear); err != nil {
		return err
	}
	r.mu.Lock()
	r.frame = true
	r.mu.Unlock()
	r.record(Call{Op: OpClear, Color: c})
	return nil
}

func (r *Recorder) SetTopology(t wgpu.PrimitiveTopology) {
	name := "triangle-list"
	if t == wgpu.PrimitiveTopologyLineList {
		name = "line-list"
	}
	r.record(Call{Op: OpSetTopology, Name: name})
}

func (r *Recorder) SetGeometry(g renderer.GeometrySet) {
	r.record(Call{Op: OpSetGeometry, Name: g.String()})
}

func (r *Recorder) SetRasterizer(name states.RasterizerName) error {
	if _, err := states.Rasterizer(name); err != nil {
		return err
	}
	r.record(Call{Op: OpSetRasterizer, Name: string(name)})
	return nil
}

func (r *Recorder) SetBlend(name states.BlendName, factor mgl32.Vec4) error {
	if _, err := states.Blend(name); err != nil {
		return err
	}
	r.record(Call{Op: OpSetBlend, Name: string(name), Factor: factor})
	return nil
}

func (r *Recorder) SetDepthStencil(name states.DepthStencilName) error {
	if _, err := states.DepthStencil(name); err != nil {
		return err
	}
	r.record(Call{Op: OpSetDepthStencil, Name: string(name)})
	return nil
}

func (r *Recorder) Apply(fx effect.Effect) error {
	if err := r.fail(OpApply); err != nil {
		return err
	}
	c := Call{
		Op:        OpApply,
		Name:      fx.Name(),
		Blocks:    make(map[string][]byte),
		Resources: make(map[string]effect.Resource),
	}
	for _, b := range fx.UniformBlocks() {
		c.Blocks[b.VarName] = append([]byte(nil), fx.BlockData(b.VarName)...)
	}
	for _, s := range fx.Slots() {
		if s.Kind == effect.SlotKindResource {
			c.Resources[s.Name] = fx.Resource(s.Name)
		}
	}
	r.record(c)
	return nil
}

func (r *Recorder) DrawIndexed(rg geometry.Range) error {
	if err := r.fail(OpDrawIndexed); err != nil {
		return err
	}
	r.record(Call{Op: OpDrawIndexed, Range: rg})
	return nil
}

func (r *Recorder) Composite(img *image.RGBA) error {
	r.record(Call{Op: OpComposite, Data: append([]byte(nil), img.Pix...)})
	return nil
}

func (r *Recorder) Present(vsync bool) error {
	r.mu.Lock()
	open := r.frame
	r.frame = false
	r.mu.Unlock()
	if !open {
		return renderer.ErrNoFrame
	}
	r.record(Call{Op: OpPresent, VSync: vsync})
	return nil
}

func (r *Recorder) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
}

func (r *Recorder) SetSampleCount(count renderer.MSAASampleCount) error {
	if !count.Valid() {
		return renderer.ErrInvalidSampleCount
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sampleCount = count
	return nil
}

func (r *Recorder) SampleCount() renderer.MSAASampleCount {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sampleCount
}

func (r *Recorder) Description() string {
	return "recorder"
}

func (r *Recorder) Release() {}
