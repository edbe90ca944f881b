package renderer

import (
	"errors"
	"image"
	"image/color"

	"github.com/Carmen-Shannon/oxy-mirror/engine/geometry"
	"github.com/Carmen-Shannon/oxy-mirror/engine/light"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/states"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNoFrame is returned by draw and state calls made outside Clear ... Present.
	ErrNoFrame = errors.New("renderer: no frame in progress")

	// ErrNoEffect is returned by DrawIndexed when no effect has been applied in the frame.
	ErrNoEffect = errors.New("renderer: no effect applied")

	// ErrUnboundResource is returned by Apply when a resource slot of the effect has no handle.
	ErrUnboundResource = errors.New("renderer: resource slot not bound")

	// ErrUnsupportedResource is returned by Apply when a resource handle was not created by this device.
	ErrUnsupportedResource = errors.New("renderer: unsupported resource handle")

	// ErrInvalidSampleCount is returned by SetSampleCount for counts other than 1 and 4.
	ErrInvalidSampleCount = errors.New("renderer: invalid MSAA sample count")

	// ErrFrameSpaceExhausted is returned when a frame stages more constants or light records than its ring holds.
	ErrFrameSpaceExhausted = errors.New("renderer: per-frame binding space exhausted")
)

// LightSteelBlue is the frame's clear color.
var LightSteelBlue = color.RGBA{R: 176, G: 196, B: 222, A: 255}

// Texture is a sampled 2D texture created by a Device. It is bound to an effect's texture
// slot through Effect.SetResource.
type Texture interface {
	// Label returns the debug label the texture was created with.
	Label() string

	// Size returns the texture dimensions in pixels.
	//
	// Returns:
	//   - int: width
	//   - int: height
	Size() (int, int)

	// Release frees the texture.
	Release()
}

// Sampler is a texture sampler created by a Device, bound through Effect.SetResource.
type Sampler interface {
	// Name returns the sampler name, one of the names accepted by common.SamplerByName.
	Name() string
}

// SurfaceSource is the window a Device presents into.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// Device is the GPU command context the frame is recorded against. Calls between Clear
// and Present are encoded into a single render pass in call order; that order is the
// only ordering guarantee between draws.
//
// Render state is selected by name from the states catalogue. Clear resets the state to
// states.RasterDefault, states.BlendDefault and states.DepthDefault with a triangle list
// topology and the scene geometry.
type Device interface {
	// AllocateStorage creates the read-only storage allocation backing the point light buffer.
	light.StorageAllocator

	// UploadGeometry creates the static vertex and index buffers for both geometry sets.
	// Calling it again replaces the buffers.
	//
	// Parameters:
	//   - p: the built geometry provider
	//
	// Returns:
	//   - error: error if a buffer could not be created
	UploadGeometry(p *geometry.Provider) error

	// CreateTexture uploads an image as an sRGB texture.
	//
	// Parameters:
	//   - label: debug label
	//   - img: the source image
	//
	// Returns:
	//   - Texture: the texture handle
	//   - error: error if the texture could not be created
	CreateTexture(label string, img image.Image) (Texture, error)

	// Sampler returns the sampler registered under name, creating it on first use.
	//
	// Parameters:
	//   - name: common.SamplerLinear or common.SamplerAnisotropic
	//
	// Returns:
	//   - Sampler: the sampler
	//   - error: error if the name is unknown or creation fails
	Sampler(name string) (Sampler, error)

	// Clear begins a frame and clears color to c, depth to 1 and stencil to 0.
	//
	// Parameters:
	//   - c: the clear color
	//
	// Returns:
	//   - error: error if the swapchain texture could not be acquired
	Clear(c color.RGBA) error

	// SetTopology selects the primitive topology of subsequent draws.
	SetTopology(t wgpu.PrimitiveTopology)

	// SetGeometry selects the vertex and index buffers of subsequent draws.
	SetGeometry(g GeometrySet)

	// SetRasterizer selects a rasterizer state by name.
	//
	// Returns:
	//   - error: states.ErrUnknownState for an unknown name
	SetRasterizer(name states.RasterizerName) error

	// SetBlend selects a blend state by name and sets the blend constant.
	//
	// Parameters:
	//   - name: the blend state name
	//   - factor: the blend constant, used by states that read it
	//
	// Returns:
	//   - error: states.ErrUnknownState for an unknown name
	SetBlend(name states.BlendName, factor mgl32.Vec4) error

	// SetDepthStencil selects a depth-stencil state by name and sets its stencil reference.
	//
	// Returns:
	//   - error: states.ErrUnknownState for an unknown name
	SetDepthStencil(name states.DepthStencilName) error

	// Apply snapshots the effect's constants and resources for the next draws. Later writes
	// to the effect do not affect draws already applied.
	//
	// Parameters:
	//   - fx: the effect to draw with
	//
	// Returns:
	//   - error: ErrUnboundResource, ErrUnsupportedResource or a GPU error
	Apply(fx effect.Effect) error

	// DrawIndexed draws a range of the selected geometry with the applied effect and the
	// current states. A wireframe rasterizer draws the triangle edges as lines.
	//
	// Parameters:
	//   - r: the range to draw
	//
	// Returns:
	//   - error: ErrNoFrame, ErrNoEffect or a pipeline creation error
	DrawIndexed(r geometry.Range) error

	// Composite draws an RGBA image over the whole surface with alpha blending, ignoring
	// depth and the current states.
	//
	// Parameters:
	//   - img: the overlay image, normally the surface size
	//
	// Returns:
	//   - error: error if the overlay texture could not be updated
	Composite(img *image.RGBA) error

	// Present submits the frame and presents it.
	//
	// Parameters:
	//   - vsync: whether presentation waits for vertical blank; a change takes effect next frame
	//
	// Returns:
	//   - error: ErrNoFrame if Clear was not called, or a submission error
	Present(vsync bool) error

	// Resize reconfigures the surface and depth-stencil target at the start of the next frame.
	Resize(width, height int)

	// SetSampleCount changes the MSAA sample count at the start of the next frame.
	//
	// Returns:
	//   - error: ErrInvalidSampleCount for counts other than 1 and 4
	SetSampleCount(count MSAASampleCount) error

	// SampleCount returns the sample count the next frame renders with.
	SampleCount() MSAASampleCount

	// Description returns a one-line description of the adapter and targets.
	Description() string

	// Release frees every GPU object owned by the device.
	Release()
}
