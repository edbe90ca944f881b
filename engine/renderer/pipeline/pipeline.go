package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/states"
	"github.com/cogentcore/webgpu/wgpu"
)

// DepthFormat is the depth-stencil attachment format every render pipeline targets.
// The stencil aspect carries the mirror mask.
const DepthFormat = wgpu.TextureFormatDepth24PlusStencil8

// Key identifies a render pipeline by everything that is baked into it. Two draws with
// equal keys share a pipeline.
type Key struct {
	Effect       string
	Topology     wgpu.PrimitiveTopology
	Rasterizer   states.RasterizerName
	Blend        states.BlendName
	DepthStencil states.DepthStencilName
	DepthTest    bool
	SampleCount  uint32
	ColorFormat  wgpu.TextureFormat
}

// String formats the key for pipeline labels.
//
// Returns:
//   - string: a readable key
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s/x%d", k.Effect, topologyName(k.Topology), k.Rasterizer, k.Blend, k.DepthStencil, k.SampleCount)
}

// pipeline is the implementation of the Pipeline interface.
// It holds the named states a render pipeline is built from and the created GPU object.
type pipeline struct {
	// shader carries both stage entry points and the bind group layouts
	shader shader.Shader

	// renderPipeline is nil until the device registers the pipeline
	renderPipeline *wgpu.RenderPipeline
	pipelineLayout *wgpu.PipelineLayout

	topology         wgpu.PrimitiveTopology
	rasterizer       states.RasterizerState
	blend            states.BlendState
	depthStencil     states.DepthStencilState
	depthTestEnabled bool
	sampleCount      uint32
	colorFormat      wgpu.TextureFormat
}

// Pipeline defines the interface for a GPU render pipeline described by an effect's shader
// and one rasterizer, blend and depth-stencil state from the states catalogue.
type Pipeline interface {
	// Key returns the cache key of this pipeline.
	//
	// Returns:
	//   - Key: the key built from the effect name, states, topology and sample count
	Key() Key

	// PipelineKey returns the key formatted as a label.
	//
	// Returns:
	//   - string: the label
	PipelineKey() string

	// Shader returns the shader the pipeline's stages come from.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// Topology returns the topology draws are issued with. A wireframe rasterizer turns
	// triangle lists into line lists.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the effective topology
	Topology() wgpu.PrimitiveTopology

	Rasterizer() states.RasterizerState
	Blend() states.BlendState
	DepthStencil() states.DepthStencilState
	SampleCount() uint32

	// PrimitiveState builds the primitive state for pipeline creation.
	//
	// Returns:
	//   - wgpu.PrimitiveState: topology, front face and cull mode
	PrimitiveState() wgpu.PrimitiveState

	// DepthStencilState builds the depth-stencil state for pipeline creation. The same
	// stencil operation is applied to front and back faces.
	//
	// Returns:
	//   - *wgpu.DepthStencilState: the state targeting DepthFormat
	DepthStencilState() *wgpu.DepthStencilState

	// MultisampleState builds the multisample state. Alpha to coverage needs more than one sample
	// and is dropped otherwise.
	//
	// Returns:
	//   - wgpu.MultisampleState: the state
	MultisampleState() wgpu.MultisampleState

	// ColorTargetState builds the single color target of the pipeline.
	//
	// Returns:
	//   - wgpu.ColorTargetState: format, blend and write mask
	ColorTargetState() wgpu.ColorTargetState

	// RenderPipeline returns the created GPU pipeline, nil until registered.
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the created GPU pipeline and its layout.
	//
	// Parameters:
	//   - rp: the render pipeline
	//   - layout: the pipeline layout rp was created with
	SetRenderPipeline(rp *wgpu.RenderPipeline, layout *wgpu.PipelineLayout)

	// Release frees the GPU pipeline.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description. The GPU object is created later by the device.
//
// Parameters:
//   - opts: variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the configured pipeline
func NewPipeline(opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		topology:         wgpu.PrimitiveTopologyTriangleList,
		depthTestEnabled: true,
		sampleCount:      1,
		colorFormat:      wgpu.TextureFormatBGRA8Unorm,
	}
	p.rasterizer, _ = states.Rasterizer(states.RasterDefault)
	p.blend, _ = states.Blend(states.BlendDefault)
	p.depthStencil, _ = states.DepthStencil(states.DepthDefault)

	for _, opt := range opts {
		opt(p)
	}

	if p.shader == nil {
		panic("pipeline: failed to create pipeline: no shader set")
	}
	return p
}

func (p *pipeline) Key() Key {
	return Key{
		Effect:       p.shader.Key(),
		Topology:     p.Topology(),
		Rasterizer:   p.rasterizer.Name,
		Blend:        p.blend.Name,
		DepthStencil: p.depthStencil.Name,
		DepthTest:    p.depthTestEnabled,
		SampleCount:  p.sampleCount,
		ColorFormat:  p.colorFormat,
	}
}

func (p *pipeline) PipelineKey() string {
	return p.Key().String()
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	if p.rasterizer.Wireframe && p.topology == wgpu.PrimitiveTopologyTriangleList {
		return wgpu.PrimitiveTopologyLineList
	}
	return p.topology
}

func (p *pipeline) Rasterizer() states.RasterizerState {
	return p.rasterizer
}

func (p *pipeline) Blend() states.BlendState {
	return p.blend
}

func (p *pipeline) DepthStencil() states.DepthStencilState {
	return p.depthStencil
}

func (p *pipeline) SampleCount() uint32 {
	return p.sampleCount
}

func (p *pipeline) PrimitiveState() wgpu.PrimitiveState {
	return wgpu.PrimitiveState{
		Topology:  p.Topology(),
		FrontFace: p.rasterizer.FrontFace,
		CullMode:  p.rasterizer.CullMode,
	}
}

func (p *pipeline) DepthStencilState() *wgpu.DepthStencilState {
	ds := p.depthStencil
	depthCompare := ds.DepthCompare
	depthWrite := ds.DepthWriteEnabled
	if !p.depthTestEnabled {
		depthCompare = wgpu.CompareFunctionAlways
		depthWrite = false
	}
	return &wgpu.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: depthWrite,
		DepthCompare:      depthCompare,
		StencilFront:      ds.Stencil,
		StencilBack:       ds.Stencil,
		StencilReadMask:   0xFF,
		StencilWriteMask:  0xFF,
	}
}

func (p *pipeline) MultisampleState() wgpu.MultisampleState {
	return wgpu.MultisampleState{
		Count:                  p.sampleCount,
		Mask:                   0xFFFFFFFF,
		AlphaToCoverageEnabled: p.blend.AlphaToCoverage && p.sampleCount > 1,
	}
}

func (p *pipeline) ColorTargetState() wgpu.ColorTargetState {
	return wgpu.ColorTargetState{
		Format:    p.colorFormat,
		Blend:     p.blend.Blend,
		WriteMask: p.blend.WriteMask,
	}
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline, layout *wgpu.PipelineLayout) {
	p.renderPipeline = rp
	p.pipelineLayout = layout
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
		p.pipelineLayout = nil
	}
}

func topologyName(t wgpu.PrimitiveTopology) string {
	switch t {
	case wgpu.PrimitiveTopologyPointList:
		return "points"
	case wgpu.PrimitiveTopologyLineList:
		return "lines"
	case wgpu.PrimitiveTopologyLineStrip:
		return "line-strip"
	case wgpu.PrimitiveTopologyTriangleStrip:
		return "triangle-strip"
	default:
		return "triangles"
	}
}
