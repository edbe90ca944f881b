package pipeline

import (
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/states"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithShader sets the shader providing the vertex and fragment stages for this pipeline.
//
// Parameters:
//   - s: the shader to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the shader for this pipeline
func WithShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.shader = s
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology
//
// Returns:
//   - PipelineBuilderOption: a function that sets the topology for this pipeline
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithRasterizer sets the rasterizer state for this pipeline.
//
// Parameters:
//   - r: the rasterizer state
//
// Returns:
//   - PipelineBuilderOption: a function that sets the rasterizer state for this pipeline
func WithRasterizer(r states.RasterizerState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.rasterizer = r
	}
}

// WithBlend sets the blend state for this pipeline.
//
// Parameters:
//   - b: the blend state
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state for this pipeline
func WithBlend(b states.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blend = b
	}
}

// WithDepthStencil sets the depth-stencil state for this pipeline.
//
// Parameters:
//   - ds: the depth-stencil state
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth-stencil state for this pipeline
func WithDepthStencil(ds states.DepthStencilState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthStencil = ds
	}
}

// WithDepthTestEnabled sets whether depth testing is enabled for this pipeline. With the
// test disabled every fragment passes and depth is never written.
//
// Parameters:
//   - enabled: a boolean indicating whether depth testing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth test enabled state for this pipeline
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithSampleCount sets the MSAA sample count the pipeline renders with.
//
// Parameters:
//   - count: 1 or 4
//
// Returns:
//   - PipelineBuilderOption: a function that sets the sample count for this pipeline
func WithSampleCount(count uint32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.sampleCount = max(count, 1)
	}
}

// WithColorFormat sets the format of the color target, normally the surface format.
//
// Parameters:
//   - format: the color target format
//
// Returns:
//   - PipelineBuilderOption: a function that sets the color format for this pipeline
func WithColorFormat(format wgpu.TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.colorFormat = format
	}
}
