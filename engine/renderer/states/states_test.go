package states

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueComplete(t *testing.T) {
	for _, name := range RasterizerNames() {
		s, err := Rasterizer(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name)
	}
	for _, name := range BlendNames() {
		s, err := Blend(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name)
	}
	for _, name := range DepthStencilNames() {
		s, err := DepthStencil(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name)
	}
}

func TestParse(t *testing.T) {
	r, err := ParseRasterizer("cull-clockwise")
	require.NoError(t, err)
	assert.Equal(t, RasterCullClockwise, r)

	b, err := ParseBlend("blend-factor")
	require.NoError(t, err)
	assert.Equal(t, BlendFactor, b)

	d, err := ParseDepthStencil("mark-stencil")
	require.NoError(t, err)
	assert.Equal(t, DepthMarkStencil, d)

	_, err = ParseRasterizer("point")
	assert.ErrorIs(t, err, ErrUnknownState)
	_, err = ParseBlend("")
	assert.ErrorIs(t, err, ErrUnknownState)
	_, err = ParseDepthStencil("always")
	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestRasterizerSemantics(t *testing.T) {
	solid, _ := Rasterizer(RasterSolid)
	cw, _ := Rasterizer(RasterCullClockwise)
	none, _ := Rasterizer(RasterCullNone)
	wire, _ := Rasterizer(RasterWireframe)

	assert.Equal(t, wgpu.CullModeBack, solid.CullMode)
	assert.Equal(t, wgpu.FrontFaceCCW, solid.FrontFace)
	assert.Equal(t, wgpu.CullModeBack, cw.CullMode)
	assert.Equal(t, wgpu.FrontFaceCW, cw.FrontFace)
	assert.Equal(t, wgpu.CullModeNone, none.CullMode)
	assert.True(t, wire.Wireframe)
	assert.False(t, solid.Wireframe)
	assert.Equal(t, RasterSolid, RasterDefault)
}

func TestBlendSemantics(t *testing.T) {
	noWrites, _ := Blend(BlendNoTargetWrites)
	assert.Equal(t, wgpu.ColorWriteMaskNone, noWrites.WriteMask)
	assert.Nil(t, noWrites.Blend)

	factor, _ := Blend(BlendFactor)
	require.NotNil(t, factor.Blend)
	assert.True(t, factor.UsesConstant)
	assert.Equal(t, wgpu.BlendFactorConstant, factor.Blend.Color.SrcFactor)

	a2c, _ := Blend(BlendAlphaToCoverage)
	assert.True(t, a2c.AlphaToCoverage)

	transparent, _ := Blend(BlendTransparent)
	require.NotNil(t, transparent.Blend)
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, transparent.Blend.Color.SrcFactor)
	assert.Equal(t, BlendOpaque, BlendDefault)
}

func TestDepthStencilSemantics(t *testing.T) {
	mark, _ := DepthStencil(DepthMarkStencil)
	assert.False(t, mark.DepthWriteEnabled)
	assert.Equal(t, wgpu.StencilOperationReplace, mark.Stencil.PassOp)
	assert.Equal(t, wgpu.CompareFunctionAlways, mark.Stencil.Compare)
	assert.Equal(t, uint32(1), mark.StencilReference)

	draw, _ := DepthStencil(DepthDrawStenciled)
	assert.Equal(t, wgpu.CompareFunctionEqual, draw.Stencil.Compare)
	assert.Equal(t, wgpu.StencilOperationKeep, draw.Stencil.PassOp)
	assert.Equal(t, uint32(1), draw.StencilReference)

	def, _ := DepthStencil(DepthDefault)
	assert.True(t, def.DepthWriteEnabled)
	assert.Equal(t, wgpu.CompareFunctionLess, def.DepthCompare)
	assert.Equal(t, wgpu.CompareFunctionAlways, def.Stencil.Compare)
}
