// Package states defines the fixed catalogue of named rasterizer, blend and depth-stencil
// states the frame is drawn with. Descriptors are plain values; lookups return copies.
package states

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrUnknownState is returned when a state name is not in its catalogue.
var ErrUnknownState = errors.New("states: unknown state")

type (
	RasterizerName   string
	BlendName        string
	DepthStencilName string
)

const (
	RasterSolid         RasterizerName = "solid"
	RasterWireframe     RasterizerName = "wireframe"
	RasterCullNone      RasterizerName = "cull-none"
	RasterCullClockwise RasterizerName = "cull-clockwise"

	// RasterDefault is the state the device starts each frame with.
	RasterDefault = RasterSolid
)

const (
	BlendOpaque          BlendName = "opaque"
	BlendAlphaToCoverage BlendName = "alpha-to-coverage"
	BlendTransparent     BlendName = "transparent"
	BlendFactor          BlendName = "blend-factor"
	BlendNoTargetWrites  BlendName = "no-target-writes"

	// BlendDefault is the state the device starts each frame with.
	BlendDefault = BlendOpaque
)

const (
	DepthDefault       DepthStencilName = "default"
	DepthMarkStencil   DepthStencilName = "mark-stencil"
	DepthDrawStenciled DepthStencilName = "draw-stenciled"
)

// MirrorStencilRef is the stencil value written where the mirror is visible.
const MirrorStencilRef uint32 = 1

// RasterizerState selects triangle culling. Wireframe draws triangle edges as lines;
// WebGPU has no polygon fill mode so the device switches to an edge index stream.
type RasterizerState struct {
	Name      RasterizerName
	CullMode  wgpu.CullMode
	FrontFace wgpu.FrontFace
	Wireframe bool
}

// BlendState describes the color target. A nil Blend disables blending.
// UsesConstant marks states whose factors read the blend constant.
type BlendState struct {
	Name            BlendName
	Blend           *wgpu.BlendState
	WriteMask       wgpu.ColorWriteMask
	AlphaToCoverage bool
	UsesConstant    bool
}

// DepthStencilState describes depth testing and the stencil operation applied to both faces.
// StencilReference is set on the pass whenever the state is selected.
type DepthStencilState struct {
	Name              DepthStencilName
	DepthWriteEnabled bool
	DepthCompare      wgpu.CompareFunction
	Stencil           wgpu.StencilFaceState
	StencilReference  uint32
}

var rasterizers = map[RasterizerName]RasterizerState{
	RasterSolid: {
		Name:      RasterSolid,
		CullMode:  wgpu.CullModeBack,
		FrontFace: wgpu.FrontFaceCCW,
	},
	RasterWireframe: {
		Name:      RasterWireframe,
		CullMode:  wgpu.CullModeNone,
		FrontFace: wgpu.FrontFaceCCW,
		Wireframe: true,
	},
	RasterCullNone: {
		Name:      RasterCullNone,
		CullMode:  wgpu.CullModeNone,
		FrontFace: wgpu.FrontFaceCCW,
	},
	// Reflected geometry has its winding flipped; treating clockwise as front keeps the
	// outward faces and culls the inner ones.
	RasterCullClockwise: {
		Name:      RasterCullClockwise,
		CullMode:  wgpu.CullModeBack,
		FrontFace: wgpu.FrontFaceCW,
	},
}

var (
	alphaBlend = &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}

	constantBlend = &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorConstant,
			DstFactor: wgpu.BlendFactorOneMinusConstant,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorZero,
			Operation: wgpu.BlendOperationAdd,
		},
	}
)

var blends = map[BlendName]BlendState{
	BlendOpaque: {
		Name:      BlendOpaque,
		WriteMask: wgpu.ColorWriteMaskAll,
	},
	BlendAlphaToCoverage: {
		Name:            BlendAlphaToCoverage,
		WriteMask:       wgpu.ColorWriteMaskAll,
		AlphaToCoverage: true,
	},
	BlendTransparent: {
		Name:      BlendTransparent,
		Blend:     alphaBlend,
		WriteMask: wgpu.ColorWriteMaskAll,
	},
	BlendFactor: {
		Name:         BlendFactor,
		Blend:        constantBlend,
		WriteMask:    wgpu.ColorWriteMaskAll,
		UsesConstant: true,
	},
	BlendNoTargetWrites: {
		Name:      BlendNoTargetWrites,
		WriteMask: wgpu.ColorWriteMaskNone,
	},
}

var keepAlways = wgpu.StencilFaceState{
	Compare:     wgpu.CompareFunctionAlways,
	FailOp:      wgpu.StencilOperationKeep,
	DepthFailOp: wgpu.StencilOperationKeep,
	PassOp:      wgpu.StencilOperationKeep,
}

var depthStencils = map[DepthStencilName]DepthStencilState{
	DepthDefault: {
		Name:              DepthDefault,
		DepthWriteEnabled: true,
		DepthCompare:      wgpu.CompareFunctionLess,
		Stencil:           keepAlways,
	},
	DepthMarkStencil: {
		Name:              DepthMarkStencil,
		DepthWriteEnabled: false,
		DepthCompare:      wgpu.CompareFunctionLess,
		Stencil: wgpu.StencilFaceState{
			Compare:     wgpu.CompareFunctionAlways,
			FailOp:      wgpu.StencilOperationKeep,
			DepthFailOp: wgpu.StencilOperationKeep,
			PassOp:      wgpu.StencilOperationReplace,
		},
		StencilReference: MirrorStencilRef,
	},
	DepthDrawStenciled: {
		Name:              DepthDrawStenciled,
		DepthWriteEnabled: true,
		DepthCompare:      wgpu.CompareFunctionLess,
		Stencil: wgpu.StencilFaceState{
			Compare:     wgpu.CompareFunctionEqual,
			FailOp:      wgpu.StencilOperationKeep,
			DepthFailOp: wgpu.StencilOperationKeep,
			PassOp:      wgpu.StencilOperationKeep,
		},
		StencilReference: MirrorStencilRef,
	},
}

// Rasterizer returns the named rasterizer state.
//
// Parameters:
//   - name: the state name
//
// Returns:
//   - RasterizerState: the descriptor
//   - error: ErrUnknownState if the name is not in the catalogue
func Rasterizer(name RasterizerName) (RasterizerState, error) {
	s, ok := rasterizers[name]
	if !ok {
		return RasterizerState{}, fmt.Errorf("rasterizer %q: %w", name, ErrUnknownState)
	}
	return s, nil
}

// Blend returns the named blend state. The returned Blend pointer is shared and must not be modified.
//
// Parameters:
//   - name: the state name
//
// Returns:
//   - BlendState: the descriptor
//   - error: ErrUnknownState if the name is not in the catalogue
func Blend(name BlendName) (BlendState, error) {
	s, ok := blends[name]
	if !ok {
		return BlendState{}, fmt.Errorf("blend %q: %w", name, ErrUnknownState)
	}
	return s, nil
}

// DepthStencil returns the named depth-stencil state.
//
// Parameters:
//   - name: the state name
//
// Returns:
//   - DepthStencilState: the descriptor
//   - error: ErrUnknownState if the name is not in the catalogue
func DepthStencil(name DepthStencilName) (DepthStencilState, error) {
	s, ok := depthStencils[name]
	if !ok {
		return DepthStencilState{}, fmt.Errorf("depth-stencil %q: %w", name, ErrUnknownState)
	}
	return s, nil
}

// ParseRasterizer resolves a rasterizer name from a string, e.g. a settings value.
func ParseRasterizer(s string) (RasterizerName, error) {
	if _, err := Rasterizer(RasterizerName(s)); err != nil {
		return "", err
	}
	return RasterizerName(s), nil
}

// ParseBlend resolves a blend name from a string.
func ParseBlend(s string) (BlendName, error) {
	if _, err := Blend(BlendName(s)); err != nil {
		return "", err
	}
	return BlendName(s), nil
}

// ParseDepthStencil resolves a depth-stencil name from a string.
func ParseDepthStencil(s string) (DepthStencilName, error) {
	if _, err := DepthStencil(DepthStencilName(s)); err != nil {
		return "", err
	}
	return DepthStencilName(s), nil
}

// RasterizerNames lists the rasterizer catalogue in a stable order.
func RasterizerNames() []RasterizerName {
	return []RasterizerName{RasterSolid, RasterWireframe, RasterCullNone, RasterCullClockwise}
}

// BlendNames lists the blend catalogue in a stable order.
func BlendNames() []BlendName {
	return []BlendName{BlendOpaque, BlendAlphaToCoverage, BlendTransparent, BlendFactor, BlendNoTargetWrites}
}

// DepthStencilNames lists the depth-stencil catalogue in a stable order.
func DepthStencilNames() []DepthStencilName {
	return []DepthStencilName{DepthDefault, DepthMarkStencil, DepthDrawStenciled}
}
