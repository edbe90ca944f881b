// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"image"
	"image/draw"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// NewTextureStagingData converts any image into RGBA staging data.
//
// Parameters:
//   - img: the source image
//
// Returns:
//   - *TextureStagingData: tightly packed RGBA pixels with the image dimensions
func NewTextureStagingData(img image.Image) *TextureStagingData {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return &TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// Sampler names accepted by SamplerByName.
const (
	SamplerLinear      = "linear"
	SamplerAnisotropic = "anisotropic"
)

// SamplerByName returns the wrap-addressed sampler configuration registered under name.
//
// Parameters:
//   - name: SamplerLinear or SamplerAnisotropic
//
// Returns:
//   - SamplerStagingData: the sampler configuration
//   - bool: false if the name is unknown
func SamplerByName(name string) (SamplerStagingData, bool) {
	s := SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
		AddressModeW: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeLinear,
		LodMinClamp:  0,
		LodMaxClamp:  32,
	}
	switch name {
	case SamplerLinear:
		s.MaxAnisotropy = 1
	case SamplerAnisotropic:
		s.MaxAnisotropy = 4
	default:
		return SamplerStagingData{}, false
	}
	return s, true
}
