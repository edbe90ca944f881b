package light

import "github.com/go-gl/mathgl/mgl32"

// PointLightBuilderOption is a function that configures a PointLight during construction.
type PointLightBuilderOption func(*PointLight)

// NewPointLight creates a white point light at the origin with the default attenuation
// and range, then applies the provided options.
//
// Parameters:
//   - opts: variadic list of PointLightBuilderOption functions to configure the light
//
// Returns:
//   - PointLight: the configured record
func NewPointLight(opts ...PointLightBuilderOption) PointLight {
	p := PointLight{
		Ambient:     mgl32.Vec4{0, 0, 0, 1},
		Diffuse:     mgl32.Vec4{1, 1, 1, 1},
		Specular:    mgl32.Vec4{0.7, 0.7, 0.7, 1},
		Attenuation: mgl32.Vec3{0.175, 0.175, 0.175},
		Range:       50,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - PointLightBuilderOption: a function that applies the position option to a PointLight
func WithPosition(x, y, z float32) PointLightBuilderOption {
	return func(p *PointLight) {
		p.Position = mgl32.Vec3{x, y, z}
	}
}

// WithAmbient is an option builder that sets the ambient color.
//
// Parameters:
//   - c: the RGBA ambient color
//
// Returns:
//   - PointLightBuilderOption: a function that applies the ambient option to a PointLight
func WithAmbient(c mgl32.Vec4) PointLightBuilderOption {
	return func(p *PointLight) {
		p.Ambient = c
	}
}

// WithDiffuse is an option builder that sets the diffuse color.
//
// Parameters:
//   - c: the RGBA diffuse color
//
// Returns:
//   - PointLightBuilderOption: a function that applies the diffuse option to a PointLight
func WithDiffuse(c mgl32.Vec4) PointLightBuilderOption {
	return func(p *PointLight) {
		p.Diffuse = c
	}
}

// WithSpecular is an option builder that sets the specular color.
//
// Parameters:
//   - c: the RGBA specular color
//
// Returns:
//   - PointLightBuilderOption: a function that applies the specular option to a PointLight
func WithSpecular(c mgl32.Vec4) PointLightBuilderOption {
	return func(p *PointLight) {
		p.Specular = c
	}
}

// WithAttenuation is an option builder that sets the constant, linear and quadratic
// attenuation factors.
//
// Parameters:
//   - att: the attenuation factors
//
// Returns:
//   - PointLightBuilderOption: a function that applies the attenuation option to a PointLight
func WithAttenuation(att mgl32.Vec3) PointLightBuilderOption {
	return func(p *PointLight) {
		p.Attenuation = att
	}
}

// WithRange is an option builder that sets the maximum attenuation distance.
//
// Parameters:
//   - lightRange: the range value
//
// Returns:
//   - PointLightBuilderOption: a function that applies the range option to a PointLight
func WithRange(lightRange float32) PointLightBuilderOption {
	return func(p *PointLight) {
		p.Range = lightRange
	}
}
