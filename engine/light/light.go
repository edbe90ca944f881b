package light

import (
	"github.com/Carmen-Shannon/oxy-mirror/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun. Affects all fragments
	// uniformly with no distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Attenuates with distance up to a configurable range.
	LightTypePoint
)

// MaxPointLights is the capacity of the dynamic point light buffer. The active count
// is always within [0, MaxPointLights].
const MaxPointLights = 64

// DirectionalLightCount is the fixed number of directional light records.
const DirectionalLightCount = 3

// PointLight is the CPU-side record of a single point light. It marshals to the
// 80 byte GPU layout described by PointLightSource.
type PointLight struct {
	Position    mgl32.Vec3
	Ambient     mgl32.Vec4
	Diffuse     mgl32.Vec4
	Specular    mgl32.Vec4
	Attenuation mgl32.Vec3
	Range       float32
}

// DirectionalLight is the CPU-side record of a directional light. It marshals to the
// 64 byte GPU layout described by DirectionalLightSource.
type DirectionalLight struct {
	Ambient   mgl32.Vec4
	Diffuse   mgl32.Vec4
	Specular  mgl32.Vec4
	Direction mgl32.Vec3
}

// Type returns LightTypePoint.
func (p PointLight) Type() LightType {
	return LightTypePoint
}

// Type returns LightTypeDirectional.
func (d DirectionalLight) Type() LightType {
	return LightTypeDirectional
}

// Reflected returns a copy of the directional light whose direction is mirrored
// about the unit normal n. Colors are unchanged.
//
// Parameters:
//   - n: the unit normal of the mirror plane
//
// Returns:
//   - DirectionalLight: the mirrored light
func (d DirectionalLight) Reflected(n mgl32.Vec3) DirectionalLight {
	d.Direction = common.ReflectRay(d.Direction, n)
	return d
}
