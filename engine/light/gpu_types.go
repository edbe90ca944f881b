package light

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// PointLightSource is the canonical WGSL definition of the PointLight struct.
// Matches PointLight.Marshal exactly (80 bytes, std430 aligned).
//
//go:embed assets/point_light.wgsl
var PointLightSource string

// DirectionalLightSource is the canonical WGSL definition of the DirectionalLight struct.
// Matches DirectionalLight.Marshal exactly (64 bytes, std430 aligned).
//
//go:embed assets/directional_light.wgsl
var DirectionalLightSource string

const (
	// PointLightSize is the GPU stride of one PointLight record in bytes.
	PointLightSize = 80

	// DirectionalLightSize is the GPU stride of one DirectionalLight record in bytes.
	DirectionalLightSize = 64
)

// Size returns the size of the GPU PointLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (p *PointLight) Size() int {
	return PointLightSize
}

// Marshal serializes the point light into a byte buffer suitable for GPU upload.
//
// Layout:
//
//	vec3<f32> position    (offset  0)
//	f32       range       (offset 12)
//	vec4<f32> ambient     (offset 16)
//	vec4<f32> diffuse     (offset 32)
//	vec4<f32> specular    (offset 48)
//	vec3<f32> attenuation (offset 64)
//	f32       _pad        (offset 76)
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload
func (p *PointLight) Marshal() []byte {
	buf := make([]byte, PointLightSize)
	p.marshalInto(buf)
	return buf
}

func (p *PointLight) marshalInto(buf []byte) {
	putFloats(buf[0:12], p.Position[:]...)
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(p.Range))
	putFloats(buf[16:32], p.Ambient[:]...)
	putFloats(buf[32:48], p.Diffuse[:]...)
	putFloats(buf[48:64], p.Specular[:]...)
	putFloats(buf[64:76], p.Attenuation[:]...)
	binary.LittleEndian.PutUint32(buf[76:80], 0) // padding
}

// Size returns the size of the GPU DirectionalLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (d *DirectionalLight) Size() int {
	return DirectionalLightSize
}

// Marshal serializes the directional light into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (d *DirectionalLight) Marshal() []byte {
	buf := make([]byte, DirectionalLightSize)
	putFloats(buf[0:16], d.Ambient[:]...)
	putFloats(buf[16:32], d.Diffuse[:]...)
	putFloats(buf[32:48], d.Specular[:]...)
	putFloats(buf[48:60], d.Direction[:]...)
	binary.LittleEndian.PutUint32(buf[60:64], 0) // padding
	return buf
}

// MarshalPointLights packs records back to back into a storage buffer payload.
//
// Parameters:
//   - lights: the records to pack
//
// Returns:
//   - []byte: len(lights) * PointLightSize bytes
func MarshalPointLights(lights []PointLight) []byte {
	buf := make([]byte, len(lights)*PointLightSize)
	for i := range lights {
		lights[i].marshalInto(buf[i*PointLightSize : (i+1)*PointLightSize])
	}
	return buf
}

// MarshalDirectionalLights packs the fixed directional light array for a uniform block.
//
// Parameters:
//   - lights: the three directional records
//
// Returns:
//   - []byte: DirectionalLightCount * DirectionalLightSize bytes
func MarshalDirectionalLights(lights [DirectionalLightCount]DirectionalLight) []byte {
	buf := make([]byte, 0, DirectionalLightCount*DirectionalLightSize)
	for i := range lights {
		buf = append(buf, lights[i].Marshal()...)
	}
	return buf
}

func putFloats(buf []byte, values ...float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
}
