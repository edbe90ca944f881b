package material

import (
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/effect"
	"github.com/go-gl/mathgl/mgl32"
)

// PropertyKind identifies the variant held by a PropertyValue.
type PropertyKind int

const (
	PropertyKindInt PropertyKind = iota
	PropertyKindBool
	PropertyKindFloat
	PropertyKindVector4
	PropertyKindMatrix4x4
	PropertyKindTexture
)

func (k PropertyKind) String() string {
	switch k {
	case PropertyKindInt:
		return "int"
	case PropertyKindBool:
		return "bool"
	case PropertyKindFloat:
		return "float"
	case PropertyKindVector4:
		return "vector4"
	case PropertyKindMatrix4x4:
		return "matrix4x4"
	case PropertyKindTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// TextureRef is an opaque handle to a GPU texture, bound to an effect resource slot.
type TextureRef = effect.Resource

// PropertyValue is the closed set of values a material property can hold. Only the types
// in this package implement it.
type PropertyValue interface {
	Kind() PropertyKind
	isPropertyValue()
}

type (
	IntValue       int32
	BoolValue      bool
	FloatValue     float32
	Vector4Value   mgl32.Vec4
	Matrix4x4Value mgl32.Mat4
)

// TextureValue is a texture plus the transform applied to its coordinates.
// Tiling scales, RotationDegrees rotates about +Z, then Offset translates.
type TextureValue struct {
	Texture         TextureRef
	Tiling          mgl32.Vec2
	Offset          mgl32.Vec2
	RotationDegrees float32
}

// NewTextureValue returns an untransformed texture value (tiling 1, no offset or rotation).
func NewTextureValue(tex TextureRef) TextureValue {
	return TextureValue{Texture: tex, Tiling: mgl32.Vec2{1, 1}}
}

func (IntValue) Kind() PropertyKind       { return PropertyKindInt }
func (BoolValue) Kind() PropertyKind      { return PropertyKindBool }
func (FloatValue) Kind() PropertyKind     { return PropertyKindFloat }
func (Vector4Value) Kind() PropertyKind   { return PropertyKindVector4 }
func (Matrix4x4Value) Kind() PropertyKind { return PropertyKindMatrix4x4 }
func (TextureValue) Kind() PropertyKind   { return PropertyKindTexture }

func (IntValue) isPropertyValue()       {}
func (BoolValue) isPropertyValue()      {}
func (FloatValue) isPropertyValue()     {}
func (Vector4Value) isPropertyValue()   {}
func (Matrix4x4Value) isPropertyValue() {}
func (TextureValue) isPropertyValue()   {}

// Property is a named material value.
type Property struct {
	Name  string
	Value PropertyValue
}
