package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-mirror/common"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/effect"
	"github.com/go-gl/mathgl/mgl32"
)

// Property names understood by the lit effect.
const (
	PropertyAmbient        = "Ambient"
	PropertyDiffuse        = "Diffuse"
	PropertySpecular       = "Specular"
	PropertyReflect        = "Reflect"
	PropertyTextureDiffuse = "Texture_Diffuse"
)

// TransformSuffix is appended to a texture property's name to form the slot that receives
// its coordinate transform.
const TransformSuffix = "_Trf"

// BindingError reports the property that failed to bind. Err is the effect's error and
// wraps effect.ErrUnknownSlot or effect.ErrSlotKindMismatch.
type BindingError struct {
	Effect   string
	Material string
	Slot     string
	Kind     PropertyKind
	Err      error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("material %q: failed to bind %s property %q to effect %q: %v", e.Material, e.Kind, e.Slot, e.Effect, e.Err)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

// Bind seals the material and writes its properties to the effect in insertion order.
// The first failure is returned and the remaining properties are not written.
//
// Parameters:
//   - m: the material to bind
//   - fx: the effect receiving the values
//
// Returns:
//   - error: a *BindingError on the first slot that is missing or of the wrong kind
func Bind(m *Material, fx effect.Effect) error {
	m.Seal()

	for _, p := range m.Properties() {
		slot := p.Name
		var err error

		switch v := p.Value.(type) {
		case IntValue:
			err = fx.SetInt(p.Name, int32(v))
		case BoolValue:
			err = fx.SetBool(p.Name, bool(v))
		case FloatValue:
			err = fx.SetFloat(p.Name, float32(v))
		case Vector4Value:
			err = fx.SetVector(p.Name, mgl32.Vec4(v))
		case Matrix4x4Value:
			err = fx.SetMatrix(p.Name, mgl32.Mat4(v))
		case TextureValue:
			if err = fx.SetResource(p.Name, v.Texture); err == nil {
				slot = p.Name + TransformSuffix
				err = fx.SetMatrix(slot, common.TextureTransform(v.Tiling, v.Offset, v.RotationDegrees))
			}
		default:
			panic(fmt.Sprintf("material: unhandled property value %T", v))
		}

		if err != nil {
			return &BindingError{Effect: fx.Name(), Material: m.Name, Slot: slot, Kind: p.Value.Kind(), Err: err}
		}
	}
	return nil
}

// Validate checks that every property of the material has a compatible slot in the effect,
// without writing anything or sealing the material.
//
// Parameters:
//   - m: the material to check
//   - fx: the effect to check against
//
// Returns:
//   - error: a *BindingError for the first incompatible property
func Validate(m *Material, fx effect.Effect) error {
	for _, p := range m.Properties() {
		if name, err := validateProperty(p, fx); err != nil {
			return &BindingError{Effect: fx.Name(), Material: m.Name, Slot: name, Kind: p.Value.Kind(), Err: err}
		}
	}
	return nil
}

// validateProperty returns the offending slot name and error for an incompatible property.
func validateProperty(p Property, fx effect.Effect) (string, error) {
	var (
		kind   effect.SlotKind
		accept func(effect.Slot) bool
	)
	switch v := p.Value.(type) {
	case IntValue, BoolValue:
		kind, accept = effect.SlotKindScalar, effect.Slot.AcceptsInt
	case FloatValue:
		kind, accept = effect.SlotKindScalar, effect.Slot.AcceptsFloat
	case Vector4Value:
		kind, accept = effect.SlotKindVector, effect.Slot.AcceptsVector
	case Matrix4x4Value:
		kind, accept = effect.SlotKindMatrix, effect.Slot.AcceptsMatrix
	case TextureValue:
		if name, err := checkSlot(fx, p.Name, effect.SlotKindResource, effect.Slot.AcceptsResource); err != nil {
			return name, err
		}
		return checkSlot(fx, p.Name+TransformSuffix, effect.SlotKindMatrix, effect.Slot.AcceptsMatrix)
	default:
		panic(fmt.Sprintf("material: unhandled property value %T", v))
	}
	return checkSlot(fx, p.Name, kind, accept)
}

func checkSlot(fx effect.Effect, name string, kind effect.SlotKind, accept func(effect.Slot) bool) (string, error) {
	slot, err := fx.Slot(name)
	if err != nil {
		return name, err
	}
	if !accept(slot) {
		return name, &effect.BindingError{Effect: fx.Name(), Slot: name, Kind: kind, Err: effect.ErrSlotKindMismatch}
	}
	return name, nil
}
