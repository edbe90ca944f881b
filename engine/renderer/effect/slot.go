package effect

import "strings"

// SlotKind classifies what an effect parameter slot accepts.
type SlotKind int

const (
	SlotKindScalar SlotKind = iota
	SlotKindVector
	SlotKindMatrix
	SlotKindResource
	SlotKindArray
)

func (k SlotKind) String() string {
	switch k {
	case SlotKindScalar:
		return "scalar"
	case SlotKindVector:
		return "vector"
	case SlotKindMatrix:
		return "matrix"
	case SlotKindResource:
		return "resource"
	case SlotKindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Slot is a named parameter of an effect. Constant slots live at Offset inside the uniform
// block named Block; resource slots are whole bindings and have no block.
type Slot struct {
	Name     string
	Kind     SlotKind
	Block    string
	Group    int
	Binding  int
	Offset   uint64
	Size     uint64
	TypeName string
}

// classifyField maps a WGSL member type to the slot kind that writes it.
func classifyField(typeName string) SlotKind {
	switch {
	case typeName == "f32", typeName == "i32", typeName == "u32", typeName == "bool":
		return SlotKindScalar
	case strings.HasPrefix(typeName, "vec"):
		return SlotKindVector
	case strings.HasPrefix(typeName, "mat"):
		return SlotKindMatrix
	default:
		return SlotKindArray
	}
}

// AcceptsInt reports whether SetInt and SetBool can write the slot.
func (s Slot) AcceptsInt() bool {
	return s.Kind == SlotKindScalar && (s.TypeName == "i32" || s.TypeName == "u32")
}

// AcceptsFloat reports whether SetFloat can write the slot.
func (s Slot) AcceptsFloat() bool {
	return s.Kind == SlotKindScalar && s.TypeName == "f32"
}

// AcceptsVector reports whether SetVector can write the slot.
func (s Slot) AcceptsVector() bool {
	return s.Kind == SlotKindVector && vectorWidth(s.TypeName) > 0
}

// AcceptsMatrix reports whether SetMatrix can write the slot.
func (s Slot) AcceptsMatrix() bool {
	return s.Kind == SlotKindMatrix && (s.TypeName == "mat4x4<f32>" || s.TypeName == "mat4x4f")
}

// AcceptsResource reports whether SetResource can write the slot.
func (s Slot) AcceptsResource() bool {
	return s.Kind == SlotKindResource
}

// vectorWidth returns the component count of a vec3/vec4 f32 type, or 0 for other types.
func vectorWidth(typeName string) int {
	switch typeName {
	case "vec3<f32>", "vec3f":
		return 3
	case "vec4<f32>", "vec4f":
		return 4
	default:
		return 0
	}
}
