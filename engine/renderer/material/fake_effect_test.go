package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// fakeEffect records every write and accepts any slot listed in slots.
type fakeEffect struct {
	slots  map[string]effect.Slot
	writes []string
	values map[string]any
}

var _ effect.Effect = &fakeEffect{}

func newFakeEffect(slots ...effect.Slot) *fakeEffect {
	f := &fakeEffect{slots: make(map[string]effect.Slot), values: make(map[string]any)}
	for _, s := range slots {
		f.slots[s.Name] = s
	}
	return f
}

func (f *fakeEffect) write(name string, kind effect.SlotKind, accept func(effect.Slot) bool, v any) error {
	slot, ok := f.slots[name]
	if !ok {
		return &effect.BindingError{Effect: f.Name(), Slot: name, Kind: kind, Err: effect.ErrUnknownSlot}
	}
	if !accept(slot) {
		return &effect.BindingError{Effect: f.Name(), Slot: name, Kind: kind, Err: effect.ErrSlotKindMismatch}
	}
	f.writes = append(f.writes, fmt.Sprintf("%s:%s", kind, name))
	f.values[name] = v
	return nil
}

func (f *fakeEffect) Name() string          { return "fake" }
func (f *fakeEffect) Shader() shader.Shader { return nil }

func (f *fakeEffect) Slot(name string) (effect.Slot, error) {
	s, ok := f.slots[name]
	if !ok {
		return effect.Slot{}, &effect.BindingError{Effect: f.Name(), Slot: name, Err: effect.ErrUnknownSlot}
	}
	return s, nil
}

func (f *fakeEffect) Slots() []effect.Slot {
	out := make([]effect.Slot, 0, len(f.slots))
	for _, s := range f.slots {
		out = append(out, s)
	}
	return out
}

func (f *fakeEffect) SetInt(name string, v int32) error {
	return f.write(name, effect.SlotKindScalar, effect.Slot.AcceptsInt, v)
}

func (f *fakeEffect) SetBool(name string, v bool) error {
	return f.write(name, effect.SlotKindScalar, effect.Slot.AcceptsInt, v)
}

func (f *fakeEffect) SetFloat(name string, v float32) error {
	return f.write(name, effect.SlotKindScalar, effect.Slot.AcceptsFloat, v)
}

func (f *fakeEffect) SetVector(name string, v mgl32.Vec4) error {
	return f.write(name, effect.SlotKindVector, effect.Slot.AcceptsVector, v)
}

func (f *fakeEffect) SetMatrix(name string, m mgl32.Mat4) error {
	return f.write(name, effect.SlotKindMatrix, effect.Slot.AcceptsMatrix, m)
}

func (f *fakeEffect) SetArray(name string, data []byte) error {
	return f.write(name, effect.SlotKindArray, func(s effect.Slot) bool { return s.Kind == effect.SlotKindArray }, data)
}

func (f *fakeEffect) SetResource(name string, r effect.Resource) error {
	return f.write(name, effect.SlotKindResource, effect.Slot.AcceptsResource, r)
}

func (f *fakeEffect) BlockData(string) []byte              { return nil }
func (f *fakeEffect) Resource(name string) effect.Resource { return f.values[name] }
func (f *fakeEffect) UniformBlocks() []shader.UniformBlock { return nil }

func scalarSlot(name, typ string) effect.Slot {
	return effect.Slot{Name: name, Kind: effect.SlotKindScalar, TypeName: typ}
}

func vectorSlot(name string) effect.Slot {
	return effect.Slot{Name: name, Kind: effect.SlotKindVector, TypeName: "vec4<f32>"}
}

func matrixSlot(name string) effect.Slot {
	return effect.Slot{Name: name, Kind: effect.SlotKindMatrix, TypeName: "mat4x4<f32>"}
}

func resourceSlot(name string) effect.Slot {
	return effect.Slot{Name: name, Kind: effect.SlotKindResource}
}
