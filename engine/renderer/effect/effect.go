// Package effect exposes a compiled WGSL render shader as a set of named parameter slots.
// Constant slots are the members of the shader's var<uniform> structs; resource slots are
// its storage buffers, textures and samplers, addressed by variable name.
package effect

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Resource is an opaque GPU resource handle bound to a resource slot. The device that
// draws with the effect decides which concrete types it accepts.
type Resource = any

// effect is the implementation of the Effect interface.
type effect struct {
	name      string
	shader    shader.Shader
	slots     map[string]Slot
	order     []Slot
	blocks    map[string][]byte
	resources map[string]Resource
}

// Effect is a shader plus the CPU-side values of all of its parameters.
type Effect interface {
	// Name returns the effect's name.
	Name() string

	// Shader returns the parsed shader the slots were discovered from.
	Shader() shader.Shader

	// Slot looks up a parameter slot by name.
	//
	// Parameters:
	//   - name: the parameter name
	//
	// Returns:
	//   - Slot: the slot
	//   - error: a *BindingError wrapping ErrUnknownSlot if no slot has that name
	Slot(name string) (Slot, error)

	// Slots returns every slot, constant slots first in block and offset order.
	Slots() []Slot

	// SetInt writes a signed or unsigned 32-bit integer slot.
	SetInt(name string, v int32) error

	// SetBool writes an integer slot as 0 or 1.
	SetBool(name string, v bool) error

	// SetFloat writes an f32 slot.
	SetFloat(name string, v float32) error

	// SetVector writes a vec3 or vec4 slot. A vec3 slot receives the first three components.
	SetVector(name string, v mgl32.Vec4) error

	// SetMatrix writes a mat4x4<f32> slot. The matrix is column-major and copied as-is.
	SetMatrix(name string, m mgl32.Mat4) error

	// SetArray writes raw bytes to an array or struct slot. data may be shorter than the slot.
	SetArray(name string, data []byte) error

	// SetResource binds a resource handle to a resource slot.
	SetResource(name string, r Resource) error

	// BlockData returns the current bytes of a uniform block. The slice must not be modified.
	//
	// Parameters:
	//   - varName: the uniform variable name, e.g. "Frame"
	//
	// Returns:
	//   - []byte: the block contents, or nil for an unknown block
	BlockData(varName string) []byte

	// Resource returns the handle bound to a resource slot, or nil.
	Resource(varName string) Resource

	// UniformBlocks returns the shader's uniform block layouts.
	UniformBlocks() []shader.UniformBlock
}

var _ Effect = &effect{}

// NewEffect parses a WGSL source and builds its slot table.
//
// Parameters:
//   - name: the effect name, used in errors and as the shader key
//   - source: the WGSL source, possibly containing @oxy: annotations
//
// Returns:
//   - Effect: the effect with zeroed constants and no resources bound
//   - error: error if the shader fails to parse or two slots share a name
func NewEffect(name, source string) (Effect, error) {
	s, err := shader.NewShader(name, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse effect %q: %w", name, err)
	}

	e := &effect{
		name:      name,
		shader:    s,
		slots:     make(map[string]Slot),
		blocks:    make(map[string][]byte),
		resources: make(map[string]Resource),
	}

	blockVars := make(map[string]bool)
	for _, block := range s.UniformBlocks() {
		blockVars[block.VarName] = true
		e.blocks[block.VarName] = make([]byte, block.Size)
		for _, field := range block.Fields {
			if strings.HasPrefix(field.Name, "_") {
				continue
			}
			if err := e.addSlot(Slot{
				Name:     field.Name,
				Kind:     classifyField(field.TypeName),
				Block:    block.VarName,
				Group:    block.Group,
				Binding:  block.Binding,
				Offset:   field.Offset,
				Size:     field.Size,
				TypeName: field.TypeName,
			}); err != nil {
				return nil, err
			}
		}
	}

	groups := make([]int, 0, len(s.BindGroupVarNames()))
	for g := range s.BindGroupVarNames() {
		groups = append(groups, g)
	}
	sort.Ints(groups)
	for _, g := range groups {
		bindings := make([]int, 0, len(s.BindGroupVarNames()[g]))
		for b := range s.BindGroupVarNames()[g] {
			bindings = append(bindings, b)
		}
		sort.Ints(bindings)
		for _, b := range bindings {
			varName := s.BindGroupVarName(g, b)
			if blockVars[varName] {
				continue
			}
			if err := e.addSlot(Slot{Name: varName, Kind: SlotKindResource, Group: g, Binding: b}); err != nil {
				return nil, err
			}
		}
	}

	return e, nil
}

func (e *effect) addSlot(slot Slot) error {
	if _, dup := e.slots[slot.Name]; dup {
		return fmt.Errorf("effect %q: duplicate slot %q", e.name, slot.Name)
	}
	e.slots[slot.Name] = slot
	e.order = append(e.order, slot)
	return nil
}

func (e *effect) Name() string {
	return e.name
}

func (e *effect) Shader() shader.Shader {
	return e.shader
}

func (e *effect) Slot(name string) (Slot, error) {
	slot, ok := e.slots[name]
	if !ok {
		return Slot{}, &BindingError{Effect: e.name, Slot: name, Err: ErrUnknownSlot}
	}
	return slot, nil
}

func (e *effect) Slots() []Slot {
	out := make([]Slot, len(e.order))
	copy(out, e.order)
	return out
}

// lookup resolves a slot for a write of the given kind, checking the WGSL type with accept.
func (e *effect) lookup(name string, kind SlotKind, accept func(Slot) bool) (Slot, error) {
	slot, ok := e.slots[name]
	if !ok {
		return Slot{}, &BindingError{Effect: e.name, Slot: name, Kind: kind, Err: ErrUnknownSlot}
	}
	if !accept(slot) {
		return Slot{}, &BindingError{Effect: e.name, Slot: name, Kind: kind, Err: ErrSlotKindMismatch}
	}
	return slot, nil
}

func (e *effect) put(slot Slot, data []byte) {
	copy(e.blocks[slot.Block][slot.Offset:slot.Offset+slot.Size], data)
}

func (e *effect) SetInt(name string, v int32) error {
	slot, err := e.lookup(name, SlotKindScalar, Slot.AcceptsInt)
	if err != nil {
		return err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	e.put(slot, buf[:])
	return nil
}

func (e *effect) SetBool(name string, v bool) error {
	slot, err := e.lookup(name, SlotKindScalar, Slot.AcceptsInt)
	if err != nil {
		return err
	}
	var buf [4]byte
	if v {
		binary.LittleEndian.PutUint32(buf[:], 1)
	}
	e.put(slot, buf[:])
	return nil
}

func (e *effect) SetFloat(name string, v float32) error {
	slot, err := e.lookup(name, SlotKindScalar, Slot.AcceptsFloat)
	if err != nil {
		return err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	e.put(slot, buf[:])
	return nil
}

func (e *effect) SetVector(name string, v mgl32.Vec4) error {
	slot, err := e.lookup(name, SlotKindVector, Slot.AcceptsVector)
	if err != nil {
		return err
	}
	n := vectorWidth(slot.TypeName)
	buf := make([]byte, 4*n)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v[i]))
	}
	e.put(slot, buf)
	return nil
}

func (e *effect) SetMatrix(name string, m mgl32.Mat4) error {
	slot, err := e.lookup(name, SlotKindMatrix, Slot.AcceptsMatrix)
	if err != nil {
		return err
	}
	buf := make([]byte, 64)
	for i, f := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	e.put(slot, buf)
	return nil
}

func (e *effect) SetArray(name string, data []byte) error {
	slot, err := e.lookup(name, SlotKindArray, func(s Slot) bool { return s.Kind == SlotKindArray && uint64(len(data)) <= s.Size })
	if err != nil {
		return err
	}
	e.put(slot, data)
	return nil
}

func (e *effect) SetResource(name string, r Resource) error {
	slot, err := e.lookup(name, SlotKindResource, Slot.AcceptsResource)
	if err != nil {
		return err
	}
	e.resources[slot.Name] = r
	return nil
}

func (e *effect) BlockData(varName string) []byte {
	return e.blocks[varName]
}

func (e *effect) Resource(varName string) Resource {
	return e.resources[varName]
}

func (e *effect) UniformBlocks() []shader.UniformBlock {
	return e.shader.UniformBlocks()
}
