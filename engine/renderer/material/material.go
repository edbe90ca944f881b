// Package material holds per-object surface parameters as an ordered list of named,
// typed properties and binds them to an effect's parameter slots.
package material

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrMaterialSealed is returned when a property is added after the material's first bind.
	ErrMaterialSealed = errors.New("material: sealed")

	// ErrDuplicateProperty is returned when a property name is added twice.
	ErrDuplicateProperty = errors.New("material: duplicate property")

	// ErrUnknownProperty is returned when setting a property that was never added.
	ErrUnknownProperty = errors.New("material: unknown property")

	// ErrKindChanged is returned when a set would change a property's kind.
	ErrKindChanged = errors.New("material: property kind is fixed")

	// ErrNilValue is wrapped by the BindingError returned when a property has no value.
	ErrNilValue = errors.New("material: nil property value")
)

// kindNone is reported for a missing value.
const kindNone PropertyKind = -1

// Material is an ordered set of named properties. Properties may be added until the
// material is sealed; values may be updated at any time but never change kind.
type Material struct {
	Name string

	// Blended marks objects drawn with the ambient blend state.
	Blended bool

	mu     *sync.Mutex
	props  []Property
	index  map[string]int
	sealed bool
}

// NewMaterial creates a material and applies the options in order.
//
// Parameters:
//   - options: a variadic list of MaterialBuilderOption functions
//
// Returns:
//   - *Material: the new, unsealed material
func NewMaterial(options ...MaterialBuilderOption) *Material {
	m := &Material{
		mu:    &sync.Mutex{},
		index: make(map[string]int),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Add appends a property.
//
// Parameters:
//   - name: the property name, which must match an effect slot at bind time
//   - value: the initial value, which fixes the property's kind
//
// Returns:
//   - error: ErrMaterialSealed, ErrDuplicateProperty or a *BindingError for a nil value
func (m *Material) Add(name string, value PropertyValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if value == nil {
		return &BindingError{Material: m.Name, Slot: name, Kind: kindNone, Err: ErrNilValue}
	}
	if m.sealed {
		return fmt.Errorf("cannot add %q to %q: %w", name, m.Name, ErrMaterialSealed)
	}
	if _, ok := m.index[name]; ok {
		return fmt.Errorf("cannot add %q to %q: %w", name, m.Name, ErrDuplicateProperty)
	}
	m.index[name] = len(m.props)
	m.props = append(m.props, Property{Name: name, Value: value})
	return nil
}

// Set replaces the value of an existing property with one of the same kind.
//
// Parameters:
//   - name: the property name
//   - value: the new value
//
// Returns:
//   - error: ErrUnknownProperty, ErrKindChanged or a *BindingError for a nil value
func (m *Material) Set(name string, value PropertyValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if value == nil {
		return &BindingError{Material: m.Name, Slot: name, Kind: kindNone, Err: ErrNilValue}
	}
	i, ok := m.index[name]
	if !ok {
		return fmt.Errorf("cannot set %q on %q: %w", name, m.Name, ErrUnknownProperty)
	}
	if have := m.props[i].Value.Kind(); have != value.Kind() {
		return fmt.Errorf("cannot set %q on %q from %s to %s: %w", name, m.Name, have, value.Kind(), ErrKindChanged)
	}
	m.props[i].Value = value
	return nil
}

func (m *Material) SetInt(name string, v int32) error {
	return m.Set(name, IntValue(v))
}

func (m *Material) SetBool(name string, v bool) error {
	return m.Set(name, BoolValue(v))
}

func (m *Material) SetFloat(name string, v float32) error {
	return m.Set(name, FloatValue(v))
}

func (m *Material) SetVector(name string, v Vector4Value) error {
	return m.Set(name, v)
}

func (m *Material) SetMatrix(name string, v Matrix4x4Value) error {
	return m.Set(name, v)
}

func (m *Material) SetTexture(name string, v TextureValue) error {
	return m.Set(name, v)
}

// Property looks up a property by name.
func (m *Material) Property(name string) (Property, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[name]
	if !ok {
		return Property{}, false
	}
	return m.props[i], true
}

// Properties returns a copy of the properties in insertion order.
func (m *Material) Properties() []Property {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Property, len(m.props))
	copy(out, m.props)
	return out
}

// Seal freezes the property set. It is idempotent.
func (m *Material) Seal() {
	m.mu.Lock()
	m.sealed = true
	m.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (m *Material) Sealed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sealed
}
