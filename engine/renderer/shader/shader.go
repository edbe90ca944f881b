// Package shader pre-processes the demo's WGSL sources and reflects the layouts the
// pipeline and effects need: vertex buffers, bind groups and uniform block offsets.
package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies a programmable stage of a render pipeline.
type ShaderType int

const (
	ShaderTypeVertex ShaderType = iota
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	}
	return fmt.Sprintf("ShaderType(%d)", int(t))
}

// Shader is a parsed WGSL source holding both a vertex and a fragment entry point.
type Shader interface {
	// Key returns the name the shader was created with.
	Key() string

	// Source returns the pre-processed WGSL.
	Source() string

	// BindGroupLayoutDescriptor returns the layout reflected for a group, or the zero
	// descriptor if the source declares nothing in it.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: entries in binding order
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every reflected layout keyed by group.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the variable declared at a group and binding, or "".
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name
	BindGroupVarName(group, binding int) string

	// BindGroupFromVarName finds the binding of a named variable within a group.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the WGSL variable name
	//
	// Returns:
	//   - int: the binding index, or -1
	//   - bool: whether the variable is declared in the group
	BindGroupFromVarName(group int, varName string) (int, bool)

	// BindGroupVarNames returns variable names keyed by group and binding.
	BindGroupVarNames() map[int]map[int]string

	// VertexLayouts returns one buffer layout per vertex input struct, numbered in
	// declaration order.
	VertexLayouts() map[int][]wgpu.VertexBufferLayout

	// UniformBlocks returns the layout of every var<uniform> struct, ordered by group and binding.
	UniformBlocks() []UniformBlock

	// EntryPoint returns the function name for a stage.
	EntryPoint(stage ShaderType) string

	// Module returns the descriptor the device compiles.
	Module() *wgpu.ShaderModuleDescriptor

	// Declarations returns the bindings generated from @oxy:group directives.
	Declarations() []Annotation
}

type shader struct {
	key          string
	source       string
	module       *wgpu.ShaderModuleDescriptor
	entryPoints  map[ShaderType]string
	layouts      map[int]wgpu.BindGroupLayoutDescriptor
	varNames     map[int]map[int]string
	vertex       map[int][]wgpu.VertexBufferLayout
	uniforms     []UniformBlock
	declarations []Annotation
}

var _ Shader = &shader{}

// NewShader expands the @oxy: directives in source and reflects the result. Every
// resource is visible to both stages.
//
// Parameters:
//   - key: the shader name, also used as the module label
//   - source: WGSL with optional @oxy: directives
//
// Returns:
//   - Shader: the parsed shader
//   - error: error if a directive is malformed or a stage has no entry point
func NewShader(key, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("failed to pre-process shader %q: %w", key, err)
	}

	r := reflectSource(processed)
	s := &shader{
		key:    key,
		source: processed,
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: processed},
		},
		entryPoints:  make(map[ShaderType]string, 2),
		vertex:       r.vertexLayouts(),
		uniforms:     r.uniformBlocks(),
		declarations: pp.Declarations(),
	}
	for _, stage := range []ShaderType{ShaderTypeVertex, ShaderTypeFragment} {
		entry := r.entryPoint(stage)
		if entry == "" {
			return nil, fmt.Errorf("shader %q has no entry point for the %s stage", key, stage)
		}
		s.entryPoints[stage] = entry
	}
	s.layouts, s.varNames = r.bindGroupLayouts(wgpu.ShaderStageVertex | wgpu.ShaderStageFragment)
	return s, nil
}

func (s *shader) Key() string { return s.key }
func (s *shader) Source() string { return s.source }
func (s *shader) Module() *wgpu.ShaderModuleDescriptor { return s.module }
func (s *shader) EntryPoint(stage ShaderType) string { return s.entryPoints[stage] }
func (s *shader) VertexLayouts() map[int][]wgpu.VertexBufferLayout { return s.vertex }
func (s *shader) UniformBlocks() []UniformBlock { return s.uniforms }
func (s *shader) Declarations() []Annotation { return s.declarations }
func (s *shader) BindGroupVarNames() map[int]map[int]string { return s.varNames }

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.layouts
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.layouts[group]
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.varNames[group][binding]
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	for binding, name := range s.varNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}
