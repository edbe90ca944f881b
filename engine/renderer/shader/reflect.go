package shader

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// UniformField is one member of a uniform struct with its byte offset inside the block.
type UniformField struct {
	Name     string
	TypeName string
	Offset   uint64
	Size     uint64
}

// UniformBlock describes a var<uniform> binding and the layout of its struct type.
type UniformBlock struct {
	Group    int
	Binding  int
	VarName  string
	TypeName string
	Size     uint64
	Fields   []UniformField
}

var (
	structRegex     = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	attributeRegex  = regexp.MustCompile(`^\s*@(\w+)(?:\(([^)]*)\))?`)
	bindingRegex    = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
	entryPointRegex = map[ShaderType]*regexp.Regexp{
		ShaderTypeVertex:   regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`),
		ShaderTypeFragment: regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`),
	}
)

type structField struct {
	name     string
	typeName string
	location int // -1 without @location
	builtin  bool
}

type wgslStruct struct {
	name   string
	fields []structField
}

type bindingDecl struct {
	group, binding int
	space          string
	name           string
	typeName       string
}

// reflection holds what one pre-processed source declares.
type reflection struct {
	source   string
	structs  []wgslStruct
	byName   map[string]*wgslStruct
	bindings []bindingDecl

	layouts  map[string]typeLayout
	visiting map[string]bool
}

// reflectSource strips comments and collects structs and resource bindings.
func reflectSource(source string) *reflection {
	r := &reflection{
		source:   stripComments(source),
		layouts:  make(map[string]typeLayout),
		visiting: make(map[string]bool),
	}

	for _, m := range structRegex.FindAllStringSubmatch(r.source, -1) {
		r.structs = append(r.structs, wgslStruct{name: m[1], fields: parseFields(m[2])})
	}
	r.byName = make(map[string]*wgslStruct, len(r.structs))
	for i := range r.structs {
		r.byName[r.structs[i].name] = &r.structs[i]
	}

	for _, m := range bindingRegex.FindAllStringSubmatch(r.source, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		r.bindings = append(r.bindings, bindingDecl{
			group:    group,
			binding:  binding,
			space:    strings.TrimSpace(m[3]),
			name:     m[4],
			typeName: strings.TrimSpace(m[5]),
		})
	}
	slices.SortStableFunc(r.bindings, func(a, b bindingDecl) int {
		return cmp.Or(cmp.Compare(a.group, b.group), cmp.Compare(a.binding, b.binding))
	})
	return r
}

func parseFields(body string) []structField {
	var fields []structField
	for _, decl := range splitTopLevel(body) {
		f := structField{location: -1}
		for {
			m := attributeRegex.FindStringSubmatchIndex(decl)
			if m == nil {
				break
			}
			switch decl[m[2]:m[3]] {
			case "builtin":
				f.builtin = true
			case "location":
				if m[4] >= 0 {
					if loc, err := strconv.Atoi(strings.TrimSpace(decl[m[4]:m[5]])); err == nil {
						f.location = loc
					}
				}
			}
			decl = decl[m[1]:]
		}
		name, typ, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		f.name, f.typeName = strings.TrimSpace(name), strings.TrimSpace(typ)
		fields = append(fields, f)
	}
	return fields
}

// splitTopLevel splits a struct body at commas outside angle brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := range len(s) {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth = max(depth-1, 0)
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// layoutOf resolves any host-shareable type declared in or known to the source.
// A runtime-sized array reports one element so it can serve as a minimum binding size.
func (r *reflection) layoutOf(t string) (typeLayout, bool) {
	if l, ok := builtinLayout(t); ok {
		return l, true
	}
	if elem, count, ok := arrayParts(t); ok {
		l, ok := r.layoutOf(elem)
		if !ok {
			return typeLayout{}, false
		}
		return typeLayout{size: max(count, 1) * l.stride(), align: l.align}, true
	}
	if l, ok := r.layouts[t]; ok {
		return l, true
	}
	s, ok := r.byName[t]
	if !ok || r.visiting[t] {
		return typeLayout{}, false
	}
	r.visiting[t] = true
	defer delete(r.visiting, t)

	_, l, ok := r.structFields(s)
	if !ok {
		return typeLayout{}, false
	}
	r.layouts[t] = l
	return l, true
}

// structFields places each non-builtin member at its aligned offset.
func (r *reflection) structFields(s *wgslStruct) ([]UniformField, typeLayout, bool) {
	var (
		fields []UniformField
		offset uint64
		align  uint64 = 1
	)
	for i, f := range s.fields {
		if f.builtin {
			continue
		}
		l, ok := r.layoutOf(f.typeName)
		if !ok {
			return nil, typeLayout{}, false
		}
		if _, count, isArray := arrayParts(f.typeName); isArray && count == 0 && i == len(s.fields)-1 {
			// Runtime-sized tail: the struct is its fixed prefix, or one element if it has none.
			offset = alignUp(offset, max(align, l.align))
			fields = append(fields, UniformField{Name: f.name, TypeName: f.typeName, Offset: offset})
			if offset == 0 {
				return fields, l, true
			}
			return fields, typeLayout{size: offset, align: max(align, l.align)}, true
		}
		offset = alignUp(offset, l.align)
		fields = append(fields, UniformField{Name: f.name, TypeName: f.typeName, Offset: offset, Size: l.size})
		offset += l.size
		align = max(align, l.align)
	}
	return fields, typeLayout{size: alignUp(offset, align), align: align}, true
}

// vertexLayouts turns each vertex input struct (locations, no builtins) into a buffer
// layout, numbered in declaration order. Structs with an unsupported attribute type are skipped.
func (r *reflection) vertexLayouts() map[int][]wgpu.VertexBufferLayout {
	out := make(map[int][]wgpu.VertexBufferLayout)
	for _, s := range r.structs {
		if !isVertexInput(s) {
			continue
		}
		layout := wgpu.VertexBufferLayout{StepMode: wgpu.VertexStepModeVertex}
		ok := true
		for _, f := range s.fields {
			format, size, known := vertexFormat(f.typeName)
			if !known {
				ok = false
				break
			}
			layout.Attributes = append(layout.Attributes, wgpu.VertexAttribute{
				Format:         format,
				Offset:         layout.ArrayStride,
				ShaderLocation: uint32(f.location),
			})
			layout.ArrayStride += size
		}
		if ok {
			out[len(out)] = []wgpu.VertexBufferLayout{layout}
		}
	}
	return out
}

func isVertexInput(s wgslStruct) bool {
	located := false
	for _, f := range s.fields {
		if f.builtin {
			return false
		}
		located = located || f.location >= 0
	}
	return located
}

// bindGroupLayouts builds one layout descriptor per group with entries in binding
// order, plus the variable name of every binding. Buffer entries carry the bound
// type's size as MinBindingSize.
func (r *reflection) bindGroupLayouts(visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	descs := make(map[int]wgpu.BindGroupLayoutDescriptor)
	names := make(map[int]map[int]string)
	for _, b := range r.bindings {
		entry := layoutEntry(uint32(b.binding), visibility, b.space, b.typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := r.layoutOf(b.typeName); ok {
				entry.Buffer.MinBindingSize = l.size
			}
		}
		d := descs[b.group]
		d.Entries = append(d.Entries, entry)
		descs[b.group] = d

		if names[b.group] == nil {
			names[b.group] = make(map[int]string)
		}
		names[b.group][b.binding] = b.name
	}
	return descs, names
}

// uniformBlocks lists every var<uniform> whose type is a resolvable struct.
func (r *reflection) uniformBlocks() []UniformBlock {
	var blocks []UniformBlock
	for _, b := range r.bindings {
		s, ok := r.byName[b.typeName]
		if b.space != "uniform" || !ok {
			continue
		}
		fields, l, ok := r.structFields(s)
		if !ok {
			continue
		}
		blocks = append(blocks, UniformBlock{
			Group:    b.group,
			Binding:  b.binding,
			VarName:  b.name,
			TypeName: b.typeName,
			Size:     l.size,
			Fields:   fields,
		})
	}
	return blocks
}

// entryPoint returns the first function tagged with the stage attribute, or "".
func (r *reflection) entryPoint(stage ShaderType) string {
	re, ok := entryPointRegex[stage]
	if !ok {
		return ""
	}
	if m := re.FindStringSubmatch(r.source); m != nil {
		return m[1]
	}
	return ""
}

// stripComments removes line comments and nested block comments.
func stripComments(source string) string {
	var b strings.Builder
	b.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch source[i : i+2] {
			case "/*":
				depth++
				i++
				continue
			case "*/":
				depth = max(depth-1, 0)
				i++
				continue
			case "//":
				if depth == 0 {
					for i < len(source) && source[i] != '\n' {
						i++
					}
					if i < len(source) {
						b.WriteByte('\n')
					}
					continue
				}
			}
		}
		if depth == 0 {
			b.WriteByte(source[i])
		}
	}
	return b.String()
}
