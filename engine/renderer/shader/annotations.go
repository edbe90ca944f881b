package shader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-mirror/engine/geometry"
	"github.com/Carmen-Shannon/oxy-mirror/engine/light"
)

// annotationPrefix marks a directive inside a WGSL line comment, e.g. "//@oxy:include vertex".
const annotationPrefix = "@oxy:"

// AnnotationType names a pre-processor directive.
type AnnotationType string

const (
	// annotationTypeInclude pastes a shared struct definition: //@oxy:include <struct>
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup declares a bound variable of a shared struct type:
	// //@oxy:group <group> <binding> <address_space> <name> <struct|array<struct>>
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// AnnotationArg is a directive argument.
type AnnotationArg string

// Shared struct keys. Each names a WGSL struct that mirrors a Go type's GPU layout.
const (
	AnnotationArgPointLight       AnnotationArg = "point_light"
	AnnotationArgDirectionalLight AnnotationArg = "directional_light"
	AnnotationArgVertex           AnnotationArg = "vertex"
	AnnotationArgColorVertex      AnnotationArg = "color_vertex"
)

const (
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"
	annotationArgStorageTypeRead    AnnotationArg = "storage_read"
)

// Annotation is one parsed directive.
type Annotation struct {
	Type AnnotationType

	// Args is [struct] for include and [address space, var name, type] for group.
	Args []AnnotationArg

	// Line is 1-based.
	Line int

	// Group and Binding are set for group directives only.
	Group   *int
	Binding *int
}

// sharedStruct is a WGSL struct definition and the type name it declares.
type sharedStruct struct {
	source   string
	typeName string
}

var sharedStructs = map[AnnotationArg]sharedStruct{
	AnnotationArgPointLight:       {light.PointLightSource, "PointLight"},
	AnnotationArgDirectionalLight: {light.DirectionalLightSource, "DirectionalLight"},
	AnnotationArgVertex:           {geometry.VertexSource, "VertexInput"},
	AnnotationArgColorVertex:      {geometry.ColorVertexSource, "ColorVertexInput"},
}

var addressSpaces = map[AnnotationArg]string{
	annotationArgStorageTypeUniform: "var<uniform>",
	annotationArgStorageTypeRead:    "var<storage, read>",
}

// wgslType resolves a struct key, or array<key>, to its WGSL type name.
func wgslType(arg string) (string, bool) {
	if elem, ok := strings.CutPrefix(arg, "array<"); ok {
		s, ok := sharedStructs[AnnotationArg(strings.TrimSuffix(elem, ">"))]
		return "array<" + s.typeName + ">", ok
	}
	s, ok := sharedStructs[AnnotationArg(arg)]
	return s.typeName, ok
}

// directive expands one annotation into the WGSL that replaces its line.
type directive func(fields []string, line int) (string, *Annotation, error)

var directives = map[string]directive{
	string(annotationTypeInclude):      expandInclude,
	string(AnnotationTypeBindingGroup): expandGroup,
}

func expandInclude(fields []string, line int) (string, *Annotation, error) {
	if len(fields) != 1 {
		return "", nil, fmt.Errorf("include takes one struct name, got %d arguments", len(fields))
	}
	s, ok := sharedStructs[AnnotationArg(fields[0])]
	if !ok {
		return "", nil, fmt.Errorf("unknown struct %q", fields[0])
	}
	return s.source, &Annotation{Type: annotationTypeInclude, Args: []AnnotationArg{AnnotationArg(fields[0])}, Line: line}, nil
}

func expandGroup(fields []string, line int) (string, *Annotation, error) {
	if len(fields) != 5 {
		return "", nil, fmt.Errorf("group takes group, binding, address space, name and type, got %d arguments", len(fields))
	}
	group, err := strconv.Atoi(fields[0])
	if err != nil {
		return "", nil, fmt.Errorf("invalid group %q: %w", fields[0], err)
	}
	binding, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", nil, fmt.Errorf("invalid binding %q: %w", fields[1], err)
	}
	space, ok := addressSpaces[AnnotationArg(fields[2])]
	if !ok {
		return "", nil, fmt.Errorf("unknown address space %q", fields[2])
	}
	typ, ok := wgslType(fields[4])
	if !ok {
		return "", nil, fmt.Errorf("unknown struct %q", fields[4])
	}

	a := &Annotation{
		Type:    AnnotationTypeBindingGroup,
		Args:    []AnnotationArg{AnnotationArg(fields[2]), AnnotationArg(fields[3]), AnnotationArg(fields[4])},
		Line:    line,
		Group:   &group,
		Binding: &binding,
	}
	return fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", group, binding, space, fields[3], typ), a, nil
}
