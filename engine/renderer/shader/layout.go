package shader

import (
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// typeLayout is the size and alignment of a host-shareable WGSL type.
type typeLayout struct {
	size  uint64
	align uint64
}

// stride is the distance between consecutive array elements of this type.
func (l typeLayout) stride() uint64 {
	return alignUp(l.size, l.align)
}

func alignUp(v, align uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

var scalarSizes = map[string]uint64{
	"f32":  4,
	"i32":  4,
	"u32":  4,
	"f16":  2,
	"bool": 4,
}

// vecSuffixes maps the short vector spellings (vec3f) to their scalar.
var vecSuffixes = map[string]string{
	"f": "f32",
	"i": "i32",
	"u": "u32",
	"h": "f16",
}

// splitShape parses "<prefix>N<scalar>" or "<prefix>Nx" forms: vec3<f32>, vec3f, mat4x4<f32>,
// mat4x4f. It returns the dimension text between prefix and scalar and the scalar name.
func splitShape(t, prefix string) (dims, scalar string, ok bool) {
	rest, ok := strings.CutPrefix(t, prefix)
	if !ok || rest == "" {
		return "", "", false
	}
	if i := strings.IndexByte(rest, '<'); i >= 0 {
		scalar, ok = strings.CutSuffix(rest[i+1:], ">")
		dims = rest[:i]
	} else {
		scalar, ok = vecSuffixes[rest[len(rest)-1:]]
		dims = rest[:len(rest)-1]
	}
	if _, known := scalarSizes[strings.TrimSpace(scalar)]; !ok || !known {
		return "", "", false
	}
	return dims, strings.TrimSpace(scalar), true
}

func componentCount(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil && n >= 2 && n <= 4
}

// vectorLayout follows WGSL: vec3 aligns like vec4.
func vectorLayout(n int, scalar string) typeLayout {
	s := scalarSizes[scalar]
	align := uint64(n) * s
	if n == 3 {
		align = 4 * s
	}
	return typeLayout{size: uint64(n) * s, align: align}
}

// builtinLayout resolves scalars, vectors, matrices and atomics.
func builtinLayout(t string) (typeLayout, bool) {
	if s, ok := scalarSizes[t]; ok {
		return typeLayout{size: s, align: s}, true
	}
	if inner, ok := strings.CutPrefix(t, "atomic<"); ok {
		if inner == "u32>" || inner == "i32>" {
			return typeLayout{size: 4, align: 4}, true
		}
		return typeLayout{}, false
	}
	if dims, scalar, ok := splitShape(t, "vec"); ok {
		n, ok := componentCount(dims)
		return vectorLayout(n, scalar), ok
	}
	if dims, scalar, ok := splitShape(t, "mat"); ok {
		c, r, found := strings.Cut(dims, "x")
		cols, okC := componentCount(c)
		rows, okR := componentCount(r)
		if !found || !okC || !okR {
			return typeLayout{}, false
		}
		col := vectorLayout(rows, scalar)
		return typeLayout{size: uint64(cols) * col.stride(), align: col.align}, true
	}
	return typeLayout{}, false
}

// arrayParts splits array<T> or array<T, N>. count is 0 for runtime-sized arrays.
func arrayParts(t string) (elem string, count uint64, ok bool) {
	inner, ok := strings.CutPrefix(t, "array<")
	if !ok {
		return "", 0, false
	}
	inner, ok = strings.CutSuffix(inner, ">")
	if !ok {
		return "", 0, false
	}
	i := strings.LastIndexByte(inner, ',')
	if i < 0 || strings.Count(inner[i:], ">") > 0 {
		return strings.TrimSpace(inner), 0, true
	}
	count, err := strconv.ParseUint(strings.TrimSpace(inner[i+1:]), 10, 64)
	if err != nil {
		return "", 0, false
	}
	return strings.TrimSpace(inner[:i]), count, true
}

type vertexFormatKey struct {
	scalar string
	n      int
}

var vertexFormats = map[vertexFormatKey]wgpu.VertexFormat{
	{"f32", 1}: wgpu.VertexFormatFloat32,
	{"f32", 2}: wgpu.VertexFormatFloat32x2,
	{"f32", 3}: wgpu.VertexFormatFloat32x3,
	{"f32", 4}: wgpu.VertexFormatFloat32x4,
	{"i32", 1}: wgpu.VertexFormatSint32,
	{"i32", 2}: wgpu.VertexFormatSint32x2,
	{"i32", 3}: wgpu.VertexFormatSint32x3,
	{"i32", 4}: wgpu.VertexFormatSint32x4,
	{"u32", 1}: wgpu.VertexFormatUint32,
	{"u32", 2}: wgpu.VertexFormatUint32x2,
	{"u32", 3}: wgpu.VertexFormatUint32x3,
	{"u32", 4}: wgpu.VertexFormatUint32x4,
	{"f16", 2}: wgpu.VertexFormatFloat16x2,
	{"f16", 4}: wgpu.VertexFormatFloat16x4,
}

// vertexFormat maps a vertex attribute type to its format and tightly packed size.
func vertexFormat(t string) (wgpu.VertexFormat, uint64, bool) {
	key := vertexFormatKey{scalar: t, n: 1}
	if dims, scalar, ok := splitShape(t, "vec"); ok {
		n, ok := componentCount(dims)
		if !ok {
			return 0, 0, false
		}
		key = vertexFormatKey{scalar: scalar, n: n}
	}
	f, ok := vertexFormats[key]
	if !ok {
		return 0, 0, false
	}
	return f, uint64(key.n) * scalarSizes[key.scalar], true
}

var textureDims = map[string]wgpu.TextureViewDimension{
	"1d":         wgpu.TextureViewDimension1D,
	"2d":         wgpu.TextureViewDimension2D,
	"2d_array":   wgpu.TextureViewDimension2DArray,
	"3d":         wgpu.TextureViewDimension3D,
	"cube":       wgpu.TextureViewDimensionCube,
	"cube_array": wgpu.TextureViewDimensionCubeArray,
}

var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

// layoutEntry builds the bind group layout entry for one declared resource. Storage
// textures are not recognized and produce an entry with no binding type.
func layoutEntry(binding uint32, visibility wgpu.ShaderStage, space, t string) wgpu.BindGroupLayoutEntry {
	e := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}

	switch {
	case space == "uniform":
		e.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(space, "storage"):
		e.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.HasSuffix(space, "read_write") {
			e.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case t == "sampler":
		e.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case t == "sampler_comparison":
		e.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(t, "texture_") && !strings.HasPrefix(t, "texture_storage_"):
		kind, param, _ := strings.Cut(strings.TrimPrefix(t, "texture_"), "<")
		if depth, ok := strings.CutPrefix(kind, "depth_"); ok {
			kind = depth
			e.Texture.SampleType = wgpu.TextureSampleTypeDepth
		} else {
			e.Texture.SampleType = sampleTypes[strings.TrimSpace(strings.TrimSuffix(param, ">"))]
		}
		if ms, ok := strings.CutPrefix(kind, "multisampled_"); ok {
			kind = ms
			e.Texture.Multisampled = true
		}
		e.Texture.ViewDimension = textureDims[kind]
	}
	return e
}
