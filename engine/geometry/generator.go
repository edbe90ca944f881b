package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// maxSubdivisions caps CreateGeosphere; each level quadruples the triangle count.
const maxSubdivisions = 5

// CreateBox builds an axis-aligned box centered at the origin with one quad per face, so
// every face carries its own normal and a full [0,1] texture square.
//
// Parameters:
//   - width: extent along X
//   - height: extent along Y
//   - depth: extent along Z
//
// Returns:
//   - MeshData[Vertex]: 24 vertices, 36 indices
func CreateBox(width, height, depth float32) MeshData[Vertex] {
	w, h, d := 0.5*width, 0.5*height, 0.5*depth

	v := func(px, py, pz, nx, ny, nz, u, t float32) Vertex {
		return Vertex{Position: mgl32.Vec3{px, py, pz}, Normal: mgl32.Vec3{nx, ny, nz}, TexC: mgl32.Vec2{u, t}}
	}

	vertices := []Vertex{
		// -Z
		v(-w, -h, -d, 0, 0, -1, 0, 1),
		v(-w, +h, -d, 0, 0, -1, 0, 0),
		v(+w, +h, -d, 0, 0, -1, 1, 0),
		v(+w, -h, -d, 0, 0, -1, 1, 1),
		// +Z
		v(-w, -h, +d, 0, 0, 1, 1, 1),
		v(+w, -h, +d, 0, 0, 1, 0, 1),
		v(+w, +h, +d, 0, 0, 1, 0, 0),
		v(-w, +h, +d, 0, 0, 1, 1, 0),
		// +Y
		v(-w, +h, -d, 0, 1, 0, 0, 1),
		v(-w, +h, +d, 0, 1, 0, 0, 0),
		v(+w, +h, +d, 0, 1, 0, 1, 0),
		v(+w, +h, -d, 0, 1, 0, 1, 1),
		// -Y
		v(-w, -h, -d, 0, -1, 0, 1, 1),
		v(+w, -h, -d, 0, -1, 0, 0, 1),
		v(+w, -h, +d, 0, -1, 0, 0, 0),
		v(-w, -h, +d, 0, -1, 0, 1, 0),
		// -X
		v(-w, -h, +d, -1, 0, 0, 0, 1),
		v(-w, +h, +d, -1, 0, 0, 0, 0),
		v(-w, +h, -d, -1, 0, 0, 1, 0),
		v(-w, -h, -d, -1, 0, 0, 1, 1),
		// +X
		v(+w, -h, -d, 1, 0, 0, 0, 1),
		v(+w, +h, -d, 1, 0, 0, 0, 0),
		v(+w, +h, +d, 1, 0, 0, 1, 0),
		v(+w, -h, +d, 1, 0, 0, 1, 1),
	}

	indices := make([]uint32, 0, 36)
	for face := uint32(0); face < 6; face++ {
		b := face * 4
		indices = append(indices, b, b+1, b+2, b, b+2, b+3)
	}

	return MeshData[Vertex]{Vertices: vertices, Indices: indices}
}

// CreateGrid builds a flat m×n vertex grid in the XZ plane centered at the origin, facing +Y.
// Texture coordinates span [0,1] across the whole grid; tiling is applied by the material.
//
// Parameters:
//   - width: extent along X
//   - depth: extent along Z
//   - m: vertex rows (along Z), at least 2
//   - n: vertex columns (along X), at least 2
//
// Returns:
//   - MeshData[Vertex]: m*n vertices, (m-1)*(n-1)*6 indices
func CreateGrid(width, depth float32, m, n int) MeshData[Vertex] {
	m, n = max(m, 2), max(n, 2)

	halfWidth, halfDepth := 0.5*width, 0.5*depth
	dx := width / float32(n-1)
	dz := depth / float32(m-1)
	du := 1 / float32(n-1)
	dv := 1 / float32(m-1)

	vertices := make([]Vertex, 0, m*n)
	for i := 0; i < m; i++ {
		z := halfDepth - float32(i)*dz
		for j := 0; j < n; j++ {
			x := -halfWidth + float32(j)*dx
			vertices = append(vertices, Vertex{
				Position: mgl32.Vec3{x, 0, z},
				Normal:   mgl32.Vec3{0, 1, 0},
				TexC:     mgl32.Vec2{float32(j) * du, float32(i) * dv},
			})
		}
	}

	indices := make([]uint32, 0, (m-1)*(n-1)*6)
	cols := uint32(n)
	for i := uint32(0); i < uint32(m-1); i++ {
		for j := uint32(0); j < cols-1; j++ {
			indices = append(indices,
				i*cols+j, i*cols+j+1, (i+1)*cols+j,
				(i+1)*cols+j, i*cols+j+1, (i+1)*cols+j+1,
			)
		}
	}

	return MeshData[Vertex]{Vertices: vertices, Indices: indices}
}

// CreateCylinder builds a capped, possibly tapered cylinder centered at the origin along Y.
// Each ring repeats its first vertex so the texture seam has distinct coordinates.
//
// Parameters:
//   - bottomRadius: radius at y = -height/2
//   - topRadius: radius at y = +height/2
//   - height: extent along Y
//   - sliceCount: subdivisions around the axis, at least 3
//   - stackCount: subdivisions along the axis, at least 1
//
// Returns:
//   - MeshData[Vertex]: the side, top cap and bottom cap
func CreateCylinder(bottomRadius, topRadius, height float32, sliceCount, stackCount int) MeshData[Vertex] {
	sliceCount, stackCount = max(sliceCount, 3), max(stackCount, 1)

	var mesh MeshData[Vertex]

	stackHeight := height / float32(stackCount)
	radiusStep := (topRadius - bottomRadius) / float32(stackCount)
	dTheta := 2 * math32.Pi / float32(sliceCount)
	dr := bottomRadius - topRadius

	for i := 0; i <= stackCount; i++ {
		y := -0.5*height + float32(i)*stackHeight
		r := bottomRadius + float32(i)*radiusStep
		for j := 0; j <= sliceCount; j++ {
			s, c := math32.Sincos(float32(j) * dTheta)
			tangent := mgl32.Vec3{-s, 0, c}
			bitangent := mgl32.Vec3{dr * c, -height, dr * s}
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: mgl32.Vec3{r * c, y, r * s},
				Normal:   tangent.Cross(bitangent).Normalize(),
				TexC:     mgl32.Vec2{float32(j) / float32(sliceCount), 1 - float32(i)/float32(stackCount)},
			})
		}
	}

	ring := uint32(sliceCount + 1)
	for i := uint32(0); i < uint32(stackCount); i++ {
		for j := uint32(0); j < uint32(sliceCount); j++ {
			mesh.Indices = append(mesh.Indices,
				i*ring+j, (i+1)*ring+j, (i+1)*ring+j+1,
				i*ring+j, (i+1)*ring+j+1, i*ring+j+1,
			)
		}
	}

	appendCylinderCap(&mesh, topRadius, height, sliceCount, true)
	appendCylinderCap(&mesh, bottomRadius, height, sliceCount, false)

	return mesh
}

func appendCylinderCap(mesh *MeshData[Vertex], radius, height float32, sliceCount int, top bool) {
	base := uint32(len(mesh.Vertices))

	y, ny := 0.5*height, float32(1)
	if !top {
		y, ny = -y, -1
	}

	dTheta := 2 * math32.Pi / float32(sliceCount)
	for i := 0; i <= sliceCount; i++ {
		s, c := math32.Sincos(float32(i) * dTheta)
		x, z := radius*c, radius*s
		mesh.Vertices = append(mesh.Vertices, Vertex{
			Position: mgl32.Vec3{x, y, z},
			Normal:   mgl32.Vec3{0, ny, 0},
			TexC:     mgl32.Vec2{x/height + 0.5, z/height + 0.5},
		})
	}
	mesh.Vertices = append(mesh.Vertices, Vertex{
		Position: mgl32.Vec3{0, y, 0},
		Normal:   mgl32.Vec3{0, ny, 0},
		TexC:     mgl32.Vec2{0.5, 0.5},
	})
	center := uint32(len(mesh.Vertices) - 1)

	for i := uint32(0); i < uint32(sliceCount); i++ {
		if top {
			mesh.Indices = append(mesh.Indices, center, base+i+1, base+i)
		} else {
			mesh.Indices = append(mesh.Indices, center, base+i, base+i+1)
		}
	}
}

// CreateGeosphere builds a sphere by subdividing an icosahedron and projecting onto the
// sphere, which gives near-uniform triangles unlike a latitude/longitude sphere.
//
// Parameters:
//   - radius: the sphere radius
//   - subdivisions: subdivision levels, clamped to [0, 5]
//
// Returns:
//   - MeshData[Vertex]: the sphere mesh
func CreateGeosphere(radius float32, subdivisions int) MeshData[Vertex] {
	const x, z = float32(0.525731), float32(0.850651)

	positions := []mgl32.Vec3{
		{-x, 0, z}, {x, 0, z}, {-x, 0, -z}, {x, 0, -z},
		{0, z, x}, {0, z, -x}, {0, -z, x}, {0, -z, -x},
		{z, x, 0}, {-z, x, 0}, {z, -x, 0}, {-z, -x, 0},
	}
	indices := []uint32{
		1, 4, 0, 4, 9, 0, 4, 5, 9, 8, 5, 4, 1, 8, 4,
		1, 10, 8, 10, 3, 8, 8, 3, 5, 3, 2, 5, 3, 7, 2,
		3, 10, 7, 10, 6, 7, 6, 11, 7, 6, 0, 11, 6, 1, 0,
		10, 1, 6, 11, 0, 9, 2, 11, 9, 5, 2, 9, 11, 2, 7,
	}

	for range min(max(subdivisions, 0), maxSubdivisions) {
		positions, indices = subdivide(positions, indices)
	}

	vertices := make([]Vertex, len(positions))
	for i, p := range positions {
		n := p.Normalize()
		p = n.Mul(radius)

		theta := math32.Atan2(p.Z(), p.X())
		if theta < 0 {
			theta += 2 * math32.Pi
		}
		phi := math32.Acos(mgl32.Clamp(p.Y()/radius, -1, 1))

		vertices[i] = Vertex{
			Position: p,
			Normal:   n,
			TexC:     mgl32.Vec2{theta / (2 * math32.Pi), phi / math32.Pi},
		}
	}

	return MeshData[Vertex]{Vertices: vertices, Indices: indices}
}

// subdivide splits every triangle into four through its edge midpoints. Vertices are not
// shared between triangles, matching the flat layout CreateGeosphere expects.
func subdivide(positions []mgl32.Vec3, indices []uint32) ([]mgl32.Vec3, []uint32) {
	outPos := make([]mgl32.Vec3, 0, len(indices)*2)
	outIdx := make([]uint32, 0, len(indices)*4)

	for t := 0; t+2 < len(indices); t += 3 {
		v0, v1, v2 := positions[indices[t]], positions[indices[t+1]], positions[indices[t+2]]
		m0 := v0.Add(v1).Mul(0.5)
		m1 := v1.Add(v2).Mul(0.5)
		m2 := v0.Add(v2).Mul(0.5)

		b := uint32(len(outPos))
		outPos = append(outPos, v0, v1, v2, m0, m1, m2)
		outIdx = append(outIdx,
			b+0, b+3, b+5,
			b+3, b+4, b+5,
			b+5, b+4, b+2,
			b+3, b+1, b+4,
		)
	}
	return outPos, outIdx
}

// CreateWireBox builds the twelve edges of an axis-aligned box as a line list.
//
// Parameters:
//   - width: extent along X
//   - height: extent along Y
//   - depth: extent along Z
//   - color: the color of every vertex
//
// Returns:
//   - MeshData[ColorVertex]: 8 vertices, 24 indices
func CreateWireBox(width, height, depth float32, color mgl32.Vec4) MeshData[ColorVertex] {
	w, h, d := 0.5*width, 0.5*height, 0.5*depth

	corners := []mgl32.Vec3{
		{-w, -h, -d}, {+w, -h, -d}, {+w, +h, -d}, {-w, +h, -d},
		{-w, -h, +d}, {+w, -h, +d}, {+w, +h, +d}, {-w, +h, +d},
	}
	vertices := make([]ColorVertex, len(corners))
	for i, c := range corners {
		vertices[i] = ColorVertex{Position: c, Color: color}
	}

	indices := []uint32{
		0, 1, 1, 2, 2, 3, 3, 0,
		4, 5, 5, 6, 6, 7, 7, 4,
		0, 4, 1, 5, 2, 6, 3, 7,
	}

	return MeshData[ColorVertex]{Vertices: vertices, Indices: indices}
}

// CreateWireSphere builds three great circles (in the XY, XZ and YZ planes) as a line list.
//
// Parameters:
//   - radius: the sphere radius
//   - segments: line segments per circle, at least 3
//   - color: the color of every vertex
//
// Returns:
//   - MeshData[ColorVertex]: 3*segments vertices, 6*segments indices
func CreateWireSphere(radius float32, segments int, color mgl32.Vec4) MeshData[ColorVertex] {
	segments = max(segments, 3)

	var mesh MeshData[ColorVertex]
	step := 2 * math32.Pi / float32(segments)

	circles := []func(s, c float32) mgl32.Vec3{
		func(s, c float32) mgl32.Vec3 { return mgl32.Vec3{c, s, 0} },
		func(s, c float32) mgl32.Vec3 { return mgl32.Vec3{c, 0, s} },
		func(s, c float32) mgl32.Vec3 { return mgl32.Vec3{0, c, s} },
	}
	for _, circle := range circles {
		base := uint32(len(mesh.Vertices))
		for i := 0; i < segments; i++ {
			s, c := math32.Sincos(float32(i) * step)
			mesh.Vertices = append(mesh.Vertices, ColorVertex{Position: circle(s, c).Mul(radius), Color: color})
		}
		for i := uint32(0); i < uint32(segments); i++ {
			mesh.Indices = append(mesh.Indices, base+i, base+(i+1)%uint32(segments))
		}
	}

	return mesh
}
