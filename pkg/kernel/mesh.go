package kernel

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which scene graph primitive this came from
	Color    string    `json:"color,omitempty"`
	Opacity  float64   `json:"opacity,omitempty"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Bounds returns the axis-aligned bounds of the vertices. An empty mesh
// reports zero bounds.
func (m *Mesh) Bounds() (min, max [3]float64) {
	if m.IsEmpty() {
		return min, max
	}
	for i := range 3 {
		min[i] = math.Inf(1)
		max[i] = math.Inf(-1)
	}
	for v := 0; v < len(m.Vertices); v += 3 {
		for i := range 3 {
			c := float64(m.Vertices[v+i])
			min[i] = math.Min(min[i], c)
			max[i] = math.Max(max[i], c)
		}
	}
	return min, max
}

// Transform returns a copy of the mesh with every vertex moved by mat and
// every normal rotated by it. The receiver is not modified.
func (m *Mesh) Transform(mat mgl64.Mat4) *Mesh {
	out := &Mesh{
		Vertices: make([]float32, len(m.Vertices)),
		Normals:  make([]float32, len(m.Normals)),
		Indices:  append([]uint32(nil), m.Indices...),
		PartName: m.PartName,
		Color:    m.Color,
		Opacity:  m.Opacity,
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		v := mgl64.TransformCoordinate(mgl64.Vec3{
			float64(m.Vertices[i]), float64(m.Vertices[i+1]), float64(m.Vertices[i+2]),
		}, mat)
		out.Vertices[i], out.Vertices[i+1], out.Vertices[i+2] = float32(v[0]), float32(v[1]), float32(v[2])
	}
	for i := 0; i+2 < len(m.Normals); i += 3 {
		n := mgl64.TransformNormal(mgl64.Vec3{
			float64(m.Normals[i]), float64(m.Normals[i+1]), float64(m.Normals[i+2]),
		}, mat)
		if n.Len() > 0 {
			n = n.Normalize()
		}
		out.Normals[i], out.Normals[i+1], out.Normals[i+2] = float32(n[0]), float32(n[1]), float32(n[2])
	}
	return out
}

// Merge concatenates meshes into one, offsetting indices. Name and material
// are taken from the first non-nil mesh.
func Merge(meshes ...*Mesh) *Mesh {
	out := &Mesh{}
	named := false
	for _, m := range meshes {
		if m == nil {
			continue
		}
		if !named {
			out.PartName, out.Color, out.Opacity = m.PartName, m.Color, m.Opacity
			named = true
		}
		base := uint32(out.VertexCount())
		out.Vertices = append(out.Vertices, m.Vertices...)
		out.Normals = append(out.Normals, m.Normals...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	return out
}
