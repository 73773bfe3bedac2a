package kernel

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Rect is an axis-aligned rectangle in a 2D local frame.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) contains(x, y float64) bool {
	return x > r.MinX && x < r.MaxX && y > r.MinY && y < r.MaxY
}

// Quad returns a width x height rectangle in the XY plane, centred on the
// origin and facing +Z.
func Quad(width, height float64) *Mesh {
	m := &Mesh{}
	hw, hh := width/2, height/2
	addQuad(m,
		mgl64.Vec3{-hw, -hh, 0}, mgl64.Vec3{hw, -hh, 0},
		mgl64.Vec3{hw, hh, 0}, mgl64.Vec3{-hw, hh, 0},
		mgl64.Vec3{0, 0, 1})
	return m
}

// ExtrudeRects meshes a width x height rectangle centred on the origin with
// rectangular holes removed, extruded along +Z from 0 to depth.
//
// The outline is split into a grid at every hole edge; each solid cell gets
// a front and back face, and any cell edge bordering a hole or the outside
// gets a side face. The result is exact for rectangular holes.
func ExtrudeRects(width, height, depth float64, holes []Rect) *Mesh {
	hw, hh := width/2, height/2
	xs := []float64{-hw, hw}
	ys := []float64{-hh, hh}
	for _, h := range holes {
		xs = append(xs, clamp(h.MinX, -hw, hw), clamp(h.MaxX, -hw, hw))
		ys = append(ys, clamp(h.MinY, -hh, hh), clamp(h.MaxY, -hh, hh))
	}
	slices.Sort(xs)
	slices.Sort(ys)
	xs = slices.Compact(xs)
	ys = slices.Compact(ys)

	nx, ny := len(xs)-1, len(ys)-1
	solid := func(i, j int) bool {
		if i < 0 || j < 0 || i >= nx || j >= ny {
			return false
		}
		cx, cy := (xs[i]+xs[i+1])/2, (ys[j]+ys[j+1])/2
		for _, h := range holes {
			if h.contains(cx, cy) {
				return false
			}
		}
		return true
	}

	m := &Mesh{}
	for i := range nx {
		for j := range ny {
			if !solid(i, j) {
				continue
			}
			x0, x1, y0, y1 := xs[i], xs[i+1], ys[j], ys[j+1]

			addQuad(m,
				mgl64.Vec3{x0, y0, depth}, mgl64.Vec3{x1, y0, depth},
				mgl64.Vec3{x1, y1, depth}, mgl64.Vec3{x0, y1, depth},
				mgl64.Vec3{0, 0, 1})
			addQuad(m,
				mgl64.Vec3{x0, y0, 0}, mgl64.Vec3{x0, y1, 0},
				mgl64.Vec3{x1, y1, 0}, mgl64.Vec3{x1, y0, 0},
				mgl64.Vec3{0, 0, -1})

			if !solid(i-1, j) {
				addQuad(m,
					mgl64.Vec3{x0, y0, 0}, mgl64.Vec3{x0, y0, depth},
					mgl64.Vec3{x0, y1, depth}, mgl64.Vec3{x0, y1, 0},
					mgl64.Vec3{-1, 0, 0})
			}
			if !solid(i+1, j) {
				addQuad(m,
					mgl64.Vec3{x1, y0, 0}, mgl64.Vec3{x1, y1, 0},
					mgl64.Vec3{x1, y1, depth}, mgl64.Vec3{x1, y0, depth},
					mgl64.Vec3{1, 0, 0})
			}
			if !solid(i, j-1) {
				addQuad(m,
					mgl64.Vec3{x0, y0, 0}, mgl64.Vec3{x1, y0, 0},
					mgl64.Vec3{x1, y0, depth}, mgl64.Vec3{x0, y0, depth},
					mgl64.Vec3{0, -1, 0})
			}
			if !solid(i, j+1) {
				addQuad(m,
					mgl64.Vec3{x0, y1, 0}, mgl64.Vec3{x0, y1, depth},
					mgl64.Vec3{x1, y1, depth}, mgl64.Vec3{x1, y1, 0},
					mgl64.Vec3{0, 1, 0})
			}
		}
	}
	return m
}

// addQuad appends two triangles for the quad a-b-c-d with a flat normal n.
// Winding is fixed up so the front face points along n.
func addQuad(m *Mesh, a, b, c, d, n mgl64.Vec3) {
	base := uint32(m.VertexCount())
	for _, v := range []mgl64.Vec3{a, b, c, d} {
		m.Vertices = append(m.Vertices, float32(v[0]), float32(v[1]), float32(v[2]))
		m.Normals = append(m.Normals, float32(n[0]), float32(n[1]), float32(n[2]))
	}
	if b.Sub(a).Cross(c.Sub(a)).Dot(n) >= 0 {
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	} else {
		m.Indices = append(m.Indices, base, base+2, base+1, base, base+3, base+2)
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
