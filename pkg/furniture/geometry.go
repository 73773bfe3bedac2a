package furniture

import (
	"fmt"
	"math"

	"github.com/chazu/roomkit/pkg/graph"
	"github.com/chazu/roomkit/pkg/model"
)

// Accent colours for fixed-colour details. Parts with an empty colour take
// the item's own colour when rendered.
const (
	handleDark  = "#333333"
	handleSlate = "#374151"
	screenDark  = "#1f2937"
	dividerGrey = "#6b7280"
	woodBrown   = "#8b4513"
)

// part is one primitive of an archetype, positioned relative to the item's
// vertical centre.
type part struct {
	name string
	data graph.NodeData
	at   graph.Vec3
	rot  graph.Vec3
}

func box(w, h, d float64, color string) graph.BoxData {
	return graph.BoxData{Size: graph.Vec3{X: w, Y: h, Z: d}, Material: graph.MaterialSpec{Color: color}}
}

func rod(r, h float64, color string) graph.CylinderData {
	return graph.CylinderData{Height: h, RadiusTop: r, RadiusBottom: r, Material: graph.MaterialSpec{Color: color}}
}

func at(x, y, z float64) graph.Vec3 { return graph.Vec3{X: x, Y: y, Z: z} }

// legs places four rods at the table corners.
func legs(w, h, d, r, length float64) []part {
	var ps []part
	for i, c := range [][2]float64{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		ps = append(ps, part{
			name: fmt.Sprintf("leg-%d", i+1),
			data: rod(r, length, ""),
			at:   at(c[0]*w*0.4, -h*0.3, c[1]*d*0.4),
		})
	}
	return ps
}

// parts lays out the primitives of a in item space.
func parts(a Archetype, s model.Size) []part {
	w, h, d := s.W, s.H, s.D

	switch a.(type) {
	case Sofa:
		return []part{
			{name: "seat", data: box(w, h*0.6, d, "")},
			{name: "backrest", data: box(w, h*0.8, d*0.4, ""), at: at(0, h*0.3, -d*0.3)},
			{name: "armrest-left", data: box(w*0.2, h, d, ""), at: at(-w*0.4, 0, 0)},
			{name: "armrest-right", data: box(w*0.2, h, d, ""), at: at(w*0.4, 0, 0)},
		}

	case Chair:
		return []part{
			{name: "seat", data: box(w, h*0.5, d, "")},
			{name: "backrest", data: box(w, h*0.9, d*0.2, ""), at: at(0, h*0.4, -d*0.3)},
		}

	case Bed:
		return []part{
			{name: "mattress", data: box(w, h, d, "")},
			{name: "headboard", data: box(w, h*1.5, d*0.1, ""), at: at(0, h*0.5, -d*0.5)},
		}

	case Table:
		return append([]part{
			{name: "top", data: box(w, h*0.1, d, ""), at: at(0, h*0.4, 0)},
		}, legs(w, h, d, 0.05, h*0.8)...)

	case CoffeeTable:
		return append([]part{
			{name: "top", data: box(w, h*0.15, d, ""), at: at(0, h*0.4, 0)},
		}, legs(w, h, d, 0.04, h*0.7)...)

	case SideTable:
		return append([]part{
			{name: "top", data: box(w, h*0.1, d, ""), at: at(0, h*0.4, 0)},
			{name: "shelf", data: box(w*0.9, h*0.1, d*0.9, ""), at: at(0, -h*0.2, 0)},
		}, legs(w, h, d, 0.03, h*0.5)...)

	case Lamp:
		return []part{
			{name: "base", data: graph.CylinderData{Height: h * 0.1, RadiusTop: 0.15, RadiusBottom: 0.2}},
			{name: "pole", data: rod(0.03, h*0.8, ""), at: at(0, h*0.4, 0)},
			{name: "shade", data: graph.ConeData{Height: h * 0.3, Radius: 0.3}, at: at(0, h*0.8, 0)},
		}

	case Cupboard:
		return []part{
			{name: "body", data: box(w, h, d, "")},
			{name: "handle-right", data: rod(0.02, 0.1, handleDark), at: at(w*0.3, 0, d*0.5+0.05)},
			{name: "handle-left", data: rod(0.02, 0.1, handleDark), at: at(-w*0.3, 0, d*0.5+0.05)},
		}

	case Bookshelf:
		ps := []part{{name: "frame", data: box(w, h, d, "")}}
		for i, ratio := range []float64{0.25, 0.5, 0.75} {
			ps = append(ps, part{
				name: fmt.Sprintf("shelf-%d", i+1),
				data: box(w*0.9, 0.02, d*0.8, ""),
				at:   at(0, -h*0.5+h*ratio, d*0.1),
			})
		}
		return ps

	case TVStand:
		return []part{
			{name: "body", data: box(w, h, d, "")},
			{name: "screen", data: box(w*0.7, h*1.2, 0.05, screenDark), at: at(0, h*0.8, 0)},
		}

	case Desk:
		return []part{
			{name: "top", data: box(w, h*0.1, d, ""), at: at(0, h*0.4, 0)},
			{name: "drawers", data: box(w*0.3, h*0.5, d*0.8, ""), at: at(w*0.3, -h*0.1, 0)},
			{name: "leg-1", data: rod(0.04, h*0.7, ""), at: at(-w*0.4, -h*0.3, -d*0.4)},
			{name: "leg-2", data: rod(0.04, h*0.7, ""), at: at(-w*0.4, -h*0.3, d*0.4)},
		}

	case Nightstand:
		ps := []part{{name: "body", data: box(w, h, d, "")}}
		for i, y := range []float64{0.25, -0.25} {
			ps = append(ps, part{
				name: fmt.Sprintf("handle-%d", i+1),
				data: rod(0.015, 0.08, handleSlate),
				at:   at(0, h*y, d*0.5+0.02),
				rot:  at(math.Pi/2, 0, 0),
			})
		}
		return ps

	case Plant:
		return []part{
			{name: "pot", data: graph.CylinderData{
				Height: h * 0.3, RadiusTop: w * 0.8, RadiusBottom: w,
				Material: graph.MaterialSpec{Color: woodBrown},
			}, at: at(0, -h*0.3, 0)},
			{name: "leaves", data: graph.ConeData{Height: h * 0.8, Radius: w * 1.2}, at: at(0, h*0.2, 0)},
			{name: "crown", data: graph.SphereData{Radius: w * 0.6}, at: at(0, h*0.4, 0)},
		}

	case Carpet:
		// Flat on the floor, so it is not lifted by half its height.
		return []part{{
			name: "rug",
			data: graph.PlaneData{Width: w, Height: d, Material: graph.MaterialSpec{Roughness: 0.9}},
			at:   at(0, 0.02-h/2, 0),
			rot:  at(-math.Pi/2, 0, 0),
		}}

	case Artwork:
		return []part{
			{name: "frame", data: box(w, h, d, woodBrown)},
			{name: "canvas", data: graph.PlaneData{Width: d * 0.9, Height: h * 0.9},
				at: at(w/2+0.005, 0, 0), rot: at(0, math.Pi/2, 0)},
		}

	case Wardrobe:
		return []part{
			{name: "body", data: box(w, h, d, "")},
			{name: "handle-left", data: rod(0.02, 0.15, screenDark), at: at(-w*0.2, 0, d*0.5+0.02)},
			{name: "handle-right", data: rod(0.02, 0.15, screenDark), at: at(w*0.2, 0, d*0.5+0.02)},
			{name: "divider", data: box(0.02, h, d, dividerGrey)},
		}
	}
	panic(fmt.Sprintf("furniture: archetype %T has no geometry", a))
}

// Build adds the geometry of one item of archetype a and size s to g and
// returns the root node. The item stands on y = 0 centred on the origin;
// callers place it with the item's position and rotation. Names are
// prefixed with prefix so several items can share a graph.
func Build(g *graph.Graph, prefix string, a Archetype, s model.Size) graph.NodeID {
	lift := s.H / 2
	ps := parts(a, s)
	children := make([]graph.NodeID, 0, len(ps))
	for _, p := range ps {
		name := prefix + "/" + p.name
		prim := g.Primitive(name, p.data)
		td := graph.TransformData{Translation: &graph.Vec3{X: p.at.X, Y: p.at.Y + lift, Z: p.at.Z}}
		if !p.rot.IsZero() {
			rot := p.rot
			td.Rotation = &rot
		}
		children = append(children, g.Place(name, td, prim))
	}
	return g.Group(prefix, children...)
}

// Graph returns a graph holding a single item of archetype a, named after
// its tag.
func Graph(a Archetype, s model.Size) *graph.Graph {
	g := graph.New()
	g.AddRoot(Build(g, a.Tag(), a, s))
	return g
}

// PartCount returns how many primitives a is assembled from.
func PartCount(a Archetype) int {
	return len(parts(a, model.Size{W: 1, H: 1, D: 1}))
}
