package room

import (
	"math"

	"github.com/chazu/roomkit/pkg/graph"
)

// ShellGraph emits the floor, ceiling, walls and glazing.
func (l *Layout) ShellGraph() *graph.Graph {
	g := graph.New()

	planes := make([]graph.NodeID, 0, 2)
	for _, p := range []Plane{l.Floor, l.Ceiling} {
		prim := g.Primitive(p.Name, graph.PlaneData{
			Width: p.Length, Height: p.Width,
			Material: graph.MaterialSpec{Color: p.Color, Roughness: p.Roughness},
		})
		tilt := -math.Pi / 2
		if !p.FacesUp {
			tilt = math.Pi / 2
		}
		planes = append(planes, g.Place(p.Name, graph.TransformData{
			Translation: &graph.Vec3{Y: p.Y},
			Rotation:    &graph.Vec3{X: tilt},
		}, prim))
	}

	walls := make([]graph.NodeID, 0, len(l.Walls))
	for _, w := range l.Walls {
		name := w.Name()
		children := []graph.NodeID{
			g.Primitive(name, graph.SlabData{
				Width: w.Width, Height: w.Height, Depth: w.Thickness,
				Holes:    w.Holes(),
				Material: graph.MaterialSpec{Color: w.Color, Roughness: 0.7, DoubleSided: true},
			}),
		}
		for _, p := range l.Glazing {
			if p.Side != w.Side {
				continue
			}
			glass := g.Primitive(name+"/glazing", graph.PlaneData{
				Width: p.Width, Height: p.Height,
				Material: graph.MaterialSpec{Color: GlazingColor, Opacity: GlazingOpacity, DoubleSided: true},
			})
			children = append(children, g.Place(name+"/glazing", graph.At(p.Center.X, p.Center.Y, p.Center.Z), glass))
		}
		walls = append(walls, g.Place(name, graph.AtYaw(w.Position.X, w.Position.Y, w.Position.Z, w.Yaw), children...))
	}

	g.AddRoot(g.Group("room", append(planes, walls...)...))
	return g
}

// DoorGraph emits every door leaf at its current angle.
func (l *Layout) DoorGraph() *graph.Graph {
	g := graph.New()
	leaves := make([]graph.NodeID, 0, len(l.Doors))
	for _, d := range l.Doors {
		name := "room/" + d.ID
		leaf := leafNodes(g, name, d.Width, d.Height)
		leaves = append(leaves, g.Place(name+"/hinge", graph.AtYaw(d.Hinge.X, d.Hinge.Y, d.Hinge.Z, d.WorldYaw()), leaf))
	}
	g.AddRoot(g.Group("room/doors", leaves...))
	return g
}

// Graph emits the whole room.
func (l *Layout) Graph() *graph.Graph {
	g := l.ShellGraph()
	g.Merge(l.DoorGraph())
	return g
}
