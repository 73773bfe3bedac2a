package room

import (
	"math"

	"github.com/chazu/roomkit/pkg/graph"
	"github.com/chazu/roomkit/pkg/model"
)

// Door leaf motion.
const (
	DoorLeafThickness = 0.05
	DoorOpenAngle     = -math.Pi / 2
	DoorClosedAngle   = 0.0
	DoorEasing        = 0.1  // fraction of the remaining angle covered per tick
	DoorSnap          = 1e-4 // radians; closer than this the leaf settles
)

// DoorLeaf is the hinged panel in a door opening. The hinge is the
// opening's left vertical edge; the leaf swings into the room.
type DoorLeaf struct {
	ID     string
	Side   Side
	Hinge  model.Vec3 // room coordinates, bottom of the hinge edge
	Yaw    float64    // wall yaw; the leaf yaw is Yaw + Angle
	Width  float64
	Height float64
	Angle  float64
	Target float64
}

func newDoorLeaf(w Wall, r graph.Rect) DoorLeaf {
	return DoorLeaf{
		ID:     "door/" + w.Side.String(),
		Side:   w.Side,
		Hinge:  w.Local(r.MinX, r.MinY, w.Thickness/2),
		Yaw:    w.Yaw,
		Width:  r.MaxX - r.MinX,
		Height: r.MaxY - r.MinY,
		Angle:  DoorClosedAngle,
		Target: DoorClosedAngle,
	}
}

// Open reports whether the leaf is heading to (or at) the open position.
func (d *DoorLeaf) Open() bool {
	return d.Target == DoorOpenAngle
}

// Toggle flips the target between open and closed.
func (d *DoorLeaf) Toggle() {
	if d.Open() {
		d.Target = DoorClosedAngle
	} else {
		d.Target = DoorOpenAngle
	}
}

// Settled reports whether the leaf has reached its target.
func (d *DoorLeaf) Settled() bool {
	return d.Angle == d.Target
}

// Reset closes the leaf immediately.
func (d *DoorLeaf) Reset() {
	d.Angle, d.Target = DoorClosedAngle, DoorClosedAngle
}

// Tick eases the angle toward the target and reports whether it moved.
func (d *DoorLeaf) Tick() bool {
	if d.Settled() {
		return false
	}
	d.Angle += (d.Target - d.Angle) * DoorEasing
	if math.Abs(d.Target-d.Angle) < DoorSnap {
		d.Angle = d.Target
	}
	return true
}

// WorldYaw is the leaf's rotation about Y in room coordinates.
func (d *DoorLeaf) WorldYaw() float64 {
	return d.Yaw + d.Angle
}

// leafNodes adds the leaf in hinge-local space: the panel extends from the
// hinge along +X, centred on the wall's mid-plane.
func leafNodes(g *graph.Graph, name string, width, height float64) graph.NodeID {
	slab := g.Primitive(name, graph.SlabData{
		Width: width, Height: height, Depth: DoorLeafThickness,
		Material: graph.MaterialSpec{Color: DoorColor},
	})
	return g.Place(name, graph.At(width/2, height/2, -DoorLeafThickness/2), slab)
}

// LeafGraph returns a single leaf of the given size in hinge-local space.
// Frames place it with the leaf's Hinge and WorldYaw.
func LeafGraph(width, height float64) *graph.Graph {
	g := graph.New()
	g.AddRoot(leafNodes(g, "room/door-leaf", width, height))
	return g
}
