package room

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/roomkit/pkg/graph"
	"github.com/chazu/roomkit/pkg/kernel"
	"github.com/chazu/roomkit/pkg/model"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidDimensions is returned by Build when a room dimension is not
// strictly positive.
var ErrInvalidDimensions = errors.New("room: dimensions must be positive")

// Fixed construction sizes, meters.
const (
	WallThickness  = 0.1
	DoorWidth      = 0.9
	DoorHeight     = 2.1
	WindowWidth    = 1.2
	WindowHeight   = 1.0
	WindowHeadroom = 0.5 // gap between window top and ceiling
	glazingOffset  = 0.01
)

// Surface finishes.
const (
	FloorColor     = "#8B7355"
	CeilingColor   = "#FFFFFF"
	GlazingColor   = "#87CEEB"
	GlazingOpacity = 0.3
	DoorColor      = "#654321"
)

// Side identifies one of the four walls.
type Side int

const (
	SideBack Side = iota
	SideFront
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideBack:
		return "back"
	case SideFront:
		return "front"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// OpeningKind distinguishes doors from windows.
type OpeningKind int

const (
	OpeningDoor OpeningKind = iota
	OpeningWindow
)

func (k OpeningKind) String() string {
	if k == OpeningDoor {
		return "door"
	}
	return "window"
}

// Opening is a rectangular hole in a wall, in wall-local coordinates
// (origin at the wall centre, X along the wall, Y up).
type Opening struct {
	Kind OpeningKind
	Rect graph.Rect
}

// Width returns the horizontal extent of the opening.
func (o Opening) Width() float64 { return o.Rect.MaxX - o.Rect.MinX }

// Height returns the vertical extent of the opening.
func (o Opening) Height() float64 { return o.Rect.MaxY - o.Rect.MinY }

// Plane is the floor or the ceiling.
type Plane struct {
	Name      string
	Length    float64 // along X
	Width     float64 // along Z
	Y         float64
	FacesUp   bool
	Color     string
	Roughness float64
}

func (p Plane) matrix() mgl64.Mat4 {
	tilt := -math.Pi / 2
	if !p.FacesUp {
		tilt = math.Pi / 2
	}
	return mgl64.Translate3D(0, p.Y, 0).Mul4(mgl64.HomogRotate3DX(tilt))
}

// Mesh returns the plane in room coordinates.
func (p Plane) Mesh() *kernel.Mesh {
	m := kernel.Quad(p.Length, p.Width).Transform(p.matrix())
	m.PartName, m.Color = p.Name, p.Color
	return m
}

// Wall is one perforated wall slab. The slab spans Width x Height centred on
// Position, extruded Thickness along its local +Z, which faces the room.
type Wall struct {
	Side      Side
	Position  model.Vec3
	Yaw       float64
	Width     float64
	Height    float64
	Thickness float64
	Color     string
	Openings  []Opening
}

// Name is the wall's part name.
func (w Wall) Name() string { return "room/wall/" + w.Side.String() }

// HasDoor reports whether a door is cut into the wall.
func (w Wall) HasDoor() bool { return w.has(OpeningDoor) }

// HasWindow reports whether a window is cut into the wall.
func (w Wall) HasWindow() bool { return w.has(OpeningWindow) }

func (w Wall) has(kind OpeningKind) bool {
	for _, o := range w.Openings {
		if o.Kind == kind {
			return true
		}
	}
	return false
}

// Holes returns the opening rectangles in wall-local coordinates.
func (w Wall) Holes() []graph.Rect {
	holes := make([]graph.Rect, len(w.Openings))
	for i, o := range w.Openings {
		holes[i] = o.Rect
	}
	return holes
}

// Matrix maps wall-local coordinates to room coordinates.
func (w Wall) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(w.Position.X, w.Position.Y, w.Position.Z).
		Mul4(mgl64.HomogRotate3DY(w.Yaw))
}

// Local converts a wall-local point to room coordinates.
func (w Wall) Local(x, y, z float64) model.Vec3 {
	v := mgl64.TransformCoordinate(mgl64.Vec3{x, y, z}, w.Matrix())
	return model.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// Mesh returns the exact triangle mesh of the holed slab in room
// coordinates.
func (w Wall) Mesh() *kernel.Mesh {
	holes := make([]kernel.Rect, len(w.Openings))
	for i, o := range w.Openings {
		holes[i] = kernel.Rect{MinX: o.Rect.MinX, MinY: o.Rect.MinY, MaxX: o.Rect.MaxX, MaxY: o.Rect.MaxY}
	}
	m := kernel.ExtrudeRects(w.Width, w.Height, w.Thickness, holes).Transform(w.Matrix())
	m.PartName, m.Color = w.Name(), w.Color
	return m
}

// Panel is a transparent glazing pane set into a window opening.
type Panel struct {
	Side   Side
	Center model.Vec3 // wall-local
	Width  float64
	Height float64
}

// Layout is the complete static room geometry plus the door leaves.
type Layout struct {
	Config  model.RoomConfig
	Floor   Plane
	Ceiling Plane
	Walls   [4]Wall
	Glazing []Panel
	Doors   []DoorLeaf
}

// Wall returns the wall on the given side.
func (l *Layout) Wall(s Side) Wall {
	return l.Walls[s]
}

// Door returns the leaf with the given id, or nil.
func (l *Layout) Door(id string) *DoorLeaf {
	for i := range l.Doors {
		if l.Doors[i].ID == id {
			return &l.Doors[i]
		}
	}
	return nil
}

// Build computes the room layout for cfg.
//
// Doors go into the back wall, then the left wall. Windows go one per wall
// in the order back, front, left, right. Counts beyond those walls have no
// effect. Openings are clipped to their wall.
func Build(cfg model.RoomConfig) (*Layout, error) {
	if !(cfg.Length > 0) || !(cfg.Width > 0) || !(cfg.Height > 0) {
		return nil, fmt.Errorf("%w: got %gx%gx%g", ErrInvalidDimensions, cfg.Length, cfg.Width, cfg.Height)
	}

	l, w, h := cfg.Length, cfg.Width, cfg.Height
	layout := &Layout{
		Config: cfg,
		Floor: Plane{
			Name: "room/floor", Length: l, Width: w, Y: 0, FacesUp: true,
			Color: FloorColor, Roughness: 0.8,
		},
		Ceiling: Plane{
			Name: "room/ceiling", Length: l, Width: w, Y: h, FacesUp: false,
			Color: CeilingColor, Roughness: 0.9,
		},
	}

	placements := [4]struct {
		pos   model.Vec3
		yaw   float64
		span  float64
		door  bool
		glass bool
	}{
		SideBack:  {model.Vec3{X: 0, Y: h / 2, Z: -w / 2}, 0, l, cfg.Doors >= 1, cfg.Windows >= 1},
		SideFront: {model.Vec3{X: 0, Y: h / 2, Z: w / 2}, math.Pi, l, false, cfg.Windows >= 2},
		SideLeft:  {model.Vec3{X: -l / 2, Y: h / 2, Z: 0}, math.Pi / 2, w, cfg.Doors >= 2, cfg.Windows >= 3},
		SideRight: {model.Vec3{X: l / 2, Y: h / 2, Z: 0}, -math.Pi / 2, w, false, cfg.Windows >= 4},
	}

	for i, p := range placements {
		wall := Wall{
			Side:      Side(i),
			Position:  p.pos,
			Yaw:       p.yaw,
			Width:     p.span,
			Height:    h,
			Thickness: WallThickness,
			Color:     cfg.WallColor,
		}
		hw, hh := p.span/2, h/2

		if p.door {
			r, ok := clip(graph.Rect{MinX: -DoorWidth / 2, MinY: -hh, MaxX: DoorWidth / 2, MaxY: -hh + DoorHeight}, hw, hh)
			if ok {
				wall.Openings = append(wall.Openings, Opening{Kind: OpeningDoor, Rect: r})
				layout.Doors = append(layout.Doors, newDoorLeaf(wall, r))
			}
		}
		if p.glass {
			top := hh - WindowHeadroom
			r, ok := clip(graph.Rect{MinX: -WindowWidth / 2, MinY: top - WindowHeight, MaxX: WindowWidth / 2, MaxY: top}, hw, hh)
			if ok {
				wall.Openings = append(wall.Openings, Opening{Kind: OpeningWindow, Rect: r})
				layout.Glazing = append(layout.Glazing, Panel{
					Side:   wall.Side,
					Center: model.Vec3{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2, Z: WallThickness/2 + glazingOffset},
					Width:  r.MaxX - r.MinX,
					Height: r.MaxY - r.MinY,
				})
			}
		}
		layout.Walls[i] = wall
	}

	return layout, nil
}

// clip limits r to the wall outline. It reports false when nothing is left.
func clip(r graph.Rect, hw, hh float64) (graph.Rect, bool) {
	r.MinX = max(r.MinX, -hw)
	r.MaxX = min(r.MaxX, hw)
	r.MinY = max(r.MinY, -hh)
	r.MaxY = min(r.MaxY, hh)
	return r, r.MinX < r.MaxX && r.MinY < r.MaxY
}
