package room

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/roomkit/pkg/graph"
	"github.com/chazu/roomkit/pkg/kernel/sdfx"
	"github.com/chazu/roomkit/pkg/model"
	"github.com/chazu/roomkit/pkg/tessellate"
)

func cfg(doors, windows int) model.RoomConfig {
	c := model.DefaultRoomConfig()
	c.Doors, c.Windows = doors, windows
	return c
}

func mustBuild(t *testing.T, c model.RoomConfig) *Layout {
	t.Helper()
	l, err := Build(c)
	if err != nil {
		t.Fatalf("Build(%+v) error = %v", c, err)
	}
	return l
}

func TestOpeningAssignment(t *testing.T) {
	type openings struct{ door, window bool }
	tests := []struct {
		name    string
		doors   int
		windows int
		want    [4]openings // back, front, left, right
	}{
		{"none", 0, 0, [4]openings{}},
		{"one door two windows", 1, 2, [4]openings{
			SideBack:  {door: true, window: true},
			SideFront: {window: true},
		}},
		{"two doors four windows", 2, 4, [4]openings{
			SideBack:  {door: true, window: true},
			SideFront: {window: true},
			SideLeft:  {door: true, window: true},
			SideRight: {window: true},
		}},
		{"saturated", 5, 10, [4]openings{
			SideBack:  {door: true, window: true},
			SideFront: {window: true},
			SideLeft:  {door: true, window: true},
			SideRight: {window: true},
		}},
		{"three windows", 0, 3, [4]openings{
			SideBack:  {window: true},
			SideFront: {window: true},
			SideLeft:  {window: true},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mustBuild(t, cfg(tt.doors, tt.windows))
			for side, want := range tt.want {
				w := l.Walls[side]
				if w.HasDoor() != want.door || w.HasWindow() != want.window {
					t.Errorf("%s wall: door=%v window=%v, want door=%v window=%v",
						w.Side, w.HasDoor(), w.HasWindow(), want.door, want.window)
				}
			}
		})
	}
}

func TestSaturationMatchesMaximum(t *testing.T) {
	a := mustBuild(t, cfg(2, 4))
	b := mustBuild(t, cfg(5, 10))
	if len(a.Doors) != len(b.Doors) || len(a.Glazing) != len(b.Glazing) {
		t.Fatalf("saturated layout differs: %d/%d doors, %d/%d panes",
			len(a.Doors), len(b.Doors), len(a.Glazing), len(b.Glazing))
	}
	if len(b.Doors) != 2 || len(b.Glazing) != 4 {
		t.Errorf("got %d doors and %d panes, want 2 and 4", len(b.Doors), len(b.Glazing))
	}
}

func TestWallPlacement(t *testing.T) {
	c := model.DefaultRoomConfig() // 5 x 4 x 3
	l := mustBuild(t, c)

	tests := []struct {
		side  Side
		pos   model.Vec3
		yaw   float64
		width float64
	}{
		{SideBack, model.Vec3{X: 0, Y: 1.5, Z: -2}, 0, 5},
		{SideFront, model.Vec3{X: 0, Y: 1.5, Z: 2}, math.Pi, 5},
		{SideLeft, model.Vec3{X: -2.5, Y: 1.5, Z: 0}, math.Pi / 2, 4},
		{SideRight, model.Vec3{X: 2.5, Y: 1.5, Z: 0}, -math.Pi / 2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			w := l.Wall(tt.side)
			if w.Position != tt.pos {
				t.Errorf("position = %+v, want %+v", w.Position, tt.pos)
			}
			if w.Yaw != tt.yaw {
				t.Errorf("yaw = %v, want %v", w.Yaw, tt.yaw)
			}
			if w.Width != tt.width || w.Height != 3 || w.Thickness != WallThickness {
				t.Errorf("size = %vx%vx%v", w.Width, w.Height, w.Thickness)
			}
			if w.Color != c.WallColor {
				t.Errorf("color = %q, want %q", w.Color, c.WallColor)
			}
		})
	}
}

func TestOpeningFootprints(t *testing.T) {
	l := mustBuild(t, cfg(1, 1))
	back := l.Wall(SideBack)
	if len(back.Openings) != 2 {
		t.Fatalf("back wall openings = %d, want 2", len(back.Openings))
	}

	door, window := back.Openings[0], back.Openings[1]
	if door.Kind != OpeningDoor || window.Kind != OpeningWindow {
		t.Fatalf("opening kinds = %v, %v", door.Kind, window.Kind)
	}

	const eps = 1e-9
	// Door sits on the floor, horizontally centred.
	if door.Rect.MinY != -1.5 || math.Abs(door.Height()-DoorHeight) > eps || math.Abs(door.Width()-DoorWidth) > eps {
		t.Errorf("door rect = %+v", door.Rect)
	}
	if door.Rect.MinX != -door.Rect.MaxX {
		t.Errorf("door not centred: %+v", door.Rect)
	}
	// Window top is 0.5 below the ceiling.
	if math.Abs(window.Rect.MaxY-(1.5-WindowHeadroom)) > eps {
		t.Errorf("window top = %v, want %v", window.Rect.MaxY, 1.5-WindowHeadroom)
	}
	if math.Abs(window.Width()-WindowWidth) > eps || math.Abs(window.Height()-WindowHeight) > eps {
		t.Errorf("window rect = %+v", window.Rect)
	}
}

func TestOpeningsClippedToLowWall(t *testing.T) {
	c := cfg(1, 1)
	c.Height = 1.2
	l := mustBuild(t, c)
	for _, o := range l.Wall(SideBack).Openings {
		if o.Rect.MinY < -0.6 || o.Rect.MaxY > 0.6 {
			t.Errorf("%v exceeds wall: %+v", o.Kind, o.Rect)
		}
	}
	if errs := graph.Validate(l.Graph()); graph.HasErrors(errs) {
		t.Errorf("clipped layout should validate: %v", errs)
	}
}

func TestBuildRejectsNonPositive(t *testing.T) {
	for _, c := range []model.RoomConfig{
		{Length: 0, Width: 4, Height: 3},
		{Length: 5, Width: -1, Height: 3},
		{Length: 5, Width: 4, Height: 0},
		{Length: math.NaN(), Width: 4, Height: 3},
	} {
		if _, err := Build(c); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("Build(%+v) error = %v, want ErrInvalidDimensions", c, err)
		}
	}
}

func TestOutOfRangeButPositiveAccepted(t *testing.T) {
	c := cfg(1, 2)
	c.Length = 40
	if _, err := Build(c); err != nil {
		t.Errorf("Build error = %v", err)
	}
}

func TestFloorAndCeiling(t *testing.T) {
	l := mustBuild(t, model.DefaultRoomConfig())

	floor := l.Floor.Mesh()
	min, max := floor.Bounds()
	if math.Abs(min[1]) > 1e-9 || math.Abs(max[1]) > 1e-9 {
		t.Errorf("floor y = %v..%v, want 0", min[1], max[1])
	}
	if math.Abs(max[0]-2.5) > 1e-6 || math.Abs(max[2]-2) > 1e-6 {
		t.Errorf("floor extent = %v", max)
	}
	if floor.Normals[1] < 0.99 {
		t.Errorf("floor normal = %v, want +Y", floor.Normals[0:3])
	}
	if floor.Color != FloorColor {
		t.Errorf("floor color = %q", floor.Color)
	}

	ceiling := l.Ceiling.Mesh()
	if ceiling.Normals[1] > -0.99 {
		t.Errorf("ceiling normal = %v, want -Y", ceiling.Normals[0:3])
	}
	_, max = ceiling.Bounds()
	if math.Abs(max[1]-3) > 1e-6 {
		t.Errorf("ceiling y = %v, want 3", max[1])
	}
}

func TestWallMesh(t *testing.T) {
	l := mustBuild(t, cfg(1, 0))
	m := l.Wall(SideBack).Mesh()
	// Door splits the back wall into 5 cells: 10 faces, 9 rim faces, 3 reveals.
	if m.TriangleCount() != 44 {
		t.Errorf("triangles = %d, want 44", m.TriangleCount())
	}
	min, max := m.Bounds()
	if math.Abs(min[2]+2) > 1e-6 || math.Abs(max[2]+1.9) > 1e-6 {
		t.Errorf("back wall z = %v..%v, want -2..-1.9", min[2], max[2])
	}
	if math.Abs(min[1]) > 1e-6 || math.Abs(max[1]-3) > 1e-6 {
		t.Errorf("back wall y = %v..%v, want 0..3", min[1], max[1])
	}

	plain := l.Wall(SideRight).Mesh()
	if plain.TriangleCount() != 12 {
		t.Errorf("plain wall triangles = %d, want 12", plain.TriangleCount())
	}
}

func TestGlazing(t *testing.T) {
	l := mustBuild(t, cfg(0, 2))
	if len(l.Glazing) != 2 {
		t.Fatalf("panes = %d, want 2", len(l.Glazing))
	}
	p := l.Glazing[0]
	if p.Side != SideBack || p.Width != WindowWidth || math.Abs(p.Height-WindowHeight) > 1e-9 {
		t.Errorf("pane = %+v", p)
	}
	if math.Abs(p.Center.Y-(1.5-1)) > 1e-9 {
		t.Errorf("pane centre y = %v, want 0.5 (wall-local)", p.Center.Y)
	}
}

func TestGraphTessellates(t *testing.T) {
	l := mustBuild(t, cfg(2, 4))
	g := l.Graph()
	if errs := graph.Validate(g); len(errs) != 0 {
		t.Fatalf("graph findings: %v", errs)
	}

	meshes, err := tessellate.Tessellate(g, sdfx.New())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	// floor, ceiling, 4 walls, 4 panes, 2 door leaves.
	if len(meshes) != 12 {
		t.Fatalf("meshes = %d, want 12", len(meshes))
	}
	panes := 0
	for _, m := range meshes {
		if m.Color == GlazingColor {
			panes++
			if m.Opacity != GlazingOpacity {
				t.Errorf("pane opacity = %v", m.Opacity)
			}
		}
	}
	if panes != 4 {
		t.Errorf("glazing meshes = %d, want 4", panes)
	}
}
