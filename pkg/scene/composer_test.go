package scene

import (
	"math"
	"testing"

	"github.com/chazu/roomkit/pkg/interact"
	"github.com/chazu/roomkit/pkg/kernel"
	"github.com/chazu/roomkit/pkg/model"
	"github.com/chazu/roomkit/pkg/raycast"
	"github.com/chazu/roomkit/pkg/room"
	"github.com/chazu/roomkit/pkg/store"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boxKernel tracks bounding boxes only and meshes every solid as a single
// triangle spanning it.
type boxKernel struct{ meshed int }

type boxSolid struct{ min, max [3]float64 }

func (s boxSolid) BoundingBox() (min, max [3]float64) { return s.min, s.max }

func centred(x, y, z float64) kernel.Solid {
	return boxSolid{min: [3]float64{-x / 2, -y / 2, -z / 2}, max: [3]float64{x / 2, y / 2, z / 2}}
}

func (k *boxKernel) Box(x, y, z float64) kernel.Solid { return centred(x, y, z) }
func (k *boxKernel) Cylinder(h, rt, rb float64) kernel.Solid {
	r := math.Max(rt, rb)
	return centred(2*r, h, 2*r)
}
func (k *boxKernel) Cone(h, r float64) kernel.Solid { return centred(2*r, h, 2*r) }
func (k *boxKernel) Sphere(r float64) kernel.Solid { return centred(2*r, 2*r, 2*r) }
func (k *boxKernel) Difference(a, _ kernel.Solid) kernel.Solid { return a }
func (k *boxKernel) Intersection(a, _ kernel.Solid) kernel.Solid { return a }
func (k *boxKernel) Rotate(s kernel.Solid, _, _, _ float64) kernel.Solid { return s }

func (k *boxKernel) Union(a, b kernel.Solid) kernel.Solid {
	amin, amax := a.BoundingBox()
	bmin, bmax := b.BoundingBox()
	var out boxSolid
	for i := range 3 {
		out.min[i] = math.Min(amin[i], bmin[i])
		out.max[i] = math.Max(amax[i], bmax[i])
	}
	return out
}

func (k *boxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	min, max := s.BoundingBox()
	d := [3]float64{x, y, z}
	for i := range 3 {
		min[i] += d[i]
		max[i] += d[i]
	}
	return boxSolid{min: min, max: max}
}

func (k *boxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	k.meshed++
	min, max := s.BoundingBox()
	return &kernel.Mesh{
		Vertices: []float32{
			float32(min[0]), float32(min[1]), float32(min[2]),
			float32(max[0]), float32(min[1]), float32(min[2]),
			float32(max[0]), float32(max[1]), float32(max[2]),
		},
		Normals: []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices: []uint32{0, 1, 2},
	}, nil
}

var (
	testViewport = raycast.Viewport{Width: 800, Height: 600}
	centre       = raycast.Pointer{X: 400, Y: 300}
)

type fixture struct {
	store    *store.Store
	kernel   *boxKernel
	sched    *interact.ManualScheduler
	composer *Composer
	changes  int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  store.New(nil),
		kernel: &boxKernel{},
		sched:  interact.NewManualScheduler(),
	}
	f.composer = New(f.store, f.kernel,
		WithScheduler(f.sched),
		WithOnChange(func() { f.changes++ }),
	)
	f.composer.SetView(testViewport, raycast.DefaultCamera())
	require.NoError(t, f.composer.Sync())
	return f
}

func (f *fixture) add(t *testing.T, typ string, pos model.Vec3) model.FurnitureItem {
	t.Helper()
	it := f.store.AddFurniture(model.FurnitureItem{
		Type:     typ,
		Position: pos,
		Size:     model.Size{W: 2, H: 0.8, D: 1},
		Color:    "#abcdef",
		Name:     typ,
	})
	require.NoError(t, f.composer.Sync())
	return it
}

func (f *fixture) send(t *testing.T, typ EventType, kind TargetKind, id string, p raycast.Pointer) Result {
	t.Helper()
	res, err := f.composer.HandlePointer(Event{Type: typ, Target: Target{Kind: kind, ID: id}, Pointer: p})
	require.NoError(t, err)
	return res
}

func (f *fixture) frame(t *testing.T) *Frame {
	t.Helper()
	fr, err := f.composer.Frame()
	require.NoError(t, err)
	return fr
}

func findItem(t *testing.T, fr *Frame, id string) ItemFrame {
	t.Helper()
	for _, it := range fr.Items {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %s not in frame", id)
	return ItemFrame{}
}

func TestFrameEmptyRoom(t *testing.T) {
	f := newFixture(t)
	fr := f.frame(t)

	// floor, ceiling, four walls, two glazing panels
	assert.Len(t, fr.Room, 8)
	require.Len(t, fr.Doors, 1)
	assert.Equal(t, "door/back", fr.Doors[0].ID)
	assert.False(t, fr.Doors[0].Open)
	assert.Equal(t, room.DoorColor, fr.Doors[0].Mesh.Color)
	assert.Empty(t, fr.Items)
	assert.True(t, fr.CameraEnabled)
	assert.Equal(t, OrbitMaxDistance, fr.Orbit.MaxDistance)
	assert.Equal(t, 0, f.kernel.meshed, "room surfaces do not use the solid kernel")
}

func TestSyncTracksItems(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "sofa", model.Vec3{})
	b := f.add(t, "chair", model.Vec3{X: 1})
	require.NotNil(t, f.composer.Controller(a.ID))
	require.NotNil(t, f.composer.Controller(b.ID))

	ctl := f.composer.Controller(a.ID)
	f.store.RemoveFurniture(a.ID)
	require.NoError(t, f.composer.Sync())
	assert.Nil(t, f.composer.Controller(a.ID))
	assert.Equal(t, interact.Closed, ctl.State())
	assert.NotNil(t, f.composer.Controller(b.ID))
}

func TestDragThroughComposer(t *testing.T) {
	f := newFixture(t)
	it := f.add(t, "chair", model.Vec3{X: 1, Z: 1})

	res := f.send(t, EventDown, TargetItem, it.ID, centre)
	assert.True(t, res.Handled)
	assert.False(t, res.Camera)
	assert.False(t, f.composer.CameraEnabled())

	res = f.send(t, EventMove, TargetBackground, "", centre)
	assert.True(t, res.Handled, "moves go to the active gesture wherever the pointer is")

	got, ok := f.store.Item(it.ID)
	require.True(t, ok)
	assert.InDelta(t, 0, got.Position.X, 1e-9)
	assert.InDelta(t, 0, got.Position.Z, 1e-9)
	assert.Equal(t, 0.0, got.Position.Y)

	res = f.send(t, EventUp, TargetBackground, "", centre)
	assert.True(t, res.Handled)
	assert.True(t, f.composer.CameraEnabled())

	res = f.send(t, EventMove, TargetBackground, "", centre)
	assert.False(t, res.Handled)
	assert.True(t, res.Camera)
}

func TestEventUpdatesView(t *testing.T) {
	f := newFixture(t)
	it := f.add(t, "chair", model.Vec3{X: 1, Z: 1})
	f.send(t, EventDown, TargetItem, it.ID, centre)

	vp := raycast.Viewport{Left: 100, Width: 800, Height: 600}
	_, err := f.composer.HandlePointer(Event{Type: EventMove, Pointer: raycast.Pointer{X: 500, Y: 300}, Viewport: &vp})
	require.NoError(t, err)

	got, _ := f.store.Item(it.ID)
	assert.InDelta(t, 0, got.Position.X, 1e-9, "offset viewport maps its own centre to the target")
}

func TestBackgroundGoesToCamera(t *testing.T) {
	f := newFixture(t)
	res := f.send(t, EventDown, TargetBackground, "", centre)
	assert.Equal(t, Result{Handled: false, Camera: true}, res)

	res = f.send(t, EventDown, TargetItem, "missing", centre)
	assert.Equal(t, Result{Handled: false, Camera: true}, res)
}

func TestCameraDisabledWhileGestureHeld(t *testing.T) {
	f := newFixture(t)
	it := f.add(t, "chair", model.Vec3{})
	other := f.add(t, "lamp", model.Vec3{X: 2})

	f.send(t, EventDown, TargetItem, it.ID, centre)
	res := f.send(t, EventDown, TargetItem, other.ID, centre)
	assert.False(t, res.Handled, "second gesture rejected")
	assert.False(t, res.Camera, "camera stays off during the gesture")
	assert.Equal(t, it.ID, f.store.GestureOwner())
}

func TestControls(t *testing.T) {
	f := newFixture(t)
	it := f.add(t, "sofa", model.Vec3{})

	res := f.send(t, EventDown, TargetRotate, it.ID, centre)
	assert.False(t, res.Handled, "controls hidden until hover")

	f.send(t, EventEnter, TargetItem, it.ID, centre)
	fr := f.frame(t)
	item := findItem(t, fr, it.ID)
	assert.True(t, item.ControlsVisible)
	require.NotNil(t, item.Outline)
	assert.Equal(t, interact.HoverOutline, item.Outline.Color)
	assert.Equal(t, 0.3, item.Outline.Opacity)

	f.send(t, EventLeave, TargetItem, it.ID, centre)
	f.send(t, EventEnter, TargetOverlay, it.ID, centre)
	res = f.send(t, EventDown, TargetRotate, it.ID, centre)
	assert.True(t, res.Handled)
	got, _ := f.store.Item(it.ID)
	assert.InDelta(t, math.Pi/4, got.Rotation, 1e-12)

	res = f.send(t, EventDown, TargetDelete, it.ID, centre)
	assert.True(t, res.Handled)
	_, ok := f.store.Item(it.ID)
	assert.False(t, ok)
	assert.Nil(t, f.composer.Controller(it.ID))
	assert.Empty(t, f.frame(t).Items)
}

func TestResizeOutline(t *testing.T) {
	f := newFixture(t)
	it := f.add(t, "bed", model.Vec3{})
	f.send(t, EventEnter, TargetItem, it.ID, centre)

	res := f.send(t, EventDown, TargetResize, it.ID, raycast.Pointer{X: 100})
	require.True(t, res.Handled)
	f.send(t, EventMove, TargetBackground, "", raycast.Pointer{X: 300})

	item := findItem(t, f.frame(t), it.ID)
	assert.Equal(t, "resizing", item.State)
	assert.False(t, item.ControlsVisible)
	require.NotNil(t, item.Outline)
	assert.Equal(t, interact.ResizeOutline, item.Outline.Color)
	assert.Equal(t, 0.5, item.Outline.Opacity)
	assert.InDelta(t, 4.1, item.Outline.Size.W, 1e-9)
	assert.InDelta(t, 1.7, item.Outline.Size.H, 1e-9)
	assert.InDelta(t, 2.1, item.Outline.Size.D, 1e-9)

	f.send(t, EventUp, TargetBackground, "", raycast.Pointer{X: 300})
	item = findItem(t, f.frame(t), it.ID)
	assert.Equal(t, "idle", item.State)
	assert.Nil(t, item.Outline)
}

func TestResizeStretchesBaselineMeshes(t *testing.T) {
	f := newFixture(t)
	it := f.add(t, "sofa", model.Vec3{})
	f.frame(t)
	meshed := f.kernel.meshed

	f.send(t, EventEnter, TargetItem, it.ID, centre)
	f.send(t, EventDown, TargetResize, it.ID, raycast.Pointer{X: 100})
	for _, x := range []float64{150, 250, 300} {
		f.send(t, EventMove, TargetBackground, "", raycast.Pointer{X: x})
		f.frame(t)
	}
	assert.Equal(t, meshed, f.kernel.meshed, "no meshing while resizing")

	item := findItem(t, f.frame(t), it.ID)
	assert.Equal(t, model.Size{W: 4, H: 1.6, D: 2}, item.Size)
	p := item.Matrix.Mul4x1([4]float64{1, 1, 1, 1})
	assert.InDelta(t, 2, p[0], 1e-9)
	assert.InDelta(t, 2, p[1], 1e-9)
	assert.InDelta(t, 2, p[2], 1e-9)

	f.send(t, EventUp, TargetBackground, "", raycast.Pointer{X: 300})
	item = findItem(t, f.frame(t), it.ID)
	assert.Greater(t, f.kernel.meshed, meshed, "the final size is meshed once")
	assert.Equal(t, mgl64.Ident4(), item.Matrix)
}

func TestStoreResetEndsGesture(t *testing.T) {
	f := newFixture(t)
	it := f.add(t, "chair", model.Vec3{X: 1, Z: 1})
	design := f.store.SaveDesign("Study")

	f.send(t, EventDown, TargetItem, it.ID, centre)
	require.True(t, f.store.IsDraggingFurniture())

	require.True(t, f.store.LoadDesign(design.ID))
	require.False(t, f.store.IsDraggingFurniture())

	res := f.send(t, EventMove, TargetBackground, "", centre)
	assert.False(t, res.Handled, "no listener survives the reset")
	assert.True(t, res.Camera)
	assert.Equal(t, interact.Idle, f.composer.Controller(it.ID).State())

	got, _ := f.store.Item(it.ID)
	assert.Equal(t, model.Vec3{X: 1, Z: 1}, got.Position)

	res = f.send(t, EventDown, TargetItem, it.ID, centre)
	assert.True(t, res.Handled, "a new drag can start")
}

func TestHoverGraceNotifies(t *testing.T) {
	f := newFixture(t)
	it := f.add(t, "chair", model.Vec3{})
	f.send(t, EventEnter, TargetItem, it.ID, centre)
	f.send(t, EventLeave, TargetItem, it.ID, centre)
	assert.True(t, findItem(t, f.frame(t), it.ID).ControlsVisible)

	f.sched.Advance(interact.HoverGrace)
	assert.Equal(t, 1, f.changes)
	assert.False(t, findItem(t, f.frame(t), it.ID).ControlsVisible)
}

func TestDoorToggleAndTick(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.composer.Tick(), "closed door is settled")

	res := f.send(t, EventDown, TargetDoor, "door/back", centre)
	require.True(t, res.Handled)

	ticks := 0
	for f.composer.Tick() {
		ticks++
		require.Less(t, ticks, 1000)
	}
	assert.Greater(t, ticks, 10)

	fr := f.frame(t)
	assert.True(t, fr.Doors[0].Open)
	assert.Equal(t, room.DoorOpenAngle, fr.Doors[0].Angle)

	res = f.send(t, EventDown, TargetDoor, "door/nope", centre)
	assert.False(t, res.Handled)
}

func TestRoomChangeRebuildsLayout(t *testing.T) {
	f := newFixture(t)
	f.send(t, EventDown, TargetDoor, "door/back", centre)
	f.composer.Tick()

	cfg := model.DefaultRoomConfig()
	cfg.Doors, cfg.Windows = 2, 4
	f.store.SetRoomConfig(cfg)

	fr := f.frame(t)
	assert.Len(t, fr.Room, 10)
	require.Len(t, fr.Doors, 2)
	for _, d := range fr.Doors {
		assert.False(t, d.Open, "door state resets with the room")
		assert.Equal(t, 0.0, d.Angle)
	}
}

func TestInvalidRoomIsAnError(t *testing.T) {
	f := newFixture(t)
	cfg := model.DefaultRoomConfig()
	cfg.Height = 0
	f.store.SetRoomConfig(cfg)

	_, err := f.composer.Frame()
	assert.ErrorIs(t, err, room.ErrInvalidDimensions)
}

func TestMeshCache(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "sofa", model.Vec3{})
	b := f.store.AddFurniture(model.FurnitureItem{
		Type: "sofa", Size: model.Size{W: 2, H: 0.8, D: 1}, Color: "#123456",
	})

	fr := f.frame(t)
	assert.Equal(t, 4, f.kernel.meshed, "one sofa mesh set for both items")

	ma, mb := findItem(t, fr, a.ID).Meshes, findItem(t, fr, b.ID).Meshes
	require.Len(t, ma, 4)
	assert.Equal(t, "#abcdef", ma[0].Color)
	assert.Equal(t, "#123456", mb[0].Color)
	assert.Same(t, &ma[0].Vertices[0], &mb[0].Vertices[0])

	f.frame(t)
	assert.Equal(t, 4, f.kernel.meshed, "cached across frames")

	size := model.Size{W: 3, H: 0.8, D: 1}
	f.store.UpdateFurniture(a.ID, model.FurniturePatch{Size: &size})
	f.frame(t)
	assert.Equal(t, 8, f.kernel.meshed, "a new size is meshed once")
}

func TestItemMatrix(t *testing.T) {
	f := newFixture(t)
	it := f.store.AddFurniture(model.FurnitureItem{
		Type: "chair", Position: model.Vec3{X: 1, Z: -2}, Rotation: math.Pi / 2,
		Size: model.Size{W: 1, H: 1, D: 1},
	})
	m := findItem(t, f.frame(t), it.ID).Matrix
	p := m.Mul4x1([4]float64{1, 0, 0, 1})
	assert.InDelta(t, 1, p[0], 1e-9)
	assert.InDelta(t, -3, p[2], 1e-9)
}

func TestUnknownTypeSkipped(t *testing.T) {
	f := newFixture(t)
	f.store.AddFurniture(model.FurnitureItem{Type: "hammock", Size: model.Size{W: 1, H: 1, D: 1}})
	good := f.add(t, "lamp", model.Vec3{})

	fr := f.frame(t)
	require.Len(t, fr.Items, 1)
	assert.Equal(t, good.ID, fr.Items[0].ID)
}
