package scene

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/chazu/roomkit/pkg/furniture"
	"github.com/chazu/roomkit/pkg/interact"
	"github.com/chazu/roomkit/pkg/kernel"
	"github.com/chazu/roomkit/pkg/model"
	"github.com/chazu/roomkit/pkg/raycast"
	"github.com/chazu/roomkit/pkg/room"
	"github.com/chazu/roomkit/pkg/tessellate"
	"github.com/go-gl/mathgl/mgl64"
)

const resizeOutline = interact.ResizeOutline

// Store is the part of the design store the composer reads and the
// controllers write.
type Store interface {
	interact.Store
	RoomConfig() model.RoomConfig
	FurnitureItems() []model.FurnitureItem
	IsDraggingFurniture() bool
	GestureOwner() string
}

// Option configures a Composer.
type Option func(*Composer)

// WithScheduler sets the scheduler behind the controllers' hover timers.
func WithScheduler(s interact.Scheduler) Option {
	return func(c *Composer) { c.sched = s }
}

// WithHoverGrace overrides interact.HoverGrace.
func WithHoverGrace(d time.Duration) Option {
	return func(c *Composer) { c.grace = d }
}

// WithOnChange registers fn to run when the scene changes on a timer. It is
// called with the composer locked and must not call back into it.
func WithOnChange(fn func()) Option {
	return func(c *Composer) { c.onChange = fn }
}

// WithCamera sets the initial camera.
func WithCamera(cam raycast.Camera) Option {
	return func(c *Composer) { c.camera = cam }
}

type meshKey struct {
	typ  string
	size model.Size
}

// Composer owns the controllers, the room layout and the mesh caches.
type Composer struct {
	mu       sync.Mutex
	store    Store
	kernel   kernel.Kernel
	disp     *interact.Dispatcher
	sched    interact.Scheduler
	grace    time.Duration
	onChange func()

	viewport raycast.Viewport
	camera   raycast.Camera

	ctls   map[string]*interact.Controller
	layout *room.Layout
	shell  []*kernel.Mesh
	leaves map[[2]float64]*kernel.Mesh
	meshes map[meshKey][]*kernel.Mesh
}

// New returns a composer over st that meshes furniture with k. Call Sync
// (or any routing method) to pick up the store's current state.
func New(st Store, k kernel.Kernel, opts ...Option) *Composer {
	c := &Composer{
		store:  st,
		kernel: k,
		disp:   interact.NewDispatcher(),
		sched:  interact.TimerScheduler{},
		grace:  interact.HoverGrace,
		camera: raycast.DefaultCamera(),
		ctls:   make(map[string]*interact.Controller),
		leaves: make(map[[2]float64]*kernel.Mesh),
		meshes: make(map[meshKey][]*kernel.Mesh),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Sync rebuilds the room layout when the configuration changed and
// reconciles controllers with the store's items.
func (c *Composer) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncLocked()
}

func (c *Composer) syncLocked() error {
	cfg := c.store.RoomConfig()
	if c.layout == nil || c.layout.Config != cfg {
		layout, err := room.Build(cfg)
		if err != nil {
			return fmt.Errorf("scene: building room: %w", err)
		}
		c.layout = layout
		c.shell = nil
	}

	items := c.store.FurnitureItems()
	live := make(map[string]bool, len(items))
	for _, it := range items {
		live[it.ID] = true
		if _, ok := c.ctls[it.ID]; !ok {
			c.ctls[it.ID] = interact.NewController(it.ID, c.store, c.mapper(), c.disp,
				interact.WithScheduler(interact.LockedScheduler{L: &c.mu, Inner: c.sched}),
				interact.WithHoverGrace(c.grace),
				interact.WithOnChange(c.onChange),
			)
		}
	}
	owner := c.store.GestureOwner()
	for id, ctl := range c.ctls {
		if !live[id] {
			ctl.Close()
			delete(c.ctls, id)
			continue
		}
		// Loading or resetting a design frees the lock under a live gesture.
		if id != owner && ctl.Abort() {
			log.Printf("scene: gesture on %s ended by a store reset", id)
		}
	}
	return nil
}

// mapper projects through the current view. It runs with the lock held.
func (c *Composer) mapper() interact.Mapper {
	return interact.MapperFunc(func(p raycast.Pointer) (mgl64.Vec3, bool) {
		return raycast.GroundPoint(p, c.viewport, c.camera)
	})
}

// Controller returns the controller for item id, or nil.
func (c *Composer) Controller(id string) *interact.Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctls[id]
}

// CameraEnabled reports whether orbit navigation may run.
func (c *Composer) CameraEnabled() bool {
	return !c.store.IsDraggingFurniture()
}

// SetView updates the viewport and camera used for ray mapping.
func (c *Composer) SetView(vp raycast.Viewport, cam raycast.Camera) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport, c.camera = vp, cam
}

// HandlePointer routes ev. Move and up go to the active gesture first.
// Events nobody handles go to the camera while it is enabled.
func (c *Composer) HandlePointer(ev Event) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ev.Viewport != nil {
		c.viewport = *ev.Viewport
	}
	if ev.Camera != nil {
		c.camera = *ev.Camera
	}
	if err := c.syncLocked(); err != nil {
		return Result{}, err
	}

	handled := c.route(ev) == interact.Handled
	if err := c.syncLocked(); err != nil {
		return Result{}, err
	}
	return Result{Handled: handled, Camera: !handled && c.CameraEnabled()}, nil
}

func (c *Composer) route(ev Event) interact.Result {
	switch ev.Type {
	case EventMove:
		if c.disp.Move(ev.Pointer) {
			return interact.Handled
		}
		return interact.Ignored
	case EventUp:
		if c.disp.Up(ev.Pointer) {
			return interact.Handled
		}
		return interact.Ignored
	}

	if ev.Target.Kind == TargetDoor {
		if ev.Type != EventDown {
			return interact.Ignored
		}
		d := c.layout.Door(ev.Target.ID)
		if d == nil {
			return interact.Ignored
		}
		d.Toggle()
		return interact.Handled
	}

	ctl := c.ctls[ev.Target.ID]
	if ctl == nil {
		return interact.Ignored
	}

	switch ev.Type {
	case EventEnter:
		switch ev.Target.Kind {
		case TargetItem:
			return ctl.PointerEnter()
		case TargetOverlay, TargetRotate, TargetResize, TargetDelete:
			return ctl.OverlayEnter()
		}
	case EventLeave:
		switch ev.Target.Kind {
		case TargetItem, TargetOverlay:
			return ctl.PointerLeave()
		}
	case EventDown:
		switch ev.Target.Kind {
		case TargetItem:
			return ctl.PointerDown(ev.Button)
		case TargetRotate:
			return ctl.Rotate()
		case TargetResize:
			return ctl.StartResize(ev.Pointer)
		case TargetDelete:
			return ctl.Delete()
		}
	}
	return interact.Ignored
}

// Tick advances the door leaves one step and reports whether any moved.
func (c *Composer) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.layout == nil {
		return false
	}
	moved := false
	for i := range c.layout.Doors {
		if c.layout.Doors[i].Tick() {
			moved = true
		}
	}
	return moved
}

// Frame assembles the meshes and interaction state for rendering. Items of
// an unknown type are logged and skipped.
func (c *Composer) Frame() (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.syncLocked(); err != nil {
		return nil, err
	}

	if c.shell == nil {
		shell, err := tessellate.Tessellate(c.layout.ShellGraph(), c.kernel)
		if err != nil {
			return nil, fmt.Errorf("scene: meshing room: %w", err)
		}
		c.shell = shell
	}

	f := &Frame{
		Room:          c.shell,
		Doors:         make([]DoorFrame, 0, len(c.layout.Doors)),
		Items:         []ItemFrame{},
		Camera:        c.camera,
		Orbit:         Orbit{MinDistance: OrbitMinDistance, MaxDistance: OrbitMaxDistance, MaxPolarAngle: OrbitMaxPolarAngle},
		CameraEnabled: c.CameraEnabled(),
	}

	for _, d := range c.layout.Doors {
		leaf, err := c.leafMesh(d.Width, d.Height)
		if err != nil {
			return nil, err
		}
		m := mgl64.Translate3D(d.Hinge.X, d.Hinge.Y, d.Hinge.Z).Mul4(mgl64.HomogRotate3DY(d.WorldYaw()))
		mesh := leaf.Transform(m)
		mesh.PartName = "room/" + d.ID
		f.Doors = append(f.Doors, DoorFrame{ID: d.ID, Open: d.Open(), Angle: d.Angle, Mesh: mesh})
	}

	used := make(map[meshKey][]*kernel.Mesh)
	for _, it := range c.store.FurnitureItems() {
		ctl := c.ctls[it.ID]

		// A resize reuses the meshes of its starting size, stretched by the
		// item matrix, until the gesture ends.
		meshSize, stretch := it.Size, mgl64.Ident4()
		if ctl != nil {
			if base, ok := ctl.ResizeBase(); ok {
				meshSize = base
				stretch = mgl64.Scale3D(it.Size.W/base.W, it.Size.H/base.H, it.Size.D/base.D)
			}
		}

		key := meshKey{typ: it.Type, size: meshSize}
		meshes, ok := used[key]
		if !ok {
			meshes, ok = c.meshes[key]
		}
		if !ok {
			var err error
			meshes, err = c.furnitureMeshes(it.Type, meshSize)
			if err != nil {
				log.Printf("scene: skipping item %s: %v", it.ID, err)
				continue
			}
		}
		used[key] = meshes

		item := ItemFrame{
			ID:       it.ID,
			Type:     it.Type,
			Name:     it.Name,
			Position: it.Position,
			Rotation: it.Rotation,
			Size:     it.Size,
			Matrix:   itemMatrix(it).Mul4(stretch),
			Meshes:   tint(meshes, it.Color),
			State:    interact.Idle.String(),
		}
		if ctl != nil {
			item.State = ctl.State().String()
			item.ControlsVisible = ctl.ControlsVisible()
			item.Outline = outline(ctl.Outline(), it.Size)
		}
		f.Items = append(f.Items, item)
	}
	c.meshes = used

	return f, nil
}

func (c *Composer) leafMesh(w, h float64) (*kernel.Mesh, error) {
	key := [2]float64{w, h}
	if m, ok := c.leaves[key]; ok {
		return m, nil
	}
	meshes, err := tessellate.Tessellate(room.LeafGraph(w, h), c.kernel)
	if err != nil {
		return nil, fmt.Errorf("scene: meshing door leaf: %w", err)
	}
	m := kernel.Merge(meshes...)
	m.Color = room.DoorColor
	c.leaves[key] = m
	return m, nil
}

func (c *Composer) furnitureMeshes(typ string, size model.Size) ([]*kernel.Mesh, error) {
	a, err := furniture.Parse(typ)
	if err != nil {
		return nil, err
	}
	meshes, err := tessellate.Tessellate(furniture.Graph(a, size), c.kernel)
	if err != nil {
		return nil, fmt.Errorf("meshing %s: %w", typ, err)
	}
	return meshes, nil
}
