package interact

import (
	"math"
	"time"

	"github.com/chazu/roomkit/pkg/model"
	"github.com/chazu/roomkit/pkg/raycast"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// HoverGrace is how long controls stay visible after the pointer leaves.
	HoverGrace = 500 * time.Millisecond

	// ResizeSensitivity is the horizontal pointer travel, in pixels, that
	// doubles an item's size.
	ResizeSensitivity = 200.0

	// RotateStep is the yaw added by one Rotate.
	RotateStep = math.Pi / 4

	// PrimaryButton is the pointer button that starts a drag.
	PrimaryButton = 0
)

// Outline colours.
const (
	HoverOutline  = "#4f46e5"
	ResizeOutline = "#10b981"
)

// State is the gesture state of a controller.
type State int

const (
	Idle State = iota
	Hovered
	Dragging
	Resizing
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Hovered:
		return "hovered"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Result tells the caller whether an event was consumed. A Handled event
// must not propagate to the camera.
type Result int

const (
	Ignored Result = iota
	Handled
)

// Store is the part of the design store a controller writes to.
type Store interface {
	Item(id string) (model.FurnitureItem, bool)
	UpdateFurniture(id string, patch model.FurniturePatch) bool
	RemoveFurniture(id string) bool
	BeginGesture(id string) error
	EndGesture(id string) bool
}

// Mapper projects a pointer onto the floor.
type Mapper interface {
	GroundPoint(p raycast.Pointer) (mgl64.Vec3, bool)
}

// MapperFunc adapts a function to Mapper.
type MapperFunc func(p raycast.Pointer) (mgl64.Vec3, bool)

func (f MapperFunc) GroundPoint(p raycast.Pointer) (mgl64.Vec3, bool) { return f(p) }

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler sets the scheduler for the hover grace timer.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithHoverGrace overrides HoverGrace.
func WithHoverGrace(d time.Duration) Option {
	return func(c *Controller) { c.grace = d }
}

// WithOnChange registers fn to run when controls hide on a timer, the only
// change not caused by a call on the controller.
func WithOnChange(fn func()) Option {
	return func(c *Controller) { c.onChange = fn }
}

// Controller is the transform state machine of one furniture item.
type Controller struct {
	id       string
	store    Store
	mapper   Mapper
	disp     *Dispatcher
	sched    Scheduler
	grace    time.Duration
	onChange func()

	state    State
	controls bool
	hide     Stopper
	hideSeq  int
	handles  []*Handle

	baseSize model.Size
	startX   float64
}

// NewController returns an idle controller for item id.
func NewController(id string, st Store, m Mapper, d *Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		id:     id,
		store:  st,
		mapper: m,
		disp:   d,
		sched:  TimerScheduler{},
		grace:  HoverGrace,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ID returns the item id.
func (c *Controller) ID() string { return c.id }

// State returns the current state.
func (c *Controller) State() State { return c.state }

// ResizeBase returns the size captured when the current resize began. It
// reports false outside a resize.
func (c *Controller) ResizeBase() (model.Size, bool) {
	if c.state != Resizing {
		return model.Size{}, false
	}
	return c.baseSize, true
}

// ControlsVisible reports whether the rotate/resize/delete overlay shows.
// It is hidden during a gesture.
func (c *Controller) ControlsVisible() bool {
	return c.controls && (c.state == Idle || c.state == Hovered)
}

// Outline returns the selection outline colour, or "" for none.
func (c *Controller) Outline() string {
	switch c.state {
	case Hovered:
		return HoverOutline
	case Resizing:
		return ResizeOutline
	}
	return ""
}

// PointerEnter marks the item hovered and shows its controls.
func (c *Controller) PointerEnter() Result {
	if c.state == Closed {
		return Ignored
	}
	c.cancelHide()
	c.controls = true
	if c.state == Idle {
		c.state = Hovered
	}
	return Handled
}

// OverlayEnter keeps the controls up while the pointer moves onto them.
func (c *Controller) OverlayEnter() Result {
	return c.PointerEnter()
}

// PointerLeave returns a hovered item to Idle. Its controls hide after the
// grace period unless the pointer comes back first.
func (c *Controller) PointerLeave() Result {
	if c.state == Closed {
		return Ignored
	}
	if c.state == Hovered {
		c.state = Idle
	}
	if c.controls {
		c.scheduleHide()
	}
	return Handled
}

func (c *Controller) scheduleHide() {
	c.cancelHide()
	c.hideSeq++
	seq := c.hideSeq
	c.hide = c.sched.AfterFunc(c.grace, func() {
		if c.state == Closed || seq != c.hideSeq {
			return
		}
		c.hide = nil
		if c.state == Hovered {
			return
		}
		c.controls = false
		if c.onChange != nil {
			c.onChange()
		}
	})
}

func (c *Controller) cancelHide() {
	if c.hide != nil {
		c.hide.Stop()
		c.hide = nil
	}
	c.hideSeq++
}

// PointerDown starts a drag on the primary button. It is ignored while
// another item holds the gesture lock.
func (c *Controller) PointerDown(button int) Result {
	if button != PrimaryButton || (c.state != Idle && c.state != Hovered) {
		return Ignored
	}
	if err := c.store.BeginGesture(c.id); err != nil {
		return Ignored
	}
	c.state = Dragging
	c.listen(c.dragMove)
	return Handled
}

// StartResize begins a resize gesture anchored at pointer x.
func (c *Controller) StartResize(p raycast.Pointer) Result {
	if c.state != Idle && c.state != Hovered {
		return Ignored
	}
	item, ok := c.store.Item(c.id)
	if !ok {
		return Ignored
	}
	if err := c.store.BeginGesture(c.id); err != nil {
		return Ignored
	}
	c.baseSize = item.Size
	c.startX = p.X
	c.state = Resizing
	c.listen(c.resizeMove)
	return Handled
}

func (c *Controller) listen(move PointerListener) {
	c.handles = append(c.handles,
		c.disp.OnMove(move),
		c.disp.OnUp(func(raycast.Pointer) { c.endGesture() }),
	)
}

func (c *Controller) dragMove(p raycast.Pointer) {
	if c.state != Dragging {
		return
	}
	hit, ok := c.mapper.GroundPoint(p)
	if !ok {
		return
	}
	item, ok := c.store.Item(c.id)
	if !ok {
		return
	}
	pos := model.Vec3{X: hit.X(), Y: item.Position.Y, Z: hit.Z()}
	c.store.UpdateFurniture(c.id, model.FurniturePatch{Position: &pos})
}

func (c *Controller) resizeMove(p raycast.Pointer) {
	if c.state != Resizing {
		return
	}
	scale := 1 + (p.X-c.startX)/ResizeSensitivity
	size := c.baseSize.Scale(scale)
	c.store.UpdateFurniture(c.id, model.FurniturePatch{Size: &size})
}

func (c *Controller) endGesture() {
	if c.state != Dragging && c.state != Resizing {
		return
	}
	c.removeListeners()
	c.store.EndGesture(c.id)
	c.state = Idle
}

// Abort ends a gesture whose lock this item no longer holds, dropping the
// listeners without touching the store. It reports whether a gesture was
// in progress.
func (c *Controller) Abort() bool {
	if c.state != Dragging && c.state != Resizing {
		return false
	}
	c.removeListeners()
	c.state = Idle
	return true
}

func (c *Controller) removeListeners() {
	for _, h := range c.handles {
		h.Remove()
	}
	c.handles = nil
}

// Rotate adds RotateStep to the item's yaw, keeping it in [0, 2π).
func (c *Controller) Rotate() Result {
	if !c.ControlsVisible() {
		return Ignored
	}
	item, ok := c.store.Item(c.id)
	if !ok {
		return Ignored
	}
	rot := model.NormalizeAngle(item.Rotation + RotateStep)
	c.store.UpdateFurniture(c.id, model.FurniturePatch{Rotation: &rot})
	return Handled
}

// Delete removes the item from the store and closes the controller.
func (c *Controller) Delete() Result {
	if !c.ControlsVisible() {
		return Ignored
	}
	c.Close()
	c.store.RemoveFurniture(c.id)
	return Handled
}

// Close cancels the hover timer, drops gesture listeners and frees the
// gesture lock if this item holds it. It is safe to call more than once.
func (c *Controller) Close() {
	if c.state == Closed {
		return
	}
	c.cancelHide()
	c.removeListeners()
	c.store.EndGesture(c.id)
	c.state = Closed
	c.controls = false
}
