package interact

import (
	"sync"

	"github.com/chazu/roomkit/pkg/raycast"
)

// PointerListener receives window-level pointer events.
type PointerListener func(p raycast.Pointer)

// Dispatcher delivers window-level pointer-move and pointer-up events to the
// listeners of an active gesture, regardless of what is under the pointer.
type Dispatcher struct {
	mu    sync.Mutex
	next  int
	moves map[int]PointerListener
	ups   map[int]PointerListener
	order []int
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		moves: make(map[int]PointerListener),
		ups:   make(map[int]PointerListener),
	}
}

// Handle is a listener registration. Remove is idempotent.
type Handle struct {
	d    *Dispatcher
	id   int
	once sync.Once
}

// Remove unregisters the listener.
func (h *Handle) Remove() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.d.mu.Lock()
		defer h.d.mu.Unlock()
		delete(h.d.moves, h.id)
		delete(h.d.ups, h.id)
		for i, id := range h.d.order {
			if id == h.id {
				h.d.order = append(h.d.order[:i], h.d.order[i+1:]...)
				break
			}
		}
	})
}

// OnMove registers fn for pointer-move events.
func (d *Dispatcher) OnMove(fn PointerListener) *Handle {
	return d.add(d.moves, fn)
}

// OnUp registers fn for pointer-up events.
func (d *Dispatcher) OnUp(fn PointerListener) *Handle {
	return d.add(d.ups, fn)
}

func (d *Dispatcher) add(set map[int]PointerListener, fn PointerListener) *Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.next
	d.next++
	set[id] = fn
	d.order = append(d.order, id)
	return &Handle{d: d, id: id}
}

// Move delivers a pointer-move and reports whether any listener got it.
func (d *Dispatcher) Move(p raycast.Pointer) bool {
	return d.dispatch(d.moves, p)
}

// Up delivers a pointer-up and reports whether any listener got it.
func (d *Dispatcher) Up(p raycast.Pointer) bool {
	return d.dispatch(d.ups, p)
}

// dispatch calls the listeners registered at the time of the call, in
// registration order, without holding the lock.
func (d *Dispatcher) dispatch(set map[int]PointerListener, p raycast.Pointer) bool {
	d.mu.Lock()
	var fns []PointerListener
	for _, id := range d.order {
		if fn, ok := set[id]; ok {
			fns = append(fns, fn)
		}
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
	return len(fns) > 0
}

// Active reports whether any listener is registered.
func (d *Dispatcher) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order) > 0
}

// Len returns the number of registered listeners.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order)
}
