package store

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/chazu/roomkit/pkg/model"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ErrGestureHeld is returned by BeginGesture when another item owns the
// gesture lock.
var ErrGestureHeld = errors.New("store: gesture held by another item")

// Repository loads and saves the durable subset of the session.
type Repository interface {
	Load() (model.PersistedState, error)
	Save(model.PersistedState) error
}

// Listener is called with the state after every mutation.
type Listener func(Snapshot)

// Snapshot is a consistent, independent copy of the session state.
type Snapshot struct {
	RoomConfig          model.RoomConfig      `json:"roomConfig"`
	FurnitureItems      []model.FurnitureItem `json:"furnitureItems"`
	SavedDesigns        []model.Design        `json:"savedDesigns"`
	CurrentDesignID     string                `json:"currentDesignId,omitempty"`
	CurrentStep         model.Step            `json:"currentStep"`
	IsDraggingFurniture bool                  `json:"isDraggingFurniture"`
	GestureOwner        string                `json:"gestureOwner,omitempty"`
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for design timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator for item and design ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Store is the design session state.
type Store struct {
	mu    sync.Mutex
	repo  Repository
	now   func() time.Time
	newID func() string

	room      model.RoomConfig
	items     []model.FurnitureItem
	saved     []model.Design
	currentID string
	step      model.Step
	gesture   string // owning item id, empty when free

	listeners    map[int]Listener
	nextListener int
}

// New creates a store and loads the durable state from repo. A load failure
// is logged and the store starts empty. A nil repo keeps everything in
// memory.
func New(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:      repo,
		now:       time.Now,
		newID:     uuid.NewString,
		room:      model.DefaultRoomConfig(),
		items:     []model.FurnitureItem{},
		saved:     []model.Design{},
		step:      model.StepDashboard,
		listeners: make(map[int]Listener),
	}
	for _, o := range opts {
		o(s)
	}

	if repo != nil {
		state, err := repo.Load()
		if err != nil {
			log.Printf("store: loading saved designs failed, starting empty: %v", err)
		} else {
			s.saved = lo.Map(state.SavedDesigns, func(d model.Design, _ int) model.Design { return d.Clone() })
			if state.CurrentDesignID != nil {
				s.currentID = *state.CurrentDesignID
			}
		}
	}
	return s
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// RoomConfig returns the active room configuration.
func (s *Store) RoomConfig() model.RoomConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

// FurnitureItems returns a copy of the placed furniture.
func (s *Store) FurnitureItems() []model.FurnitureItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneItems(s.items)
}

// Item returns the item with the given id.
func (s *Store) Item(id string) (model.FurnitureItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Find(s.items, func(it model.FurnitureItem) bool { return it.ID == id })
}

// SavedDesigns returns a deep copy of the saved designs.
func (s *Store) SavedDesigns() []model.Design {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDesigns(s.saved)
}

// CurrentDesignID returns the id of the design being edited, or "".
func (s *Store) CurrentDesignID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// CurrentStep returns the workflow step.
func (s *Store) CurrentStep() model.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Snapshot returns a copy of the whole session.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		RoomConfig:          s.room,
		FurnitureItems:      model.CloneItems(s.items),
		SavedDesigns:        cloneDesigns(s.saved),
		CurrentDesignID:     s.currentID,
		CurrentStep:         s.step,
		IsDraggingFurniture: s.gesture != "",
		GestureOwner:        s.gesture,
	}
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// update runs fn under the lock. When fn reports a change the durable state
// is saved (if persist) and listeners are notified after unlocking.
func (s *Store) update(persist bool, fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	if persist {
		s.saveLocked()
	}
	snap := s.snapshotLocked()
	listeners := lo.Values(s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Store) saveLocked() {
	if s.repo == nil {
		return
	}
	state := model.PersistedState{SavedDesigns: cloneDesigns(s.saved)}
	if s.currentID != "" {
		id := s.currentID
		state.CurrentDesignID = &id
	}
	if err := s.repo.Save(state); err != nil {
		log.Printf("store: saving designs failed: %v", err)
	}
}

// SetRoomConfig replaces the active room configuration.
func (s *Store) SetRoomConfig(cfg model.RoomConfig) {
	s.update(false, func() bool {
		s.room = cfg
		return true
	})
}

// AddFurniture appends item with a fresh id and returns the stored item.
// The rotation is normalized and the size clamped to the minimum.
func (s *Store) AddFurniture(item model.FurnitureItem) model.FurnitureItem {
	s.update(false, func() bool {
		item = item.Normalized()
		item.ID = s.newID()
		s.items = append(s.items, item)
		return true
	})
	return item
}

// UpdateFurniture merges patch into the item with the given id, keeping
// the rotation and size in range. It reports false, changing nothing, when
// no such item exists.
func (s *Store) UpdateFurniture(id string, patch model.FurniturePatch) bool {
	found := false
	s.update(false, func() bool {
		_, i, ok := lo.FindIndexOf(s.items, func(it model.FurnitureItem) bool { return it.ID == id })
		if !ok {
			return false
		}
		found = true
		s.items[i] = patch.Apply(s.items[i]).Normalized()
		return true
	})
	return found
}

// RemoveFurniture removes the item with the given id. It reports false when
// no such item exists. Removing the gesture owner frees the gesture lock.
func (s *Store) RemoveFurniture(id string) bool {
	found := false
	s.update(false, func() bool {
		kept := lo.Filter(s.items, func(it model.FurnitureItem, _ int) bool { return it.ID != id })
		if len(kept) == len(s.items) {
			return false
		}
		found = true
		s.items = kept
		if s.gesture == id {
			s.gesture = ""
		}
		return true
	})
	return found
}

// ClearAllFurniture removes every placed item. Saved designs are untouched.
func (s *Store) ClearAllFurniture() {
	s.update(false, func() bool {
		s.items = []model.FurnitureItem{}
		s.gesture = ""
		return true
	})
}

// SetCurrentStep moves the workflow to step.
func (s *Store) SetCurrentStep(step model.Step) {
	s.update(false, func() bool {
		s.step = step
		return true
	})
}

// SaveDesign snapshots the room and furniture into the current design, or
// into a new design when none is current. An empty name becomes
// "Design N"; overwriting with an empty name keeps the existing name.
func (s *Store) SaveDesign(name string) model.Design {
	var saved model.Design
	s.update(true, func() bool {
		now := s.now()
		_, i, ok := lo.FindIndexOf(s.saved, func(d model.Design) bool { return d.ID == s.currentID })
		if s.currentID != "" && ok {
			d := s.saved[i]
			if name != "" {
				d.Name = name
			}
			d.RoomConfig = s.room
			d.FurnitureItems = model.CloneItems(s.items)
			d.UpdatedAt = now
			s.saved[i] = d
			saved = d.Clone()
			return true
		}

		id := s.currentID
		if id == "" {
			id = s.newID()
		}
		if name == "" {
			name = fmt.Sprintf("Design %d", len(s.saved)+1)
		}
		d := model.Design{
			ID:             id,
			Name:           name,
			RoomConfig:     s.room,
			FurnitureItems: model.CloneItems(s.items),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		s.saved = append(s.saved, d)
		s.currentID = id
		saved = d.Clone()
		return true
	})
	return saved
}

// LoadDesign replaces the room and furniture with a saved design's snapshot,
// makes it current and moves to the design step. It reports false, changing
// nothing, for an unknown id.
func (s *Store) LoadDesign(id string) bool {
	found := false
	s.update(true, func() bool {
		d, ok := lo.Find(s.saved, func(d model.Design) bool { return d.ID == id })
		if !ok {
			return false
		}
		found = true
		s.room = d.RoomConfig
		s.items = lo.Map(d.FurnitureItems, func(it model.FurnitureItem, _ int) model.FurnitureItem { return it.Normalized() })
		s.currentID = d.ID
		s.step = model.StepDesign
		s.gesture = ""
		return true
	})
	return found
}

// DeleteDesign removes a saved design, clearing the current id if it was
// the current design.
func (s *Store) DeleteDesign(id string) {
	s.update(true, func() bool {
		kept := lo.Filter(s.saved, func(d model.Design, _ int) bool { return d.ID != id })
		changed := len(kept) != len(s.saved)
		s.saved = kept
		if s.currentID == id && id != "" {
			s.currentID = ""
			changed = true
		}
		return changed
	})
}

// StartNewDesign resets the room to defaults, clears the furniture and the
// current design and moves to the form step.
func (s *Store) StartNewDesign() {
	s.update(true, func() bool {
		s.room = model.DefaultRoomConfig()
		s.items = []model.FurnitureItem{}
		s.currentID = ""
		s.step = model.StepForm
		s.gesture = ""
		return true
	})
}

// ResetRoom clears the furniture, frees the gesture lock and moves to the
// form step. The room configuration and saved designs are kept.
func (s *Store) ResetRoom() {
	s.update(false, func() bool {
		s.items = []model.FurnitureItem{}
		s.step = model.StepForm
		s.gesture = ""
		return true
	})
}

// ---------------------------------------------------------------------------
// Gesture lock
// ---------------------------------------------------------------------------

// BeginGesture gives the gesture lock to item id. It is idempotent for the
// current owner and fails with ErrGestureHeld while another item holds it.
func (s *Store) BeginGesture(id string) error {
	var err error
	s.update(false, func() bool {
		switch s.gesture {
		case id:
			return false
		case "":
			s.gesture = id
			return true
		default:
			err = fmt.Errorf("%w: %s", ErrGestureHeld, s.gesture)
			return false
		}
	})
	return err
}

// EndGesture frees the gesture lock if id owns it and reports whether it
// did.
func (s *Store) EndGesture(id string) bool {
	released := false
	s.update(false, func() bool {
		if s.gesture == "" || s.gesture != id {
			return false
		}
		s.gesture = ""
		released = true
		return true
	})
	return released
}

// IsDraggingFurniture reports whether a furniture gesture is in progress.
// Camera navigation is disabled while it is true.
func (s *Store) IsDraggingFurniture() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gesture != ""
}

// GestureOwner returns the id of the item holding the gesture lock, or "".
func (s *Store) GestureOwner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gesture
}

// ---------------------------------------------------------------------------
// Listeners
// ---------------------------------------------------------------------------

// Subscribe registers fn to run after every mutation and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func cloneDesigns(ds []model.Design) []model.Design {
	out := make([]model.Design, len(ds))
	for i, d := range ds {
		out[i] = d.Clone()
	}
	return out
}
