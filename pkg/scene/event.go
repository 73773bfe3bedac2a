package scene

import "github.com/chazu/roomkit/pkg/raycast"

// EventType is the kind of pointer event.
type EventType string

const (
	EventDown  EventType = "down"
	EventMove  EventType = "move"
	EventUp    EventType = "up"
	EventEnter EventType = "enter"
	EventLeave EventType = "leave"
)

// TargetKind is what the pointer is over.
type TargetKind string

const (
	TargetBackground TargetKind = "background"
	TargetItem       TargetKind = "item"
	TargetOverlay    TargetKind = "overlay"
	TargetRotate     TargetKind = "rotate"
	TargetResize     TargetKind = "resize"
	TargetDelete     TargetKind = "delete"
	TargetDoor       TargetKind = "door"
)

// Target identifies the object under the pointer. ID is an item id for
// item, overlay and control targets and a door id for door targets.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id,omitempty"`
}

// Event is one pointer event from the frontend. Viewport and Camera, when
// set, update the view used for ray mapping before the event is routed.
type Event struct {
	Type     EventType         `json:"type"`
	Target   Target            `json:"target"`
	Pointer  raycast.Pointer   `json:"pointer"`
	Button   int               `json:"button"`
	Viewport *raycast.Viewport `json:"viewport,omitempty"`
	Camera   *raycast.Camera   `json:"camera,omitempty"`
}

// Result reports how an event was routed. Camera is true when the frontend
// should pass the event on to its orbit controls.
type Result struct {
	Handled bool `json:"handled"`
	Camera  bool `json:"camera"`
}
