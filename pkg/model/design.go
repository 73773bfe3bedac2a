package model

import "time"

// Design is a saved snapshot of a room and its furniture.
type Design struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	RoomConfig     RoomConfig      `json:"roomConfig"`
	FurnitureItems []FurnitureItem `json:"furnitureItems"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Clone returns a deep copy of d.
func (d Design) Clone() Design {
	d.FurnitureItems = CloneItems(d.FurnitureItems)
	return d
}

// Step is the workflow state of the editing session.
type Step string

const (
	StepDashboard Step = "dashboard"
	StepForm      Step = "form"
	StepDesign    Step = "design"
)

// PersistedState is the durable subset of the session.
type PersistedState struct {
	SavedDesigns    []Design `json:"savedDesigns"`
	CurrentDesignID *string  `json:"currentDesignId"`
}
