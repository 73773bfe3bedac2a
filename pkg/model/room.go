package model

import (
	"errors"
	"fmt"
)

// RoomType tags the purpose of the room.
type RoomType string

const (
	RoomLivingRoom RoomType = "living-room"
	RoomBedroom    RoomType = "bedroom"
	RoomKitchen    RoomType = "kitchen"
	RoomBathroom   RoomType = "bathroom"
	RoomOffice     RoomType = "office"
	RoomDiningRoom RoomType = "dining-room"
)

// Flooring tags the floor finish.
type Flooring string

const (
	FlooringWood     Flooring = "wood"
	FlooringTile     Flooring = "tile"
	FlooringCarpet   Flooring = "carpet"
	FlooringMarble   Flooring = "marble"
	FlooringLaminate Flooring = "laminate"
)

// Style tags the overall decor style.
type Style string

const (
	StyleModern       Style = "modern"
	StyleTraditional  Style = "traditional"
	StyleMinimalist   Style = "minimalist"
	StyleIndustrial   Style = "industrial"
	StyleScandinavian Style = "scandinavian"
)

// Ranges accepted by the room configuration form.
const (
	MinRoomSide   = 2.0
	MaxRoomSide   = 20.0
	MinRoomHeight = 2.0
	MaxRoomHeight = 6.0
	MaxDoors      = 5
	MaxWindows    = 10
)

// RoomConfig is the declarative room descriptor.
type RoomConfig struct {
	RoomType     RoomType `json:"roomType"`
	Length       float64  `json:"length"`
	Width        float64  `json:"width"`
	Height       float64  `json:"height"`
	Doors        int      `json:"doors"`
	Windows      int      `json:"windows"`
	WallColor    string   `json:"wallColor"`
	FlooringType Flooring `json:"flooringType"`
	Style        Style    `json:"style"`
}

// DefaultRoomConfig returns the descriptor a new design starts from.
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		RoomType:     RoomLivingRoom,
		Length:       5,
		Width:        4,
		Height:       3,
		Doors:        1,
		Windows:      2,
		WallColor:    "#f5f5f5",
		FlooringType: FlooringWood,
		Style:        StyleModern,
	}
}

// Validate checks the descriptor against the form ranges and reports every
// violation at once.
func (c RoomConfig) Validate() error {
	var errs []error
	if c.Length < MinRoomSide || c.Length > MaxRoomSide {
		errs = append(errs, fmt.Errorf("length %.2f outside [%g, %g]", c.Length, MinRoomSide, MaxRoomSide))
	}
	if c.Width < MinRoomSide || c.Width > MaxRoomSide {
		errs = append(errs, fmt.Errorf("width %.2f outside [%g, %g]", c.Width, MinRoomSide, MaxRoomSide))
	}
	if c.Height < MinRoomHeight || c.Height > MaxRoomHeight {
		errs = append(errs, fmt.Errorf("height %.2f outside [%g, %g]", c.Height, MinRoomHeight, MaxRoomHeight))
	}
	if c.Doors < 0 || c.Doors > MaxDoors {
		errs = append(errs, fmt.Errorf("doors %d outside [0, %d]", c.Doors, MaxDoors))
	}
	if c.Windows < 0 || c.Windows > MaxWindows {
		errs = append(errs, fmt.Errorf("windows %d outside [0, %d]", c.Windows, MaxWindows))
	}
	if len(errs) > 0 {
		return fmt.Errorf("room config: %w", errors.Join(errs...))
	}
	return nil
}
