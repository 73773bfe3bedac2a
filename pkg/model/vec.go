package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vec3 is a position in room space, in meters. Y is up; the floor is y = 0.
// It serializes as a JSON array [x, y, z].
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{v.X, v.Y, v.Z})
}

func (v *Vec3) UnmarshalJSON(b []byte) error {
	var a [3]float64
	if err := json.Unmarshal(b, &a); err != nil {
		return fmt.Errorf("vec3: %w", err)
	}
	v.X, v.Y, v.Z = a[0], a[1], a[2]
	return nil
}

// MinDimension is the smallest extent any furniture axis may shrink to.
const MinDimension = 0.3

// Size is a furniture bounding extent (width, height, depth) in meters.
// It serializes as a JSON array [w, h, d].
type Size struct {
	W, H, D float64
}

// Clamp raises each axis to MinDimension independently.
func (s Size) Clamp() Size {
	return Size{
		W: math.Max(MinDimension, s.W),
		H: math.Max(MinDimension, s.H),
		D: math.Max(MinDimension, s.D),
	}
}

// Scale multiplies every dimension by f and clamps each axis to
// MinDimension independently.
func (s Size) Scale(f float64) Size {
	return Size{W: s.W * f, H: s.H * f, D: s.D * f}.Clamp()
}

func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{s.W, s.H, s.D})
}

func (s *Size) UnmarshalJSON(b []byte) error {
	var a [3]float64
	if err := json.Unmarshal(b, &a); err != nil {
		return fmt.Errorf("size: %w", err)
	}
	s.W, s.H, s.D = a[0], a[1], a[2]
	return nil
}

// NormalizeAngle maps a yaw in radians into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}
