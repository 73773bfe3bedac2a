package graph

// Vec3 is a vector in meters (positions) or radians (Euler rotations).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Rect is an axis-aligned rectangle in a primitive's local XY plane.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// ---------------------------------------------------------------------------
// Material
// ---------------------------------------------------------------------------

// MaterialSpec describes how a primitive is shaded by the frontend.
type MaterialSpec struct {
	Color       string  `json:"color"`
	Opacity     float64 `json:"opacity,omitempty"` // 0 means opaque
	Roughness   float64 `json:"roughness,omitempty"`
	DoubleSided bool    `json:"double_sided,omitempty"`
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// BoxData is a box centered on its local origin.
type BoxData struct {
	Size     Vec3         `json:"size"`
	Material MaterialSpec `json:"material"`
}

func (BoxData) nodeData() {}

// CylinderData is a (possibly tapered) cylinder along the local Y axis,
// centered on its origin.
type CylinderData struct {
	Height       float64      `json:"height"`
	RadiusTop    float64      `json:"radius_top"`
	RadiusBottom float64      `json:"radius_bottom"`
	Material     MaterialSpec `json:"material"`
}

func (CylinderData) nodeData() {}

// ConeData is a cone along the local Y axis with its apex up, centered on its
// origin.
type ConeData struct {
	Height   float64      `json:"height"`
	Radius   float64      `json:"radius"`
	Material MaterialSpec `json:"material"`
}

func (ConeData) nodeData() {}

// SphereData is a sphere centered on its origin.
type SphereData struct {
	Radius   float64      `json:"radius"`
	Material MaterialSpec `json:"material"`
}

func (SphereData) nodeData() {}

// PlaneData is a zero-thickness rectangle in the local XY plane facing +Z,
// centered on its origin.
type PlaneData struct {
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	Material MaterialSpec `json:"material"`
}

func (PlaneData) nodeData() {}

// SlabData is a rectangle centered on its local origin with rectangular
// holes cut out, extruded along +Z from z = 0 to z = Depth.
type SlabData struct {
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	Depth    float64      `json:"depth"`
	Holes    []Rect       `json:"holes,omitempty"`
	Material MaterialSpec `json:"material"`
}

func (SlabData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData positions its children. Rotation is applied first (Euler
// angles in radians, X then Y then Z), then Translation.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"`
}

func (TransformData) nodeData() {}

// At is shorthand for a translation-only transform.
func At(x, y, z float64) TransformData {
	return TransformData{Translation: &Vec3{X: x, Y: y, Z: z}}
}

// AtYaw is shorthand for a yaw followed by a translation.
func AtYaw(x, y, z, yaw float64) TransformData {
	return TransformData{
		Translation: &Vec3{X: x, Y: y, Z: z},
		Rotation:    &Vec3{Y: yaw},
	}
}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
