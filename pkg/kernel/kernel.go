// Package kernel defines the abstract geometry kernel interface used to
// turn furniture primitives into triangle meshes, plus exact meshers for
// the flat room surfaces (walls with openings, floor and ceiling planes)
// that do not need a solid modeller.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
// All primitives are centred on the origin; round primitives run along +Y.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radiusTop, radiusBottom float64) Solid
	Cone(height, radius float64) Solid // apex at +Y
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in radians, applied X then Y then Z

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
