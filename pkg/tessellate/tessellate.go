// Package tessellate walks a scene graph and produces triangle meshes.
// Solid primitives go through a geometry kernel; flat surfaces (planes and
// holed slabs) are meshed exactly. One mesh is produced per primitive.
package tessellate

import (
	"fmt"

	"github.com/chazu/roomkit/pkg/graph"
	"github.com/chazu/roomkit/pkg/kernel"
	"github.com/go-gl/mathgl/mgl64"
)

// frame is one level of placement: rotate, then translate.
type frame struct {
	translation graph.Vec3
	rotation    graph.Vec3
}

func (f frame) matrix() mgl64.Mat4 {
	return mgl64.Translate3D(f.translation.X, f.translation.Y, f.translation.Z).
		Mul4(mgl64.HomogRotate3DZ(f.rotation.Z)).
		Mul4(mgl64.HomogRotate3DY(f.rotation.Y)).
		Mul4(mgl64.HomogRotate3DX(f.rotation.X))
}

// transformStack accumulates nested placements during graph traversal.
// Index 0 is the outermost frame.
type transformStack struct {
	frames []frame
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) push(f frame) {
	ts.frames = append(ts.frames, f)
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 0 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

// matrix returns the accumulated local-to-world matrix.
func (ts *transformStack) matrix() mgl64.Mat4 {
	m := mgl64.Ident4()
	for _, f := range ts.frames {
		m = m.Mul4(f.matrix())
	}
	return m
}

// place applies every frame to a kernel solid, innermost first.
func (ts *transformStack) place(k kernel.Kernel, s kernel.Solid) kernel.Solid {
	for i := len(ts.frames) - 1; i >= 0; i-- {
		f := ts.frames[i]
		if !f.rotation.IsZero() {
			s = k.Rotate(s, f.rotation.X, f.rotation.Y, f.rotation.Z)
		}
		if !f.translation.IsZero() {
			s = k.Translate(s, f.translation.X, f.translation.Y, f.translation.Z)
		}
	}
	return s
}

// Tessellate walks the scene graph and produces one triangle mesh per
// primitive using the provided geometry kernel. Graphs with blocking
// validation findings are rejected before any meshing. The tessellator is
// read-only and never mutates the graph.
func Tessellate(g *graph.Graph, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if g == nil {
		return nil, nil
	}
	for _, f := range graph.Validate(g) {
		if f.Severity == graph.SeverityError {
			return nil, fmt.Errorf("tessellate: invalid graph: %w", f)
		}
	}

	var meshes []*kernel.Mesh
	ts := newTransformStack()

	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := walkNode(g, k, root, ts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
		meshes = append(meshes, collected...)
	}

	return meshes, nil
}

// walkNode recursively traverses a node and its children, collecting meshes.
func walkNode(g *graph.Graph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	switch n.Kind {
	case graph.NodePrimitive:
		return handlePrimitive(k, n, ts)

	case graph.NodeTransform:
		return handleTransform(g, k, n, ts)

	case graph.NodeGroup:
		return handleGroup(g, k, n, ts)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// handlePrimitive creates geometry for a primitive node.
func handlePrimitive(k kernel.Kernel, n *graph.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	var (
		mesh *kernel.Mesh
		mat  graph.MaterialSpec
		err  error
	)

	switch data := n.Data.(type) {
	case graph.BoxData:
		mat = data.Material
		mesh, err = solidMesh(k, ts, k.Box(data.Size.X, data.Size.Y, data.Size.Z))
	case graph.CylinderData:
		mat = data.Material
		mesh, err = solidMesh(k, ts, k.Cylinder(data.Height, data.RadiusTop, data.RadiusBottom))
	case graph.ConeData:
		mat = data.Material
		mesh, err = solidMesh(k, ts, k.Cone(data.Height, data.Radius))
	case graph.SphereData:
		mat = data.Material
		mesh, err = solidMesh(k, ts, k.Sphere(data.Radius))
	case graph.PlaneData:
		mat = data.Material
		mesh = kernel.Quad(data.Width, data.Height).Transform(ts.matrix())
	case graph.SlabData:
		mat = data.Material
		holes := make([]kernel.Rect, len(data.Holes))
		for i, h := range data.Holes {
			holes[i] = kernel.Rect{MinX: h.MinX, MinY: h.MinY, MaxX: h.MaxX, MaxY: h.MaxY}
		}
		mesh = kernel.ExtrudeRects(data.Width, data.Height, data.Depth, holes).Transform(ts.matrix())
	default:
		return nil, fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for node %s: %w", n.ID.Short(), err)
	}

	// Set the part name: prefer the node's Name, fall back to short ID.
	if n.Name != "" {
		mesh.PartName = n.Name
	} else {
		mesh.PartName = n.ID.Short()
	}
	mesh.Color = mat.Color
	mesh.Opacity = mat.Opacity

	return []*kernel.Mesh{mesh}, nil
}

func solidMesh(k kernel.Kernel, ts *transformStack, s kernel.Solid) (*kernel.Mesh, error) {
	return k.ToMesh(ts.place(k, s))
}

// handleTransform pushes the transform, recurses into children, then pops.
func handleTransform(g *graph.Graph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	var f frame
	if td.Translation != nil {
		f.translation = *td.Translation
	}
	if td.Rotation != nil {
		f.rotation = *td.Rotation
	}
	ts.push(f)
	defer ts.pop()

	var meshes []*kernel.Mesh
	for _, child := range g.Children(n) {
		collected, err := walkNode(g, k, child, ts)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// handleGroup recurses into children transparently.
func handleGroup(g *graph.Graph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, child := range g.Children(n) {
		collected, err := walkNode(g, k, child, ts)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}
