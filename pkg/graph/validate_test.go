package graph

import (
	"strings"
	"testing"
)

// buildValidRoom creates a small graph with a floor slab, a placed wall and a
// group root so every node is reachable.
func buildValidRoom() *Graph {
	g := New()
	floor := g.Primitive("room/floor", PlaneData{Width: 5, Height: 4})
	wall := g.Primitive("room/wall/back", SlabData{
		Width: 5, Height: 3, Depth: 0.1,
		Holes: []Rect{{MinX: -0.45, MinY: -1.5, MaxX: 0.45, MaxY: 0.6}},
	})
	placed := g.Place("room/wall/back", AtYaw(0, 1.5, -2, 0), wall)
	g.AddRoot(g.Group("room", floor, placed))
	return g
}

func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateValidGraph(t *testing.T) {
	errs := Validate(buildValidRoom())
	if len(errs) != 0 {
		t.Fatalf("expected no findings, got %v", errs)
	}
}

func TestValidateCycle(t *testing.T) {
	g := New()
	a := NewNodeID("a")
	b := NewNodeID("b")
	g.AddNode(&Node{ID: a, Kind: NodeGroup, Name: "a", Children: []NodeID{b}, Data: GroupData{}})
	g.AddNode(&Node{ID: b, Kind: NodeGroup, Name: "b", Children: []NodeID{a}, Data: GroupData{}})
	g.AddRoot(a)

	errs := Validate(g)
	if !hasError(errs, "cycle") {
		t.Errorf("expected cycle error, got %v", errs)
	}
	if !HasErrors(errs) {
		t.Error("HasErrors should be true")
	}
}

func TestValidateDanglingReferences(t *testing.T) {
	g := New()
	g.AddRoot(g.Group("room", NewNodeID("ghost")))
	g.AddRoot(NewNodeID("missing-root"))

	errs := Validate(g)
	if !hasError(errs, "child reference") {
		t.Errorf("expected dangling child error, got %v", errs)
	}
	if !hasError(errs, "root reference") {
		t.Errorf("expected dangling root error, got %v", errs)
	}
}

func TestValidateOrphanIsWarning(t *testing.T) {
	g := buildValidRoom()
	g.Primitive("lost", SphereData{Radius: 0.2})

	errs := Validate(g)
	if !hasWarning(errs, "orphan") {
		t.Errorf("expected orphan warning, got %v", errs)
	}
	if HasErrors(errs) {
		t.Errorf("orphan must not be blocking: %v", errs)
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name string
		data NodeData
		want string
	}{
		{"zero box", BoxData{Size: Vec3{X: 0, Y: 1, Z: 1}}, "box size"},
		{"flat cylinder", CylinderData{Height: 0, RadiusBottom: 1}, "cylinder"},
		{"cone", ConeData{Height: 1, Radius: -1}, "cone"},
		{"sphere", SphereData{Radius: 0}, "sphere radius"},
		{"plane", PlaneData{Width: 1, Height: 0}, "plane size"},
		{"slab", SlabData{Width: 1, Height: 1, Depth: 0}, "slab size"},
		{"hole outside", SlabData{
			Width: 2, Height: 2, Depth: 0.1,
			Holes: []Rect{{MinX: 0.5, MinY: 0, MaxX: 1.5, MaxY: 0.5}},
		}, "exceeds the outline"},
		{"empty hole", SlabData{
			Width: 2, Height: 2, Depth: 0.1,
			Holes: []Rect{{MinX: 0.5, MinY: 0, MaxX: 0.5, MaxY: 0.5}},
		}, "is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.AddRoot(g.Primitive(tt.name, tt.data))
			errs := Validate(g)
			if !hasError(errs, tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, errs)
			}
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Message: "bad", Severity: SeverityWarning}
	if got := e.Error(); got != "[warning] bad" {
		t.Errorf("Error() = %q", got)
	}
	id := NewNodeID("x")
	e = ValidationError{NodeID: id, Message: "bad", Severity: SeverityError}
	if !strings.Contains(e.Error(), id.Short()) {
		t.Errorf("Error() = %q, want node id", e.Error())
	}
}
