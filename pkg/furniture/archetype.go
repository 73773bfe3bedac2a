// Package furniture describes the furniture archetypes and how each one is
// assembled from primitives.
//
// Archetype is a closed set: every implementation lives in this package and
// Parse is the only way to obtain one from a tag, so an unknown tag fails
// before any geometry is built.
package furniture

import (
	"errors"
	"fmt"
)

// ErrUnknownArchetype is returned by Parse for tags outside the catalog.
var ErrUnknownArchetype = errors.New("furniture: unknown archetype")

// Archetype is one kind of furniture.
type Archetype interface {
	Tag() string
	archetype()
}

type (
	Sofa        struct{}
	Chair       struct{}
	Bed         struct{}
	Table       struct{}
	CoffeeTable struct{}
	Lamp        struct{}
	Cupboard    struct{}
	Bookshelf   struct{}
	TVStand     struct{}
	Desk        struct{}
	Nightstand  struct{}
	Plant       struct{}
	Carpet      struct{}
	SideTable   struct{}
	Artwork     struct{}
	Wardrobe    struct{}
)

func (Sofa) Tag() string        { return "sofa" }
func (Chair) Tag() string       { return "chair" }
func (Bed) Tag() string         { return "bed" }
func (Table) Tag() string       { return "table" }
func (CoffeeTable) Tag() string { return "coffee-table" }
func (Lamp) Tag() string        { return "lamp" }
func (Cupboard) Tag() string    { return "cupboard" }
func (Bookshelf) Tag() string   { return "bookshelf" }
func (TVStand) Tag() string     { return "tv-stand" }
func (Desk) Tag() string        { return "desk" }
func (Nightstand) Tag() string  { return "nightstand" }
func (Plant) Tag() string       { return "plant" }
func (Carpet) Tag() string      { return "carpet" }
func (SideTable) Tag() string   { return "side-table" }
func (Artwork) Tag() string     { return "artwork" }
func (Wardrobe) Tag() string    { return "wardrobe" }

func (Sofa) archetype()        {}
func (Chair) archetype()       {}
func (Bed) archetype()         {}
func (Table) archetype()       {}
func (CoffeeTable) archetype() {}
func (Lamp) archetype()        {}
func (Cupboard) archetype()    {}
func (Bookshelf) archetype()   {}
func (TVStand) archetype()     {}
func (Desk) archetype()        {}
func (Nightstand) archetype()  {}
func (Plant) archetype()       {}
func (Carpet) archetype()      {}
func (SideTable) archetype()   {}
func (Artwork) archetype()     {}
func (Wardrobe) archetype()    {}

// All lists every archetype in catalog order.
var All = []Archetype{
	Sofa{}, Chair{}, Bed{}, Table{}, CoffeeTable{}, Lamp{}, Cupboard{}, Bookshelf{},
	TVStand{}, Desk{}, Nightstand{}, Plant{}, Carpet{}, SideTable{}, Artwork{}, Wardrobe{},
}

var byTag = func() map[string]Archetype {
	m := make(map[string]Archetype, len(All))
	for _, a := range All {
		m[a.Tag()] = a
	}
	return m
}()

// Parse returns the archetype for a tag.
func Parse(tag string) (Archetype, error) {
	a, ok := byTag[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArchetype, tag)
	}
	return a, nil
}

// Tags returns every archetype tag in catalog order.
func Tags() []string {
	tags := make([]string, len(All))
	for i, a := range All {
		tags[i] = a.Tag()
	}
	return tags
}
