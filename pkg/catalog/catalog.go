// Package catalog holds the furniture templates a user can add to a room.
// The default catalog is embedded YAML; Parse accepts the same format for
// custom catalogs.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/chazu/roomkit/pkg/furniture"
	"github.com/chazu/roomkit/pkg/model"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

// WallClearance keeps randomly placed items this far from the walls.
const WallClearance = 1.0

// Template is a catalog entry.
type Template struct {
	Type  string     `json:"type"`
	Name  string     `json:"name"`
	Color string     `json:"color"`
	Size  model.Size `json:"size"`
}

// Item returns a new furniture item from the template at pos. The ID is left
// empty for the store to assign.
func (t Template) Item(pos model.Vec3) model.FurnitureItem {
	return model.FurnitureItem{
		Type:     t.Type,
		Position: pos,
		Size:     t.Size,
		Color:    t.Color,
		Name:     t.Name,
	}
}

type fileTemplate struct {
	Type  string    `yaml:"type"`
	Name  string    `yaml:"name"`
	Color string    `yaml:"color"`
	Size  []float64 `yaml:"size"`
}

type file struct {
	Version   int            `yaml:"version,omitempty"`
	Templates []fileTemplate `yaml:"templates"`
}

// Catalog is an ordered, read-only set of templates.
type Catalog struct {
	templates []Template
	byType    map[string]int
}

// Parse reads a catalog from YAML. Every entry must name a known archetype
// and carry three dimensions of at least model.MinDimension; types must be
// unique.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	c := &Catalog{byType: make(map[string]int, len(f.Templates))}
	var errs []error
	for i, ft := range f.Templates {
		if _, err := furniture.Parse(ft.Type); err != nil {
			errs = append(errs, fmt.Errorf("template %d: %w", i, err))
			continue
		}
		if len(ft.Size) != 3 {
			errs = append(errs, fmt.Errorf("template %d (%s): size must be three numbers, got %v", i, ft.Type, ft.Size))
			continue
		}
		if slices.Min(ft.Size) < model.MinDimension {
			errs = append(errs, fmt.Errorf("template %d (%s): size %v has an axis below the minimum %g", i, ft.Type, ft.Size, model.MinDimension))
			continue
		}
		if _, dup := c.byType[ft.Type]; dup {
			errs = append(errs, fmt.Errorf("template %d: duplicate type %q", i, ft.Type))
			continue
		}
		name := ft.Name
		if name == "" {
			name = ft.Type
		}
		c.byType[ft.Type] = len(c.templates)
		c.templates = append(c.templates, Template{
			Type:  ft.Type,
			Name:  name,
			Color: ft.Color,
			Size:  model.Size{W: ft.Size[0], H: ft.Size[1], D: ft.Size[2]},
		})
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("catalog: %w", errors.Join(errs...))
	}
	return c, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultYAML)
})

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
	}
	return c
}

// Templates returns the templates in catalog order.
func (c *Catalog) Templates() []Template {
	return append([]Template(nil), c.templates...)
}

// Lookup returns the template for an archetype tag.
func (c *Catalog) Lookup(tag string) (Template, bool) {
	i, ok := c.byType[tag]
	if !ok {
		return Template{}, false
	}
	return c.templates[i], true
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// RandomPosition picks a floor position inside the room, WallClearance away
// from the walls where the room is large enough. A nil rng uses the global
// source.
func RandomPosition(cfg model.RoomConfig, rng *rand.Rand) model.Vec3 {
	f := rand.Float64
	if rng != nil {
		f = rng.Float64
	}
	spanX := max(0, cfg.Length-2*WallClearance)
	spanZ := max(0, cfg.Width-2*WallClearance)
	return model.Vec3{
		X: (f() - 0.5) * spanX,
		Y: 0,
		Z: (f() - 0.5) * spanZ,
	}
}
