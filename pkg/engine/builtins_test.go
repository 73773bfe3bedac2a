package engine

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/roomkit/pkg/model"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(room :length 5)`,
			expect: `(room "__kw_length" 5)`,
		},
		{
			name:   "multiple keywords",
			input:  `(room :length 5 :width 4)`,
			expect: `(room "__kw_length" 5 "__kw_width" 4)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def sofa-width 2)`,
			expect: `(def sofa_width 2)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative number preserved",
			input:  `(vec3 -1.5 0 2)`,
			expect: `(vec3 -1.5 0 2)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:coffee-table`,
			expect: `"__kw_coffee-table"`,
		},
		{
			name:   "colour string untouched",
			input:  `:wall-color "#f5f5f5"`,
			expect: `"__kw_wall-color" "#f5f5f5"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// mustEval evaluates source and fails the test on any error.
func mustEval(t *testing.T, source string) *Plan {
	t.Helper()
	p, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return p
}

// evalErr evaluates source and returns the single expected eval error.
func evalErr(t *testing.T, source string) string {
	t.Helper()
	p, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil plan, got %+v", p)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error")
	}
	return evalErrs[0].Message
}

// ---------------------------------------------------------------------------
// room
// ---------------------------------------------------------------------------

func TestRoomDefaults(t *testing.T) {
	p := mustEval(t, `(room)`)
	if p.Room == nil {
		t.Fatal("expected a room")
	}
	if *p.Room != model.DefaultRoomConfig() {
		t.Errorf("room = %+v, want defaults", *p.Room)
	}
}

func TestRoomOptions(t *testing.T) {
	p := mustEval(t, `
(room :type :bedroom :length 6.5 :width 4 :height 2.8
      :doors 2 :windows 4 :wall-color "#e0e7ff"
      :flooring :carpet :style "scandinavian")
`)
	want := model.RoomConfig{
		RoomType:     model.RoomBedroom,
		Length:       6.5,
		Width:        4,
		Height:       2.8,
		Doors:        2,
		Windows:      4,
		WallColor:    "#e0e7ff",
		FlooringType: model.FlooringCarpet,
		Style:        model.StyleScandinavian,
	}
	if *p.Room != want {
		t.Errorf("room = %+v, want %+v", *p.Room, want)
	}
}

func TestRoomErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"declared twice", `(room) (room)`, "already declared"},
		{"unknown option", `(room :colour "#fff")`, "unknown option :colour"},
		{"fractional doors", `(room :doors 1.5)`, "whole number"},
		{"string length", `(room :length "5")`, "expected number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalErr(t, tt.source)
			if !strings.Contains(msg, tt.want) {
				t.Errorf("error %q should contain %q", msg, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// furniture
// ---------------------------------------------------------------------------

func TestFurnitureCatalogDefaults(t *testing.T) {
	p := mustEval(t, `(furniture :sofa)`)
	if len(p.Furniture) != 1 {
		t.Fatalf("expected 1 item, got %d", len(p.Furniture))
	}
	it := p.Furniture[0]
	if it.Type != "sofa" || it.Name != "Sofa" || it.Color != "#8b5cf6" {
		t.Errorf("unexpected item %+v", it)
	}
	if it.Size != (model.Size{W: 2, H: 0.8, D: 1}) {
		t.Errorf("size = %+v, want catalog size", it.Size)
	}
	if it.Position != (model.Vec3{}) {
		t.Errorf("position = %+v, want origin", it.Position)
	}
	if it.ID != "" {
		t.Errorf("scripts do not assign ids, got %q", it.ID)
	}
}

func TestFurnitureOptions(t *testing.T) {
	p := mustEval(t, `
(def w 1.2)
(furniture "coffee-table"
  :at (vec3 -1 0 0.5)
  :rotation (deg 90)
  :size (size w 0.45 (* w 0.5))
  :color "#111111"
  :name "Low table")
`)
	it := p.Furniture[0]
	if it.Type != "coffee-table" {
		t.Errorf("type = %q", it.Type)
	}
	if it.Position != (model.Vec3{X: -1, Y: 0, Z: 0.5}) {
		t.Errorf("position = %+v", it.Position)
	}
	if math.Abs(it.Rotation-math.Pi/2) > 1e-12 {
		t.Errorf("rotation = %v, want π/2", it.Rotation)
	}
	if it.Size != (model.Size{W: 1.2, H: 0.45, D: 0.6}) {
		t.Errorf("size = %+v", it.Size)
	}
	if it.Color != "#111111" || it.Name != "Low table" {
		t.Errorf("color/name = %q/%q", it.Color, it.Name)
	}
}

func TestFurnitureRotationNormalized(t *testing.T) {
	p := mustEval(t, `(furniture :chair :rotation (deg -90))`)
	got := p.Furniture[0].Rotation
	if math.Abs(got-3*math.Pi/2) > 1e-12 {
		t.Errorf("rotation = %v, want 3π/2", got)
	}
}

func TestFurnitureOrder(t *testing.T) {
	p := mustEval(t, `
(furniture :bed)
(furniture :nightstand :at (vec3 1.3 0 -0.8))
(furniture :nightstand :at (vec3 -1.3 0 -0.8))
`)
	var types []string
	for _, it := range p.Furniture {
		types = append(types, it.Type)
	}
	if got := strings.Join(types, ","); got != "bed,nightstand,nightstand" {
		t.Errorf("types = %s", got)
	}
}

func TestFurnitureErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unknown type", `(furniture :hammock)`, "unknown archetype"},
		{"missing type", `(furniture)`, "requires a type"},
		{"unknown option", `(furniture :sofa :colour "#fff")`, "unknown option :colour"},
		{"bad at", `(furniture :sofa :at 5)`, "expected vec3"},
		{"bad size", `(furniture :sofa :size (vec3 1 1 1))`, "expected size"},
		{"tiny size", `(furniture :sofa :size (size 0.1 1 1))`, "below the minimum"},
		{"vec3 arity", `(vec3 1 2)`, "exactly 3 arguments"},
		{"deg arity", `(deg)`, "exactly 1 argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalErr(t, tt.source)
			if !strings.Contains(msg, tt.want) {
				t.Errorf("error %q should contain %q", msg, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Format
// ---------------------------------------------------------------------------

func TestFormatRoundTrip(t *testing.T) {
	cfg := model.DefaultRoomConfig()
	cfg.Length, cfg.Doors, cfg.WallColor = 7.25, 2, "#fef3c7"
	items := []model.FurnitureItem{
		{ID: "a", Type: "sofa", Position: model.Vec3{X: -1.5, Z: 2}, Rotation: math.Pi / 4,
			Size: model.Size{W: 2.4, H: 0.8, D: 1}, Color: "#8b5cf6", Name: "Big sofa"},
		{ID: "b", Type: "tv-stand", Position: model.Vec3{X: 0, Z: -1.9}, Size: model.Size{W: 1.5, H: 0.5, D: 0.4},
			Color: "#374151", Name: "TV"},
	}

	src := Format(cfg, items)
	p := mustEval(t, src)

	if p.Room == nil || *p.Room != cfg {
		t.Errorf("room = %+v, want %+v\n%s", p.Room, cfg, src)
	}
	if len(p.Furniture) != len(items) {
		t.Fatalf("got %d items, want %d", len(p.Furniture), len(items))
	}
	for i, want := range items {
		want.ID = ""
		if p.Furniture[i] != want {
			t.Errorf("item %d = %+v, want %+v", i, p.Furniture[i], want)
		}
	}
}

func TestFormatKeyword(t *testing.T) {
	tests := map[string]string{
		"living-room": ":living-room",
		"":            `""`,
		"two words":   `"two words"`,
		"9lives":      `"9lives"`,
	}
	for in, want := range tests {
		if got := keyword(in); got != want {
			t.Errorf("keyword(%q) = %s, want %s", in, got, want)
		}
	}
	if got := num(3); got != "3.0" {
		t.Errorf("num(3) = %s", got)
	}
	if got := num(1e-7); strings.ContainsAny(got, "eE") {
		t.Errorf("num(1e-7) = %s uses an exponent", got)
	}
}

// ---------------------------------------------------------------------------
// Example scripts
// ---------------------------------------------------------------------------

func TestExampleScripts(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.room"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no example scripts found")
	}
	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			src, err := os.ReadFile(f)
			if err != nil {
				t.Fatal(err)
			}
			p := mustEval(t, string(src))
			if p.Room == nil {
				t.Error("example should declare a room")
			}
			if len(p.Furniture) == 0 {
				t.Error("example should place furniture")
			}
		})
	}
}
