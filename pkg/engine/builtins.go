package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/chazu/roomkit/pkg/catalog"
	"github.com/chazu/roomkit/pkg/furniture"
	"github.com/chazu/roomkit/pkg/model"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms room script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: wall-color -> wall_color
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a model.Vec3.
type sexpVec3 struct {
	vec model.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpSize wraps a model.Size.
type sexpSize struct {
	size model.Size
}

func (s *sexpSize) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(size %g %g %g)", s.size.W, s.size.H, s.size.D)
}
func (s *sexpSize) Type() *zygo.RegisteredType { return nil }

// sexpRoom is returned by `room`.
type sexpRoom struct {
	cfg model.RoomConfig
}

func (r *sexpRoom) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(room %gx%gx%g)", r.cfg.Length, r.cfg.Width, r.cfg.Height)
}
func (r *sexpRoom) Type() *zygo.RegisteredType { return nil }

// sexpItem refers to a declared furniture item.
type sexpItem struct {
	index int
	typ   string
}

func (it *sexpItem) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(furniture :%s)", it.typ)
}
func (it *sexpItem) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
// The first positional argument may itself be a keyword (a type tag), so a
// keyword directly at the front of the list is kept positional when the
// caller asks for it.
func parseArgs(args []zygo.Sexp, leadingTag bool) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	if leadingTag && len(args) > 0 {
		result.positional = append(result.positional, args[0])
		i = 1
	}
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// unknown reports keywords outside allowed, sorted.
func (a kwArgs) unknown(fn string, allowed ...string) error {
	ok := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		ok[k] = true
	}
	var bad []string
	for k := range a.kw {
		if !ok[k] {
			bad = append(bad, ":"+k)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	sort.Strings(bad)
	return fmt.Errorf("%s: unknown option %s", fn, strings.Join(bad, ", "))
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected whole number, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_sofa) and plain strings ("sofa").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (model.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return model.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toSize extracts a Size from a sexpSize.
func toSize(s zygo.Sexp) (model.Size, error) {
	if v, ok := s.(*sexpSize); ok {
		return v.size, nil
	}
	return model.Size{}, fmt.Errorf("expected size, got %T (%s)", s, s.SexpString(nil))
}

// three reads exactly three numbers.
func three(fn string, args []zygo.Sexp) ([3]float64, error) {
	var out [3]float64
	if len(args) != 3 {
		return out, fmt.Errorf("%s requires exactly 3 arguments, got %d", fn, len(args))
	}
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return out, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Plan builder
// ---------------------------------------------------------------------------

// builder collects the declarations of one evaluation.
type builder struct {
	room    *model.RoomConfig
	items   []model.FurnitureItem
	catalog *catalog.Catalog
}

func newBuilder() *builder {
	return &builder{catalog: catalog.Default()}
}

func (b *builder) plan() *Plan {
	p := &Plan{Furniture: model.CloneItems(b.items)}
	if b.room != nil {
		cfg := *b.room
		p.Room = &cfg
	}
	return p
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the room script builtins into a zygomys
// environment. The builtins record declarations in b.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (room :type :bedroom :length 5 :width 4 :height 3 :doors 1 :windows 2
	//       :wall-color "#f5f5f5" :flooring :wood :style :modern)
	// -----------------------------------------------------------------------
	env.AddFunction("room", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if b.room != nil {
			return zygo.SexpNull, fmt.Errorf("room: already declared")
		}
		pa := parseArgs(args, false)
		if err := pa.unknown("room", "type", "length", "width", "height", "doors", "windows", "wall-color", "flooring", "style"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("room: unexpected positional argument %s", pa.positional[0].SexpString(nil))
		}

		cfg := model.DefaultRoomConfig()
		for key, dst := range map[string]*float64{"length": &cfg.Length, "width": &cfg.Width, "height": &cfg.Height} {
			if v, ok := pa.kw[key]; ok {
				f, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("room: %s: %w", key, err)
				}
				*dst = f
			}
		}
		for key, dst := range map[string]*int{"doors": &cfg.Doors, "windows": &cfg.Windows} {
			if v, ok := pa.kw[key]; ok {
				n, err := toInt(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("room: %s: %w", key, err)
				}
				*dst = n
			}
		}
		if v, ok := pa.kw["wall-color"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("room: wall-color: %w", err)
			}
			cfg.WallColor = s
		}
		if v, ok := pa.kw["type"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("room: type: %w", err)
			}
			cfg.RoomType = model.RoomType(s)
		}
		if v, ok := pa.kw["flooring"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("room: flooring: %w", err)
			}
			cfg.FlooringType = model.Flooring(s)
		}
		if v, ok := pa.kw["style"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("room: style: %w", err)
			}
			cfg.Style = model.Style(s)
		}

		b.room = &cfg
		return &sexpRoom{cfg: cfg}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 0 2)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := three("vec3", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: model.Vec3{X: v[0], Y: v[1], Z: v[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (size 2 0.8 1)
	// -----------------------------------------------------------------------
	env.AddFunction("size", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := three("size", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		for i, d := range v {
			if !(d >= model.MinDimension) {
				return zygo.SexpNull, fmt.Errorf("size: argument %d: %g is below the minimum %g", i+1, d, model.MinDimension)
			}
		}
		return &sexpSize{size: model.Size{W: v[0], H: v[1], D: v[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (deg 90) -> radians
	// -----------------------------------------------------------------------
	env.AddFunction("deg", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("deg requires exactly 1 argument, got %d", len(args))
		}
		f, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("deg: %w", err)
		}
		return &zygo.SexpFloat{Val: f * math.Pi / 180}, nil
	})

	// -----------------------------------------------------------------------
	// (furniture :sofa :at (vec3 0 0 1) :rotation 1.57 :size (size 2 0.8 1)
	//            :color "#8b5cf6" :name "Sofa")
	// -----------------------------------------------------------------------
	env.AddFunction("furniture", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args, true)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("furniture requires a type as its only positional argument")
		}
		if err := pa.unknown("furniture", "at", "rotation", "size", "color", "name"); err != nil {
			return zygo.SexpNull, err
		}
		tag, err := toKeywordString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("furniture: type: %w", err)
		}
		if _, err := furniture.Parse(tag); err != nil {
			return zygo.SexpNull, fmt.Errorf("furniture: %w", err)
		}

		item := model.FurnitureItem{Type: tag, Size: model.Size{W: 1, H: 1, D: 1}, Name: tag}
		if tmpl, ok := b.catalog.Lookup(tag); ok {
			item = tmpl.Item(model.Vec3{})
		}

		if v, ok := pa.kw["at"]; ok {
			pos, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("furniture: at: %w", err)
			}
			item.Position = pos
		}
		if v, ok := pa.kw["rotation"]; ok {
			r, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("furniture: rotation: %w", err)
			}
			item.Rotation = model.NormalizeAngle(r)
		}
		if v, ok := pa.kw["size"]; ok {
			s, err := toSize(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("furniture: size: %w", err)
			}
			item.Size = s
		}
		if v, ok := pa.kw["color"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("furniture: color: %w", err)
			}
			item.Color = s
		}
		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("furniture: name: %w", err)
			}
			item.Name = s
		}

		b.items = append(b.items, item)
		return &sexpItem{index: len(b.items) - 1, typ: tag}, nil
	})
}
