package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/roomkit/pkg/model"
)

// Format writes a room script that evaluates back to cfg and items. Item
// ids are not part of a script.
func Format(cfg model.RoomConfig, items []model.FurnitureItem) string {
	var sb strings.Builder
	sb.WriteString(";; roomkit design\n")
	fmt.Fprintf(&sb, "(room :type %s :length %s :width %s :height %s\n",
		keyword(string(cfg.RoomType)), num(cfg.Length), num(cfg.Width), num(cfg.Height))
	fmt.Fprintf(&sb, "      :doors %d :windows %d :wall-color %q\n", cfg.Doors, cfg.Windows, cfg.WallColor)
	fmt.Fprintf(&sb, "      :flooring %s :style %s)\n", keyword(string(cfg.FlooringType)), keyword(string(cfg.Style)))

	for _, it := range items {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "(furniture %s\n", keyword(it.Type))
		fmt.Fprintf(&sb, "  :at (vec3 %s %s %s)\n", num(it.Position.X), num(it.Position.Y), num(it.Position.Z))
		if it.Rotation != 0 {
			fmt.Fprintf(&sb, "  :rotation %s\n", num(it.Rotation))
		}
		fmt.Fprintf(&sb, "  :size (size %s %s %s)\n", num(it.Size.W), num(it.Size.H), num(it.Size.D))
		fmt.Fprintf(&sb, "  :color %q :name %q)\n", it.Color, it.Name)
	}
	return sb.String()
}

// keyword renders a tag as :tag, or as a string when it is empty or would
// not survive keyword scanning.
func keyword(tag string) string {
	if tag == "" || !isLetter(tag[0]) {
		return strconv.Quote(tag)
	}
	for i := 0; i < len(tag); i++ {
		if !isKWChar(tag[i]) {
			return strconv.Quote(tag)
		}
	}
	return ":" + tag
}

// num formats without an exponent so the zygomys reader accepts it. Whole
// numbers keep a decimal point to stay floats.
func num(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
