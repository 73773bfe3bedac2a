// Package report renders the plain-text design summary offered for
// download.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/chazu/roomkit/pkg/model"
)

const summary = `3D HOME DESIGN SUMMARY
=================================

ROOM SPECIFICATIONS:
-------------------
Room Type: {{.Room.RoomType}}
Dimensions: {{num .Room.Length}}m × {{num .Room.Width}}m × {{num .Room.Height}}m
Doors: {{.Room.Doors}}
Windows: {{.Room.Windows}}
Wall Color: {{.Room.WallColor}}
Flooring: {{.Room.FlooringType}}
Style: {{.Room.Style}}

FURNITURE ITEMS ({{len .Items}}):
-------------------
{{range $i, $it := .Items}}{{inc $i}}. {{$it.Name}} at position ({{pos $it.Position}})
{{end}}
Generated: {{.Generated.Format "2006-01-02 15:04:05"}}
=================================
`

var tmpl = template.Must(template.New("summary").Funcs(template.FuncMap{
	"num": func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
	"inc": func(i int) int { return i + 1 },
	"pos": func(v model.Vec3) string { return fmt.Sprintf("%.2f, %.2f, %.2f", v.X, v.Y, v.Z) },
}).Parse(summary))

// Input is the design being summarized.
type Input struct {
	Room      model.RoomConfig
	Items     []model.FurnitureItem
	Generated time.Time
}

// Write renders the summary to w.
func Write(w io.Writer, in Input) error {
	if err := tmpl.Execute(w, in); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// String renders the summary.
func String(in Input) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, in); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Filename is the download name for a report generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("room-design-report-%d.txt", t.UnixMilli())
}
