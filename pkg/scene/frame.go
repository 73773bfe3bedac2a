package scene

import (
	"math"

	"github.com/chazu/roomkit/pkg/kernel"
	"github.com/chazu/roomkit/pkg/model"
	"github.com/chazu/roomkit/pkg/raycast"
	"github.com/go-gl/mathgl/mgl64"
)

// Orbit camera limits.
const (
	OrbitMinDistance   = 2.0
	OrbitMaxDistance   = 20.0
	OrbitMaxPolarAngle = math.Pi / 2

	// OutlinePadding is added to each dimension of the selection box.
	OutlinePadding = 0.1
)

// Frame is everything the renderer needs for one frame.
type Frame struct {
	Room          []*kernel.Mesh `json:"room"`
	Doors         []DoorFrame    `json:"doors"`
	Items         []ItemFrame    `json:"items"`
	Camera        raycast.Camera `json:"camera"`
	Orbit         Orbit          `json:"orbit"`
	CameraEnabled bool           `json:"cameraEnabled"`
}

// Orbit carries the orbit control limits.
type Orbit struct {
	MinDistance   float64 `json:"minDistance"`
	MaxDistance   float64 `json:"maxDistance"`
	MaxPolarAngle float64 `json:"maxPolarAngle"`
}

// DoorFrame is a door leaf in room coordinates at its current angle.
type DoorFrame struct {
	ID    string       `json:"id"`
	Open  bool         `json:"open"`
	Angle float64      `json:"angle"`
	Mesh  *kernel.Mesh `json:"mesh"`
}

// ItemFrame is one furniture item. Meshes are in item space, standing on
// y = 0; Matrix places them in the room and, during a resize, stretches
// them from the starting size.
type ItemFrame struct {
	ID              string         `json:"id"`
	Type            string         `json:"type"`
	Name            string         `json:"name"`
	Position        model.Vec3     `json:"position"`
	Rotation        float64        `json:"rotation"`
	Size            model.Size     `json:"size"`
	Matrix          mgl64.Mat4     `json:"matrix"`
	Meshes          []*kernel.Mesh `json:"meshes"`
	State           string         `json:"state"`
	ControlsVisible bool           `json:"controlsVisible"`
	Outline         *Outline       `json:"outline,omitempty"`
}

// Outline is the wireframe selection box around an item, centred at half
// its height.
type Outline struct {
	Color   string     `json:"color"`
	Opacity float64    `json:"opacity"`
	Size    model.Size `json:"size"`
}

// itemMatrix is translate(position) * rotateY(rotation).
func itemMatrix(it model.FurnitureItem) mgl64.Mat4 {
	return mgl64.Translate3D(it.Position.X, it.Position.Y, it.Position.Z).
		Mul4(mgl64.HomogRotate3DY(it.Rotation))
}

func outline(color string, s model.Size) *Outline {
	if color == "" {
		return nil
	}
	opacity := 0.3
	if color == resizeOutline {
		opacity = 0.5
	}
	return &Outline{
		Color:   color,
		Opacity: opacity,
		Size:    model.Size{W: s.W + OutlinePadding, H: s.H + OutlinePadding, D: s.D + OutlinePadding},
	}
}

// tint returns shallow copies of meshes with an empty colour replaced by
// color. Vertex data is shared with the cache.
func tint(meshes []*kernel.Mesh, color string) []*kernel.Mesh {
	out := make([]*kernel.Mesh, len(meshes))
	for i, m := range meshes {
		c := *m
		if c.Color == "" {
			c.Color = color
		}
		out[i] = &c
	}
	return out
}
