// Package raycast maps screen points onto the floor plane through a
// perspective camera.
package raycast

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// parallelEpsilon is the smallest |dir.Y| treated as crossing the floor.
const parallelEpsilon = 1e-9

// Pointer is a pointer position in client pixels.
type Pointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the canvas rectangle in client pixels.
type Viewport struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Aspect returns width / height.
func (v Viewport) Aspect() float64 {
	return v.Width / v.Height
}

// Camera is a perspective camera. FovY is the vertical field of view in
// degrees.
type Camera struct {
	Position mgl64.Vec3 `json:"position"`
	Target   mgl64.Vec3 `json:"target"`
	Up       mgl64.Vec3 `json:"up"`
	FovY     float64    `json:"fov"`
	Near     float64    `json:"near"`
	Far      float64    `json:"far"`
}

// DefaultCamera looks at the room centre from (5, 5, 5).
func DefaultCamera() Camera {
	return Camera{
		Position: mgl64.Vec3{5, 5, 5},
		Target:   mgl64.Vec3{0, 0, 0},
		Up:       mgl64.Vec3{0, 1, 0},
		FovY:     60,
		Near:     0.1,
		Far:      1000,
	}
}

// ViewProjection returns projection * view for the given aspect ratio.
func (c Camera) ViewProjection(aspect float64) mgl64.Mat4 {
	near, far := c.Near, c.Far
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = near * 10000
	}
	up := c.Up
	if up.Len() == 0 {
		up = mgl64.Vec3{0, 1, 0}
	}
	proj := mgl64.Perspective(mgl64.DegToRad(c.FovY), aspect, near, far)
	view := mgl64.LookAtV(c.Position, c.Target, up)
	return proj.Mul4(view)
}

// NDC converts a pointer position to normalized device coordinates in
// [-1, 1], Y up. It reports false for an empty viewport.
func NDC(p Pointer, vp Viewport) (x, y float64, ok bool) {
	if !(vp.Width > 0) || !(vp.Height > 0) {
		return 0, 0, false
	}
	x = (p.X-vp.Left)/vp.Width*2 - 1
	y = -(p.Y-vp.Top)/vp.Height*2 + 1
	return x, y, true
}

// Ray returns the world-space ray through the NDC point. The origin is the
// camera position and dir is unit length.
func (c Camera) Ray(ndcX, ndcY, aspect float64) (origin, dir mgl64.Vec3) {
	inv := c.ViewProjection(aspect).Inv()
	unproject := func(z float64) mgl64.Vec3 {
		v := inv.Mul4x1(mgl64.Vec4{ndcX, ndcY, z, 1})
		return v.Vec3().Mul(1 / v.W())
	}
	nearPt, farPt := unproject(-1), unproject(1)
	return c.Position, farPt.Sub(nearPt).Normalize()
}

// GroundPoint casts a ray from the camera through p and intersects it with
// the floor plane y = 0. It reports false when the viewport is empty, the
// ray runs parallel to the floor or the floor lies behind the camera.
func GroundPoint(p Pointer, vp Viewport, cam Camera) (mgl64.Vec3, bool) {
	x, y, ok := NDC(p, vp)
	if !ok {
		return mgl64.Vec3{}, false
	}
	origin, dir := cam.Ray(x, y, vp.Aspect())
	return IntersectGround(origin, dir)
}

// IntersectGround intersects the ray origin + t*dir (t >= 0) with y = 0.
func IntersectGround(origin, dir mgl64.Vec3) (mgl64.Vec3, bool) {
	if math.Abs(dir.Y()) < parallelEpsilon {
		return mgl64.Vec3{}, false
	}
	t := -origin.Y() / dir.Y()
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return mgl64.Vec3{}, false
	}
	hit := origin.Add(dir.Mul(t))
	hit[1] = 0
	return hit, true
}
