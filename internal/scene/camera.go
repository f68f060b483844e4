package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera orbits the origin on a horizontal circle and projects world points
// to screen coordinates.
type Camera struct {
	distance float64
	fovRad   float64
	angle    float64

	width  float64
	height float64

	eye      mgl64.Vec3
	viewProj mgl64.Mat4
}

func NewCamera(distance, fovDegrees float64, width, height int) *Camera {
	c := &Camera{
		distance: distance,
		fovRad:   mgl64.DegToRad(fovDegrees),
		width:    float64(width),
		height:   float64(height),
	}
	c.recompute()
	return c
}

// Orbit advances the camera around the origin by step radians.
func (c *Camera) Orbit(step float64) {
	c.angle = math.Mod(c.angle+step, 2*math.Pi)
	c.recompute()
}

func (c *Camera) recompute() {
	c.eye = mgl64.Vec3{
		math.Cos(c.angle) * c.distance,
		c.distance * 0.35,
		math.Sin(c.angle) * c.distance,
	}
	view := mgl64.LookAtV(c.eye, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	proj := mgl64.Perspective(c.fovRad, c.width/c.height, 0.1, 100)
	c.viewProj = proj.Mul4(view)
}

// Project maps a world point to screen coordinates. ok is false for points
// at or behind the eye plane. depth is the distance from the eye, for
// painter's-algorithm sorting and brightness falloff.
func (c *Camera) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := c.viewProj.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	x = (ndcX + 1) / 2 * c.width
	y = (1 - ndcY) / 2 * c.height
	depth = p.Sub(c.eye).Len()
	return x, y, depth, true
}

// Distance returns the orbit radius.
func (c *Camera) Distance() float64 { return c.distance }
