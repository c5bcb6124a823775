package pipeline

import (
	"github.com/arvsrao/tiny-render-course/pkg/math3d"
)

// Camera describes where the scene is viewed from. The model-view matrix
// turns Eye into the +z axis; the projection places the center of
// projection on that axis at Distance from the origin.
type Camera struct {
	Eye      math3d.Vec3 // Direction from the origin towards the viewer
	Up       math3d.Vec3 // Approximate up direction, need not be orthogonal to Eye
	Distance float64     // Center of projection on the view axis

	// Cached matrices (computed on demand)
	modelView  math3d.Mat4
	projection math3d.Mat4
	viewDirty  bool
	projDirty  bool
}

// NewCamera creates a camera looking down -z from Distance 3 with +y up.
func NewCamera() *Camera {
	return &Camera{
		Eye:       math3d.V3(0, 0, 1),
		Up:        math3d.Up(),
		Distance:  3,
		viewDirty: true,
		projDirty: true,
	}
}

// SetEye sets the viewing direction.
func (c *Camera) SetEye(eye math3d.Vec3) {
	c.Eye = eye
	c.viewDirty = true
}

// SetUp sets the up direction.
func (c *Camera) SetUp(up math3d.Vec3) {
	c.Up = up
	c.viewDirty = true
}

// SetDistance sets the distance of the center of projection.
func (c *Camera) SetDistance(d float64) {
	c.Distance = d
	c.projDirty = true
}

// ModelView returns the rotation that aligns Eye with +z.
func (c *Camera) ModelView() math3d.Mat4 {
	if c.viewDirty {
		c.modelView = math3d.ModelView(c.Eye, c.Up)
		c.viewDirty = false
	}
	return c.modelView
}

// Projection returns the central projection for Distance.
func (c *Camera) Projection() math3d.Mat4 {
	if c.projDirty {
		c.projection = math3d.Projection(c.Distance)
		c.projDirty = false
	}
	return c.projection
}

// Pipeline returns Viewport(w, h, d) × Projection × ModelView.
func (c *Camera) Pipeline(w, h, d float64) math3d.Mat4 {
	return math3d.Viewport(w, h, d).Mul(c.Projection()).Mul(c.ModelView())
}
