package pipeline

import (
	"github.com/arvsrao/tiny-render-course/pkg/math3d"
)

// Projector maps a model-space position to screen space: x and y in
// pixels with the origin at the bottom-left, z as depth.
type Projector interface {
	Project(p math3d.Vec3) math3d.Vec3
}

// ImagePosition maps each coordinate from [-1, 1] to [0, size] on its
// axis. It is the orthographic projection used for models normalized to
// the unit cube.
type ImagePosition struct {
	Width, Height, Depth float64
}

// Project implements Projector.
func (ip ImagePosition) Project(p math3d.Vec3) math3d.Vec3 {
	return math3d.V3(
		math3d.ImagePosition(p.X, ip.Width),
		math3d.ImagePosition(p.Y, ip.Height),
		math3d.ImagePosition(p.Z, ip.Depth),
	)
}

// Perspective shrinks x and y by (c-1)/(c-z) for a camera at distance c
// on the z axis, then maps the result like ImagePosition.
type Perspective struct {
	Distance float64
	Image    ImagePosition
}

// Project implements Projector.
func (pp Perspective) Project(p math3d.Vec3) math3d.Vec3 {
	return pp.Image.Project(math3d.PerspectiveScale(pp.Distance, p.Z).MulVec3(p))
}

// Matrix applies a homogeneous transform followed by the divide by w.
type Matrix struct {
	M math3d.Mat4
}

// Project implements Projector.
func (m Matrix) Project(p math3d.Vec3) math3d.Vec3 {
	return m.M.MulVec3(p)
}

// Ortho is Viewport(w, h, d) × Projection(c): the central projection for a
// camera on the z axis without any camera rotation.
func Ortho(w, h, d, c float64) Matrix {
	return Matrix{M: math3d.Viewport(w, h, d).Mul(math3d.Projection(c))}
}

// FromCamera builds the full viewport × projection × model-view pipeline.
func FromCamera(cam *Camera, w, h, d float64) Matrix {
	return Matrix{M: cam.Pipeline(w, h, d)}
}
