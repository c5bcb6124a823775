package math3d

// Viewport maps normalized device coordinates in [-1,1] to pixel space
// [0,w]×[0,h] and depth to [0,d].
func Viewport(w, h, d float64) Mat4 {
	return Mat4FromRows(
		V4(w/2, 0, 0, w/2),
		V4(0, h/2, 0, h/2),
		V4(0, 0, d/2, d/2),
		V4(0, 0, 0, 1),
	)
}

// Projection is the central projection onto the z=0 plane for a camera
// sitting on the z axis at distance c. The divide happens on the w
// component, which becomes 1 - z/c.
func Projection(c float64) Mat4 {
	m := Identity()
	m.Set(3, 2, -1/c)
	return m
}

// ModelView rotates the world so that eye points along +z. Its rows are
// the orthonormal frame v = up×eye, w = eye×v and eye itself.
func ModelView(eye, up Vec3) Mat4 {
	v := up.Cross(eye)
	w := eye.Cross(v)
	v.NormalizeInPlace()
	w.NormalizeInPlace()
	c := eye.Normalize()
	return Mat4FromRows(
		V4FromV3(v, 0),
		V4FromV3(w, 0),
		V4FromV3(c, 0),
		V4(0, 0, 0, 1),
	)
}

// ImagePosition maps a coordinate in [-1,1] to [0,size].
func ImagePosition(p, size float64) float64 {
	return size * (p + 1) / 2
}

// PerspectiveScale returns the diagonal matrix that shrinks the x and y
// of a point at depth z as seen by a camera at distance c. Points at z=1
// keep their size; z itself is left alone.
func PerspectiveScale(c, z float64) Mat3 {
	s := (c - 1) / (c - z)
	return Diagonal3(V3(s, s, 1))
}
