package render

import (
	"errors"
	"math"

	"github.com/arvsrao/tiny-render-course/pkg/math3d"
)

// ErrNoTexture is returned by the textured fill when no texture is given.
var ErrNoTexture = errors.New("textured fill requires a non-empty texture")

// rowSpan restricts drawing to buffer rows [lo, hi).
type rowSpan struct {
	lo, hi int
}

func (fb *Framebuffer) allRows() rowSpan {
	return rowSpan{0, fb.Height}
}

// scan walks every integer point of the triangle's bounding box, x outer
// and y inner, and calls visit with the pixel index and barycentric
// weights of points whose row lies in rows. Degenerate triangles are
// skipped entirely.
func (fb *Framebuffer) scan(tri Triangle, rows rowSpan, visit func(idx int, bc math3d.Vec3)) {
	if !tri.finite() || tri.Area2() == 0 {
		return
	}
	box := tri.BBox()

	// Trim the y range to the band, keeping one row of slack on each side
	// so the exact row test below stays authoritative.
	yLo, yHi := box.SW.Y, box.NE.Y
	h := float64(fb.Height)
	if rows.hi < fb.Height {
		yLo = math.Max(yLo, h-float64(rows.hi)-1)
	}
	if rows.lo > 0 {
		yHi = math.Min(yHi, h-float64(rows.lo)+1)
	}

	for x := box.SW.X; x <= box.NE.X; x++ {
		col := fb.Col(x)
		for y := yLo; y <= yHi; y++ {
			row := fb.Row(y)
			if row < rows.lo || row >= rows.hi {
				continue
			}
			bc, ok := tri.Barycentric(math3d.V3(x, y, 0))
			if !ok {
				continue
			}
			visit(row*fb.Width+col, bc)
		}
	}
}

// DrawTriangleFlat fills tri with c. There is no depth test; later
// triangles overwrite earlier ones.
func (fb *Framebuffer) DrawTriangleFlat(tri Triangle, c Color) {
	fb.drawTriangleFlat(tri, c, fb.allRows())
}

func (fb *Framebuffer) drawTriangleFlat(tri Triangle, c Color, rows rowSpan) {
	fb.scan(tri, rows, func(idx int, bc math3d.Vec3) {
		if inside(bc) {
			fb.Pixels[idx] = c
		}
	})
}

// DrawTriangle fills tri with c where the interpolated depth is strictly
// greater than the value already stored in depth, updating depth as it
// goes.
func (fb *Framebuffer) DrawTriangle(tri Triangle, depth *DepthBuffer, c Color) error {
	if err := depth.check(fb); err != nil {
		return err
	}
	fb.drawTriangle(tri, depth, c, fb.allRows())
	return nil
}

func (fb *Framebuffer) drawTriangle(tri Triangle, depth *DepthBuffer, c Color, rows rowSpan) {
	zs := math3d.V3(tri.V[0].Z, tri.V[1].Z, tri.V[2].Z)
	fb.scan(tri, rows, func(idx int, bc math3d.Vec3) {
		if !inside(bc) {
			return
		}
		z := bc.Dot(zs)
		if depth.Values[idx] < z {
			depth.Values[idx] = z
			fb.Pixels[idx] = c
		}
	})
}

// DrawTriangleTextured is the depth-tested fill that colors each pixel
// from tex. uv holds per-vertex texture coordinates already scaled to
// texel units (z unused). The sampled color is scaled by intensity.
func (fb *Framebuffer) DrawTriangleTextured(tri Triangle, uv [3]math3d.Vec3, tex *Texture, intensity float64, depth *DepthBuffer) error {
	if err := depth.check(fb); err != nil {
		return err
	}
	if tex == nil || len(tex.Pixels) == 0 {
		return ErrNoTexture
	}
	fb.drawTriangleTextured(tri, uv, tex, intensity, depth, fb.allRows())
	return nil
}

func (fb *Framebuffer) drawTriangleTextured(tri Triangle, uv [3]math3d.Vec3, tex *Texture, intensity float64, depth *DepthBuffer, rows rowSpan) {
	zs := math3d.V3(tri.V[0].Z, tri.V[1].Z, tri.V[2].Z)
	fb.scan(tri, rows, func(idx int, bc math3d.Vec3) {
		if !inside(bc) {
			return
		}
		z := bc.Dot(zs)
		if !(depth.Values[idx] < z) {
			return
		}
		depth.Values[idx] = z
		t := uv[0].Scale(bc.X).Add(uv[1].Scale(bc.Y)).Add(uv[2].Scale(bc.Z))
		c := Shade(tex.Texel(t.X, t.Y), intensity)
		c.A = 255
		fb.Pixels[idx] = c
	})
}
