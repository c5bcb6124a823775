package render

import "math"

// DrawLineSegment draws a line between two logical points. The walk
// always steps the independent axis by exactly one unit: steep lines are
// transposed and the endpoints ordered so that x increases, then y is
// computed from the slope.
func (fb *Framebuffer) DrawLineSegment(x0, y0, x1, y1 float64, c Color) {
	fb.drawLineSegment(x0, y0, x1, y1, c, fb.allRows())
}

func (fb *Framebuffer) drawLineSegment(x0, y0, x1, y1 float64, c Color, rows rowSpan) {
	steep := math.Abs(y1-y0) > math.Abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	slope := 0.0
	if x1 != x0 {
		slope = (y1 - y0) / (x1 - x0)
	}
	for x := x0; x <= x1; x++ {
		y := slope*(x-x0) + y0
		if steep {
			fb.plot(y, x, c, rows)
		} else {
			fb.plot(x, y, c, rows)
		}
	}
}

// DrawBBox outlines a bounding box.
func (fb *Framebuffer) DrawBBox(box BBox, c Color) {
	fb.drawBBox(box, c, fb.allRows())
}

func (fb *Framebuffer) drawBBox(box BBox, c Color, rows rowSpan) {
	sw, ne := box.SW, box.NE
	fb.drawLineSegment(sw.X, sw.Y, ne.X, sw.Y, c, rows)
	fb.drawLineSegment(sw.X, ne.Y, ne.X, ne.Y, c, rows)
	fb.drawLineSegment(sw.X, sw.Y, sw.X, ne.Y, c, rows)
	fb.drawLineSegment(ne.X, sw.Y, ne.X, ne.Y, c, rows)
}

// DrawTriangleOutline draws the three edges of tri.
func (fb *Framebuffer) DrawTriangleOutline(tri Triangle, c Color) {
	fb.drawTriangleOutline(tri, c, fb.allRows())
}

func (fb *Framebuffer) drawTriangleOutline(tri Triangle, c Color, rows rowSpan) {
	if !tri.finite() {
		return
	}
	for i := range 3 {
		a, b := tri.V[i], tri.V[(i+1)%3]
		fb.drawLineSegment(a.X, a.Y, b.X, b.Y, c, rows)
	}
}

// plot is Plot restricted to a row span.
func (fb *Framebuffer) plot(x, y float64, c Color, rows rowSpan) {
	row := fb.Row(y)
	if row < rows.lo || row >= rows.hi {
		return
	}
	fb.Pixels[row*fb.Width+fb.Col(x)] = c
}
