// Package render implements the software rasterizer: triangle geometry,
// the frame and depth buffers, fill and line routines, textures and image
// export.
package render

import (
	"image"
	"math"
)

// Framebuffer is a 2D array of pixels. Pixel row 0 is the top of the
// image, while logical coordinates passed to the drawing routines have
// their origin at the bottom-left.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color // Row-major pixel data, len == Width*Height
}

// NewFramebuffer creates a black framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
	fb.Clear(ColorBlack)
	return fb
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets the pixel at column x, row y. Out of range writes are
// dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at column x, row y.
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// Row maps a logical y coordinate to a buffer row, flipping the axis and
// saturating to [0, Height-1].
func (fb *Framebuffer) Row(y float64) int {
	return saturate(float64(fb.Height)-y, fb.Height)
}

// Col maps a logical x coordinate to a buffer column, saturating to
// [0, Width-1].
func (fb *Framebuffer) Col(x float64) int {
	return saturate(x, fb.Width)
}

// LogicalY is the inverse of Row for rows inside the buffer.
func (fb *Framebuffer) LogicalY(row int) float64 {
	return float64(fb.Height - row)
}

// Index returns the pixel index for logical coordinates (x, y).
func (fb *Framebuffer) Index(x, y float64) int {
	return fb.Row(y)*fb.Width + fb.Col(x)
}

// Plot writes c at logical coordinates (x, y). Coordinates outside the
// buffer are clamped onto its edge.
func (fb *Framebuffer) Plot(x, y float64, c Color) {
	fb.Pixels[fb.Index(x, y)] = c
}

// saturate clamps v into [0, dim-1], flooring values in range.
func saturate(v float64, dim int) int {
	switch {
	case v >= float64(dim):
		return dim - 1
	case v <= 0 || math.IsNaN(v):
		return 0
	}
	return int(math.Floor(v))
}

// DrawLine draws a line between two pixel positions using Bresenham's
// algorithm. Unlike DrawLineSegment it works in buffer space.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// RGBBytes returns the pixels as a flat RGB byte buffer, top row first.
func (fb *Framebuffer) RGBBytes() []byte {
	buf := make([]byte, 0, len(fb.Pixels)*3)
	for _, p := range fb.Pixels {
		buf = append(buf, p.R, p.G, p.B)
	}
	return buf
}
