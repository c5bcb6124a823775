package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience. Framebuffers always
// carry opaque pixels; alpha only matters to the terminal preview.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack  = color.RGBA{0, 0, 0, 255}
	ColorWhite  = color.RGBA{255, 255, 255, 255}
	ColorRed    = color.RGBA{255, 0, 0, 255}
	ColorGreen  = color.RGBA{0, 255, 0, 255}
	ColorBlue   = color.RGBA{0, 0, 255, 255}
	ColorYellow = color.RGBA{255, 255, 0, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// Gray returns the opaque gray whose channels are intensity*255, truncated.
func Gray(intensity float64) Color {
	v := scaleChannel(255, intensity)
	return Color{R: v, G: v, B: v, A: 255}
}

// Shade scales the RGB channels of c by intensity, truncating each result
// to a byte. Alpha is kept.
func Shade(c Color, intensity float64) Color {
	return Color{
		R: scaleChannel(c.R, intensity),
		G: scaleChannel(c.G, intensity),
		B: scaleChannel(c.B, intensity),
		A: c.A,
	}
}

func scaleChannel(ch uint8, intensity float64) uint8 {
	v := float64(ch) * intensity
	switch {
	case v >= 255:
		return 255
	case v <= 0 || math.IsNaN(v):
		return 0
	}
	return uint8(v)
}
