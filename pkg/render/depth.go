package render

import (
	"errors"
	"fmt"
	"math"
)

// ErrDepthBufferSize is returned when a depth buffer does not match the
// framebuffer it is used with.
var ErrDepthBufferSize = errors.New("depth buffer size does not match framebuffer")

// emptyDepth marks a pixel nothing has been drawn to. Larger depths win.
const emptyDepth = -math.MaxFloat64

// DepthBuffer stores one depth per framebuffer pixel, indexed the same way.
type DepthBuffer struct {
	Width  int
	Height int
	Values []float64
}

// NewDepthBuffer creates a cleared depth buffer.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
	d.Clear()
	return d
}

// Clear resets every entry to the minimum representable depth.
func (d *DepthBuffer) Clear() {
	if len(d.Values) == 0 {
		return
	}
	// Fill by doubling copies; faster than a plain loop for large buffers.
	d.Values[0] = emptyDepth
	for filled := 1; filled < len(d.Values); filled *= 2 {
		copy(d.Values[filled:], d.Values[:filled])
	}
}

// At returns the stored depth at column x, row y.
func (d *DepthBuffer) At(x, y int) float64 {
	return d.Values[y*d.Width+x]
}

// Empty reports whether nothing has been drawn at column x, row y.
func (d *DepthBuffer) Empty(x, y int) bool {
	return d.At(x, y) == emptyDepth
}

// check validates that d can be used with fb.
func (d *DepthBuffer) check(fb *Framebuffer) error {
	if d == nil {
		return fmt.Errorf("%w: nil depth buffer", ErrDepthBufferSize)
	}
	if d.Width != fb.Width || d.Height != fb.Height || len(d.Values) != len(fb.Pixels) {
		return fmt.Errorf("%w: depth %dx%d, framebuffer %dx%d",
			ErrDepthBufferSize, d.Width, d.Height, fb.Width, fb.Height)
	}
	return nil
}
