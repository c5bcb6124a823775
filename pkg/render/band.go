package render

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/arvsrao/tiny-render-course/pkg/math3d"
)

// Surface receives screen-space primitives. Direct draws immediately;
// BandRasterizer queues them and draws in parallel on Flush.
type Surface interface {
	FillFlat(tri Triangle, c Color)
	Fill(tri Triangle, c Color) error
	FillTextured(tri Triangle, uv [3]math3d.Vec3, tex *Texture, intensity float64) error
	Outline(tri Triangle, c Color)
	Box(box BBox, c Color)
}

// Direct is a Surface that rasterizes straight into its buffers.
type Direct struct {
	FB    *Framebuffer
	Depth *DepthBuffer
}

// FillFlat implements Surface.
func (d Direct) FillFlat(tri Triangle, c Color) { d.FB.DrawTriangleFlat(tri, c) }

// Fill implements Surface.
func (d Direct) Fill(tri Triangle, c Color) error { return d.FB.DrawTriangle(tri, d.Depth, c) }

// FillTextured implements Surface.
func (d Direct) FillTextured(tri Triangle, uv [3]math3d.Vec3, tex *Texture, intensity float64) error {
	return d.FB.DrawTriangleTextured(tri, uv, tex, intensity, d.Depth)
}

// Outline implements Surface.
func (d Direct) Outline(tri Triangle, c Color) { d.FB.DrawTriangleOutline(tri, c) }

// Box implements Surface.
func (d Direct) Box(box BBox, c Color) { d.FB.DrawBBox(box, c) }

// BandRasterizer splits the framebuffer into disjoint horizontal bands and
// rasterizes each band on its own goroutine. Every band replays the full
// command list in submission order but only touches its own rows, so each
// pixel has exactly one writer and the depth test-then-write sequence
// needs no locking. The output is identical to drawing with Direct.
type BandRasterizer struct {
	fb    *Framebuffer
	depth *DepthBuffer
	bands []rowSpan
	ops   []func(rowSpan)
}

// NewBandRasterizer creates a rasterizer with n bands over fb and depth.
// n is clamped to [1, fb.Height].
func NewBandRasterizer(fb *Framebuffer, depth *DepthBuffer, n int) (*BandRasterizer, error) {
	if err := depth.check(fb); err != nil {
		return nil, err
	}
	n = max(1, min(n, fb.Height))
	per := (fb.Height + n - 1) / n

	b := &BandRasterizer{fb: fb, depth: depth}
	for lo := 0; lo < fb.Height; lo += per {
		b.bands = append(b.bands, rowSpan{lo, min(lo+per, fb.Height)})
	}
	return b, nil
}

// Bands returns the number of bands.
func (b *BandRasterizer) Bands() int {
	return len(b.bands)
}

// Pending returns the number of queued commands.
func (b *BandRasterizer) Pending() int {
	return len(b.ops)
}

// FillFlat implements Surface.
func (b *BandRasterizer) FillFlat(tri Triangle, c Color) {
	b.ops = append(b.ops, func(rows rowSpan) {
		b.fb.drawTriangleFlat(tri, c, rows)
	})
}

// Fill implements Surface.
func (b *BandRasterizer) Fill(tri Triangle, c Color) error {
	b.ops = append(b.ops, func(rows rowSpan) {
		b.fb.drawTriangle(tri, b.depth, c, rows)
	})
	return nil
}

// FillTextured implements Surface.
func (b *BandRasterizer) FillTextured(tri Triangle, uv [3]math3d.Vec3, tex *Texture, intensity float64) error {
	if tex == nil || len(tex.Pixels) == 0 {
		return ErrNoTexture
	}
	b.ops = append(b.ops, func(rows rowSpan) {
		b.fb.drawTriangleTextured(tri, uv, tex, intensity, b.depth, rows)
	})
	return nil
}

// Outline implements Surface.
func (b *BandRasterizer) Outline(tri Triangle, c Color) {
	b.ops = append(b.ops, func(rows rowSpan) {
		b.fb.drawTriangleOutline(tri, c, rows)
	})
}

// Box implements Surface.
func (b *BandRasterizer) Box(box BBox, c Color) {
	b.ops = append(b.ops, func(rows rowSpan) {
		b.fb.drawBBox(box, c, rows)
	})
}

// Flush draws every queued command and clears the queue. Workers check
// ctx periodically and stop early when it is cancelled.
func (b *BandRasterizer) Flush(ctx context.Context) error {
	const checkEvery = 256

	ops := b.ops
	b.ops = nil

	g, ctx := errgroup.WithContext(ctx)
	for _, band := range b.bands {
		g.Go(func() error {
			for i, op := range ops {
				if i%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				op(band)
			}
			return nil
		})
	}
	return g.Wait()
}
