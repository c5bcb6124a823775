// Package pipeline turns meshes into pixels: it projects each face with a
// Projector, computes its lighting and hands the screen-space triangle to
// the rasterizer.
package pipeline

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/arvsrao/tiny-render-course/pkg/math3d"
	"github.com/arvsrao/tiny-render-course/pkg/render"
)

// ErrNoProjector is returned when Options has no Projector.
var ErrNoProjector = errors.New("pipeline: no projector")

// Mesh is the face and vertex access Render needs. *models.Mesh
// implements it.
type Mesh interface {
	TriangleCount() int
	Face(i int) [3]int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
}

// DefaultLight points into the screen, towards a viewer on +z.
var DefaultLight = math3d.V3(0, 0, -1)

// Options configures Render.
type Options struct {
	Projector Projector
	Shading   Shading

	// Texture is required for ShadingTextured. Mesh texture coordinates
	// are scaled by its size.
	Texture *render.Texture

	// Light is the light direction; the zero vector means DefaultLight.
	Light math3d.Vec3

	// Color is the wireframe color; the zero value means white.
	Color render.Color

	// Workers above 1 rasterize in that many parallel row bands.
	Workers int

	// Seed seeds the random face colors of ShadingFlat.
	Seed uint64

	Logger *zap.Logger
}

// Stats summarizes a Render call.
type Stats struct {
	Triangles  int // Faces visited
	Drawn      int // Faces handed to the rasterizer
	Unlit      int // Faces facing away from the light
	Degenerate int // Faces with zero screen area or normal
	Elapsed    time.Duration
}

// checkEvery is how many faces Render draws between context checks.
const checkEvery = 64

// Render draws every face of mesh into fb. depth may be nil for
// ShadingWireframe; the other modes require a depth buffer matching fb.
// A cancelled context stops rendering and returns ctx.Err() with the
// statistics so far.
func Render(ctx context.Context, fb *render.Framebuffer, depth *render.DepthBuffer, mesh Mesh, opts Options) (Stats, error) {
	start := time.Now()
	var stats Stats

	if opts.Projector == nil {
		return stats, ErrNoProjector
	}
	if opts.Shading == ShadingTextured && (opts.Texture == nil || len(opts.Texture.Pixels) == 0) {
		return stats, render.ErrNoTexture
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	light := opts.Light
	if light == (math3d.Vec3{}) {
		light = DefaultLight
	}
	wire := opts.Color
	if wire == (render.Color{}) {
		wire = render.ColorWhite
	}
	var uvScale math3d.Vec2
	if opts.Texture != nil {
		uvScale = opts.Texture.Size()
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5851f42d4c957f2d))

	var (
		surface render.Surface = render.Direct{FB: fb, Depth: depth}
		bands   *render.BandRasterizer
	)
	if opts.Workers > 1 {
		d := depth
		if d == nil && !opts.Shading.NeedsDepth() {
			d = render.NewDepthBuffer(fb.Width, fb.Height)
		}
		var err error
		if bands, err = render.NewBandRasterizer(fb, d, opts.Workers); err != nil {
			return stats, err
		}
		surface = bands
	}

	for i := range mesh.TriangleCount() {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}
		stats.Triangles++

		var (
			world  [3]math3d.Vec3
			screen render.Triangle
			uv     [3]math3d.Vec3
		)
		for j, idx := range mesh.Face(i) {
			p, _, t := mesh.GetVertex(idx)
			world[j] = p
			screen.V[j] = opts.Projector.Project(p)
			uv[j] = math3d.V3(t.X*uvScale.X, t.Y*uvScale.Y, 0)
		}

		if opts.Shading == ShadingWireframe {
			surface.Outline(screen, wire)
			stats.Drawn++
			continue
		}

		// Drawn before the degeneracy check so that face colors do not
		// depend on which faces are skipped.
		var flat render.Color
		if opts.Shading == ShadingFlat {
			flat = render.RGB(uint8(rng.UintN(256)), uint8(rng.UintN(256)), uint8(rng.UintN(256)))
		}

		if a := screen.Area2(); a == 0 || math.IsNaN(a) || math.IsInf(a, 0) {
			stats.Degenerate++
			continue
		}

		var err error
		switch opts.Shading {
		case ShadingFlat:
			err = surface.Fill(screen, flat)
		case ShadingLit, ShadingTextured:
			n := render.Tri(world[0], world[1], world[2]).Normal()
			if n.LenSq() == 0 {
				stats.Degenerate++
				continue
			}
			intensity := n.Normalize().Dot(light)
			if opts.Shading == ShadingLit {
				grey := render.Gray(intensity)
				if grey.R == 0 {
					stats.Unlit++
					continue
				}
				err = surface.Fill(screen, grey)
			} else {
				if !(intensity > 0) {
					stats.Unlit++
					continue
				}
				err = surface.FillTextured(screen, uv, opts.Texture, intensity)
			}
		}
		if err != nil {
			return stats, err
		}
		stats.Drawn++
	}

	if bands != nil {
		if err := bands.Flush(ctx); err != nil {
			return stats, err
		}
	}

	stats.Elapsed = time.Since(start)
	log.Debug("render complete",
		zap.Stringer("shading", opts.Shading),
		zap.Int("triangles", stats.Triangles),
		zap.Int("drawn", stats.Drawn),
		zap.Int("unlit", stats.Unlit),
		zap.Int("degenerate", stats.Degenerate),
		zap.Int("workers", max(opts.Workers, 1)),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return stats, nil
}

// DrawDemo fills the classic demo triangle in blue on s and outlines its
// bounding box in yellow.
func DrawDemo(s render.Surface) render.Triangle {
	tri := render.Tri(math3d.V3(420, 280, 0), math3d.V3(120, 200, 0), math3d.V3(20, 20, 0))
	s.FillFlat(tri, render.ColorBlue)
	s.Box(tri.BBox(), render.ColorYellow)
	return tri
}
