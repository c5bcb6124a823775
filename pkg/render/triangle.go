package render

import (
	"math"

	"github.com/arvsrao/tiny-render-course/pkg/math3d"
)

// BBox is an axis-aligned pixel rectangle. SW holds the floored minimum
// corner and NE the ceiled maximum corner; both bounds are inclusive.
type BBox struct {
	SW, NE math3d.Vec2
}

// Triangle is three screen-space vertices. Winding does not affect
// classification, only the sign of Normal.
type Triangle struct {
	V [3]math3d.Vec3
}

// Tri creates a Triangle from three vertices.
func Tri(a, b, c math3d.Vec3) Triangle {
	return Triangle{V: [3]math3d.Vec3{a, b, c}}
}

// BBox returns the smallest pixel box containing all three vertices.
func (t Triangle) BBox() BBox {
	minX := math.Min(t.V[0].X, math.Min(t.V[1].X, t.V[2].X))
	minY := math.Min(t.V[0].Y, math.Min(t.V[1].Y, t.V[2].Y))
	maxX := math.Max(t.V[0].X, math.Max(t.V[1].X, t.V[2].X))
	maxY := math.Max(t.V[0].Y, math.Max(t.V[1].Y, t.V[2].Y))
	return BBox{
		SW: math3d.V2(math.Floor(minX), math.Floor(minY)),
		NE: math3d.V2(math.Ceil(maxX), math.Ceil(maxY)),
	}
}

// Area2 returns twice the signed area of the triangle projected onto the
// xy plane. It is positive for counter-clockwise winding.
func (t Triangle) Area2() float64 {
	e1 := t.V[1].XY().Sub(t.V[0].XY())
	e2 := t.V[2].XY().Sub(t.V[0].XY())
	return e1.Cross(e2)
}

// Barycentric returns the weights (u, v, w) with p = u*V0 + v*V1 + w*V2
// and u+v+w == 1, using only x and y. Each weight is the signed area of
// the sub-triangle opposite its vertex over the total signed area, so the
// result does not depend on winding. ok is false when the triangle has
// zero area.
func (t Triangle) Barycentric(p math3d.Vec3) (bc math3d.Vec3, ok bool) {
	e0 := t.V[0].XY().Sub(p.XY())
	e1 := t.V[1].XY().Sub(p.XY())
	e2 := t.V[2].XY().Sub(p.XY())

	a := math3d.V3(e1.Cross(e2), e2.Cross(e0), e0.Cross(e1))
	total := a.X + a.Y + a.Z
	if total == 0 || math.IsNaN(total) {
		return math3d.Vec3{}, false
	}
	return a.Scale(1 / total), true
}

// Contains reports whether p lies inside or on the boundary of t.
// Degenerate triangles contain nothing.
func (t Triangle) Contains(p math3d.Vec3) bool {
	bc, ok := t.Barycentric(p)
	return ok && inside(bc)
}

// Normal returns (V2-V0) × (V1-V0), unnormalized. Lighting relies on this
// operand order.
func (t Triangle) Normal() math3d.Vec3 {
	return t.V[2].Sub(t.V[0]).Cross(t.V[1].Sub(t.V[0]))
}

// finite reports whether every coordinate is a real number. Triangles
// that went through a w=0 divide are rejected before scanning.
func (t Triangle) finite() bool {
	for _, v := range t.V {
		for _, c := range [3]float64{v.X, v.Y, v.Z} {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	return true
}

// inside is the point-in-triangle test: no weight is negative. Weights
// from Barycentric sum to 1 for either winding, so this one test serves
// every fill variant.
func inside(bc math3d.Vec3) bool {
	return bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0
}
