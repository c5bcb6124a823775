package math3d

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, -5, 6)

	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"add", a.Add(b), V3(5, -3, 9)},
		{"sub", a.Sub(b), V3(-3, 7, -3)},
		{"mul", a.Mul(b), V3(4, -10, 18)},
		{"scale", a.Scale(2), V3(2, 4, 6)},
		{"negate", a.Negate(), V3(-1, -2, -3)},
		{"min", a.Min(b), V3(1, -5, 3)},
		{"max", a.Max(b), V3(4, 2, 6)},
		{"floor", V3(1.5, -1.5, 2).Floor(), V3(1, -2, 2)},
		{"ceil", V3(1.5, -1.5, 2).Ceil(), V3(2, -1, 2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestVec3Cross(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want Vec3
	}{
		{"x cross y", V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)},
		{"y cross z", V3(0, 1, 0), V3(0, 0, 1), V3(1, 0, 0)},
		{"z cross x", V3(0, 0, 1), V3(1, 0, 0), V3(0, 1, 0)},
		{"anticommutative", V3(0, 1, 0), V3(1, 0, 0), V3(0, 0, -1)},
		{"general", V3(1, 2, 3), V3(4, 5, 6), V3(-3, 6, -3)},
		{"parallel", V3(1, 2, 3), V3(2, 4, 6), V3(0, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.Cross(tc.b)
			if !got.ApproxEqual(tc.want, 1e-12) {
				t.Errorf("%v × %v = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if d := got.Dot(tc.a); math.Abs(d) > 1e-9 {
				t.Errorf("cross product not orthogonal to a: dot = %v", d)
			}
		})
	}
}

func TestVec3Normalize(t *testing.T) {
	v := V3(3, 4, 0)
	n := v.Normalize()
	if !n.ApproxEqual(V3(0.6, 0.8, 0), 1e-12) {
		t.Errorf("Normalize(%v) = %v", v, n)
	}
	if math.Abs(n.Len()-1) > 1e-12 {
		t.Errorf("normalized length = %v, want 1", n.Len())
	}

	v.NormalizeInPlace()
	if v != n {
		t.Errorf("NormalizeInPlace = %v, want %v", v, n)
	}

	z := Zero3().Normalize()
	if !math.IsNaN(z.X) || !math.IsNaN(z.Y) || !math.IsNaN(z.Z) {
		t.Errorf("zero vector normalize should propagate NaN, got %v", z)
	}
}

func TestVec3DotLen(t *testing.T) {
	a := V3(1, 2, 2)
	if a.Dot(a) != 9 {
		t.Errorf("Dot = %v, want 9", a.Dot(a))
	}
	if a.LenSq() != 9 {
		t.Errorf("LenSq = %v, want 9", a.LenSq())
	}
	if a.Len() != 3 {
		t.Errorf("Len = %v, want 3", a.Len())
	}
}

func TestVec2Cross(t *testing.T) {
	if got := V2(1, 0).Cross(V2(0, 1)); got != 1 {
		t.Errorf("Cross = %v, want 1", got)
	}
	if got := V2(0, 1).Cross(V2(1, 0)); got != -1 {
		t.Errorf("Cross = %v, want -1", got)
	}
}

func TestVec4PerspectiveDivide(t *testing.T) {
	got := V4(2, 4, 6, 2).PerspectiveDivide()
	if got != V3(1, 2, 3) {
		t.Errorf("PerspectiveDivide = %v, want (1,2,3)", got)
	}
	inf := V4(1, 0, 0, 0).PerspectiveDivide()
	if !math.IsInf(inf.X, 1) {
		t.Errorf("divide by zero w should propagate Inf, got %v", inf)
	}
}
