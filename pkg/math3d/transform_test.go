package math3d

import (
	"math"
	"testing"
)

func TestViewportMapsUnitCube(t *testing.T) {
	const w, h, d = 800.0, 600.0, 255.0
	vp := Viewport(w, h, d)

	for _, p := range []float64{-1, -0.5, 0, 0.25, 1} {
		got := vp.MulVec3(V3(p, p, p))
		want := V3(ImagePosition(p, w), ImagePosition(p, h), ImagePosition(p, d))
		if !got.ApproxEqual(want, 1e-9) {
			t.Errorf("Viewport(%v) = %v, want %v", p, got, want)
		}
		if got.X < 0 || got.X > w || got.Y < 0 || got.Y > h {
			t.Errorf("Viewport(%v) = %v outside [0,%v]x[0,%v]", p, got, w, h)
		}
	}
}

func TestViewportTimesIdentityProjection(t *testing.T) {
	const w, h = 64.0, 32.0
	pipeline := Viewport(w, h, 255).Mul(Identity())

	got := pipeline.MulVec3(V3(-1, 1, 0))
	if !got.ApproxEqual(V3(0, h, 127.5), 1e-9) {
		t.Errorf("pipeline(-1,1,0) = %v", got)
	}
}

func TestImagePosition(t *testing.T) {
	tests := []struct {
		p, size, want float64
	}{
		{-1, 500, 0},
		{0, 500, 250},
		{1, 500, 500},
		{0.5, 100, 75},
	}
	for _, tc := range tests {
		if got := ImagePosition(tc.p, tc.size); got != tc.want {
			t.Errorf("ImagePosition(%v, %v) = %v, want %v", tc.p, tc.size, got, tc.want)
		}
	}
}

func TestProjection(t *testing.T) {
	const c = 3.0
	p := Projection(c)
	if p.Get(3, 2) != -1/c {
		t.Errorf("Projection(%v).Get(3,2) = %v", c, p.Get(3, 2))
	}

	// A point on the z=0 plane is unchanged.
	if got := p.MulVec3(V3(0.5, 0.5, 0)); !got.ApproxEqual(V3(0.5, 0.5, 0), 1e-12) {
		t.Errorf("Projection of z=0 point = %v", got)
	}

	// A point halfway to the camera doubles in size.
	v := p.MulVec4(V4(0.5, 0.5, 1.5, 1))
	if math.Abs(v.W-0.5) > 1e-12 {
		t.Errorf("w = %v, want 0.5", v.W)
	}
	if got := v.PerspectiveDivide(); !got.ApproxEqual(V3(1, 1, 3), 1e-12) {
		t.Errorf("divided = %v, want (1,1,3)", got)
	}
}

func TestModelView(t *testing.T) {
	t.Run("eye on z axis is identity", func(t *testing.T) {
		mv := ModelView(V3(0, 0, 3), Up())
		for row := range 4 {
			for col := range 4 {
				want := 0.0
				if row == col {
					want = 1
				}
				if math.Abs(mv.Get(row, col)-want) > 1e-12 {
					t.Fatalf("ModelView = %v, want identity", mv)
				}
			}
		}
	})

	t.Run("rows are orthonormal", func(t *testing.T) {
		mv := ModelView(V3(-2, 1, 3), Up())
		rows := make([]Vec3, 3)
		for i := range 3 {
			rows[i] = V3(mv.Get(i, 0), mv.Get(i, 1), mv.Get(i, 2))
			if math.Abs(rows[i].Len()-1) > 1e-12 {
				t.Errorf("row %d length = %v", i, rows[i].Len())
			}
		}
		for i := range 3 {
			for j := i + 1; j < 3; j++ {
				if d := rows[i].Dot(rows[j]); math.Abs(d) > 1e-12 {
					t.Errorf("rows %d,%d not orthogonal: %v", i, j, d)
				}
			}
		}
	})

	t.Run("eye maps onto z axis", func(t *testing.T) {
		eye := V3(-2, 1, 3)
		got := ModelView(eye, Up()).MulVec3(eye)
		if !got.ApproxEqual(V3(0, 0, eye.Len()), 1e-9) {
			t.Errorf("ModelView(eye) = %v, want (0,0,%v)", got, eye.Len())
		}
	})
}

func TestPerspectiveScale(t *testing.T) {
	const c = 5.0
	tests := []struct {
		z    float64
		want float64
	}{
		{1, 1},
		{0, 0.8},
		{-1, 4.0 / 6.0},
	}
	for _, tc := range tests {
		m := PerspectiveScale(c, tc.z)
		got := m.MulVec3(V3(1, 1, 3))
		if math.Abs(got.X-tc.want) > 1e-12 || got.X != got.Y || got.Z != 3 {
			t.Errorf("PerspectiveScale(%v, %v) * 1 = %v, want %v", c, tc.z, got, tc.want)
		}
	}
}
