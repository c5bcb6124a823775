package render

import (
	"testing"

	"github.com/arvsrao/tiny-render-course/pkg/math3d"
)

// logicalPixels collects the logical (x, y) positions of pixels equal to c.
func logicalPixels(fb *Framebuffer, c Color) map[[2]int]bool {
	set := make(map[[2]int]bool)
	for row := range fb.Height {
		for col := range fb.Width {
			if fb.GetPixel(col, row) == c {
				set[[2]int{col, int(fb.LogicalY(row))}] = true
			}
		}
	}
	return set
}

func TestDrawLineSegment(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		want           [][2]int
	}{
		{"horizontal", 2, 5, 6, 5, [][2]int{{2, 5}, {3, 5}, {4, 5}, {5, 5}, {6, 5}}},
		{"horizontal reversed", 6, 5, 2, 5, [][2]int{{2, 5}, {3, 5}, {4, 5}, {5, 5}, {6, 5}}},
		{"vertical", 3, 1, 3, 4, [][2]int{{3, 1}, {3, 2}, {3, 3}, {3, 4}}},
		{"vertical reversed", 3, 4, 3, 1, [][2]int{{3, 1}, {3, 2}, {3, 3}, {3, 4}}},
		{"diagonal", 1, 1, 4, 4, [][2]int{{1, 1}, {2, 2}, {3, 3}, {4, 4}}},
		{"shallow", 0, 1, 4, 3, [][2]int{{0, 1}, {1, 2}, {2, 2}, {3, 3}, {4, 3}}},
		{"steep", 1, 0, 3, 4, [][2]int{{1, 0}, {1, 1}, {2, 2}, {2, 3}, {3, 4}}},
		{"steep reversed", 3, 4, 1, 0, [][2]int{{1, 0}, {1, 1}, {2, 2}, {2, 3}, {3, 4}}},
		{"point", 2, 2, 2, 2, [][2]int{{2, 2}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(10, 10)
			fb.DrawLineSegment(tc.x0, tc.y0, tc.x1, tc.y1, ColorWhite)

			got := logicalPixels(fb, ColorWhite)
			// Fractional y lands on the row above; y=0 shares the bottom
			// row with y=1.
			want := make(map[[2]int]bool)
			for _, p := range tc.want {
				if p[1] == 0 {
					p[1] = 1
				}
				want[p] = true
			}
			if len(got) != len(want) {
				t.Fatalf("drew %d pixels %v, want %d %v", len(got), got, len(want), want)
			}
			for p := range want {
				if !got[p] {
					t.Errorf("missing pixel %v; got %v", p, got)
				}
			}
		})
	}
}

func TestDrawBBox(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	tri := Tri(math3d.V3(2.5, 3.2, 0), math3d.V3(9.9, 3.5, 0), math3d.V3(5, 7.1, 0))
	box := tri.BBox()
	fb.DrawBBox(box, ColorYellow)

	got := logicalPixels(fb, ColorYellow)
	for x := 2; x <= 10; x++ {
		for y := 3; y <= 8; y++ {
			edge := x == 2 || x == 10 || y == 3 || y == 8
			if got[[2]int{x, y}] != edge {
				t.Errorf("pixel (%d,%d) drawn=%v, want %v", x, y, got[[2]int{x, y}], edge)
			}
		}
	}
	if len(got) != 2*9+2*4 {
		t.Errorf("outline has %d pixels, want %d", len(got), 2*9+2*4)
	}
}

func TestDrawTriangleOutlineVisitsVertices(t *testing.T) {
	fb := NewFramebuffer(32, 32)
	tri := Tri(math3d.V3(4, 8, 0), math3d.V3(20, 8, 0), math3d.V3(12, 24, 0))
	fb.DrawTriangleOutline(tri, ColorGreen)

	got := logicalPixels(fb, ColorGreen)
	for _, v := range tri.V {
		if !got[[2]int{int(v.X), int(v.Y)}] {
			t.Errorf("vertex %v not drawn", v)
		}
	}
	if got[[2]int{12, 14}] {
		t.Error("interior pixel drawn by outline")
	}
}

func TestDrawLine(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.DrawLine(0, 0, 9, 9, ColorRed)
	for i := range 10 {
		if fb.GetPixel(i, i) != ColorRed {
			t.Errorf("pixel (%d,%d) not drawn", i, i)
		}
	}
	// Out of range endpoints are clipped, not wrapped.
	fb.DrawLine(-5, 2, 20, 2, ColorBlue)
	if countColor(fb, ColorBlue) != 10 {
		t.Errorf("clipped line drew %d pixels, want 10", countColor(fb, ColorBlue))
	}
}
