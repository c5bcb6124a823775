package render

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func testPattern() *Framebuffer {
	fb := NewFramebuffer(6, 4)
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(5, 3, ColorGreen)
	fb.SetPixel(2, 1, ColorBlue)
	return fb
}

func checkPattern(t *testing.T, img image.Image) {
	t.Helper()
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 4 {
		t.Fatalf("bounds = %v, want 6x4", img.Bounds())
	}
	tex := TextureFromImage(img)
	for _, p := range []struct {
		x, y int
		c    Color
	}{{0, 0, ColorRed}, {5, 3, ColorGreen}, {2, 1, ColorBlue}, {3, 3, ColorBlack}} {
		if got := tex.GetPixel(p.x, p.y); got != p.c {
			t.Errorf("pixel (%d,%d) = %v, want %v", p.x, p.y, got, p.c)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"out.png", FormatPNG, false},
		{"OUT.PNG", FormatPNG, false},
		{"dir/out.tga", FormatTGA, false},
		{"out.bmp", FormatBMP, false},
		{"out.jpg", "", true},
		{"out", "", true},
	}
	for _, tc := range tests {
		got, err := FormatFromPath(tc.path)
		if tc.err {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("FormatFromPath(%q) error = %v, want ErrUnsupportedFormat", tc.path, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", tc.path, got, err, tc.want)
		}
	}
}

func TestSave(t *testing.T) {
	for _, name := range []string{"out.png", "out.tga", "out.bmp"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, name)
			if err := testPattern().Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}

			tex, err := LoadTexture(path)
			if err != nil {
				t.Fatalf("LoadTexture: %v", err)
			}
			checkPattern(t, toImage(tex))

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 1 {
				t.Errorf("directory has %d entries, want only the output", len(entries))
			}
		})
	}
}

func TestSaveUnsupportedLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	err := testPattern().Save(filepath.Join(dir, "out.gif"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Save error = %v, want ErrUnsupportedFormat", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("directory has %d entries after failed save", len(entries))
	}
}

func TestSaveMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	if err := testPattern().Save(path); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestEncodeBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := testPattern().Encode(&buf, FormatBMP); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatalf("bmp.Decode: %v", err)
	}
	checkPattern(t, img)
}

func TestRGBBytes(t *testing.T) {
	fb := testPattern()
	b := fb.RGBBytes()
	if len(b) != 6*4*3 {
		t.Fatalf("len = %d, want %d", len(b), 6*4*3)
	}
	if b[0] != 255 || b[1] != 0 || b[2] != 0 {
		t.Errorf("first pixel = %v, want red", b[:3])
	}
}

// toImage wraps a texture back into an image for checkPattern.
func toImage(tex *Texture) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, tex.Width, tex.Height))
	for y := range tex.Height {
		for x := range tex.Width {
			img.SetRGBA(x, y, tex.GetPixel(x, y))
		}
	}
	return img
}
