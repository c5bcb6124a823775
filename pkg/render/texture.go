package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // Register BMP decoder

	"github.com/arvsrao/tiny-render-course/pkg/math3d"
)

// Texture holds a 2D image for texture mapping. Row 0 is the top of the
// image.
type Texture struct {
	Width  int
	Height int
	Pixels []Color // Row-major pixel data
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from a TGA, PNG, JPEG or BMP file.
func LoadTexture(path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}

	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := NewTexture(width, height)

	for y := range height {
		for x := range width {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			r, g, b, a := c.RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.SetPixel(x, y, Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}

	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture, used when a
// textured render has no image to sample.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Size returns the texture dimensions, the factor that scales normalized
// texture coordinates into texel units.
func (t *Texture) Size() math3d.Vec2 {
	return math3d.V2(float64(t.Width), float64(t.Height))
}

// Texel returns the nearest texel for coordinates in texel units, with v
// measured up from the bottom of the image. Coordinates past the upper
// bound wrap around; coordinates at or below zero clamp to the first texel.
func (t *Texture) Texel(u, v float64) Color {
	row := wrapTexel(float64(t.Height)-v, t.Height)
	col := wrapTexel(u, t.Width)
	return t.Pixels[row*t.Width+col]
}

// wrapTexel maps n into [0, dim): the modulo of its integer part at or
// past dim, 0 at or below zero, and its floor otherwise.
func wrapTexel(n float64, dim int) int {
	switch {
	case n >= float64(dim):
		if n >= math.MaxInt32 {
			return 0
		}
		return int(n) % dim
	case n <= 0 || math.IsNaN(n):
		return 0
	}
	return int(math.Floor(n))
}
