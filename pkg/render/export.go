package render

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned for output paths with an unknown
// extension.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format identifies an output image codec.
type Format string

const (
	FormatPNG Format = "png"
	FormatTGA Format = "tga"
	FormatBMP Format = "bmp"
)

// FormatFromPath picks the codec from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".tga":
		return FormatTGA, nil
	case ".bmp":
		return FormatBMP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Encode writes the framebuffer to w in the given format.
func (fb *Framebuffer) Encode(w io.Writer, f Format) error {
	img := fb.ToImage()
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatTGA:
		return EncodeTGA(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Save writes the framebuffer to path, choosing the codec from the
// extension. The image is encoded into a temporary file next to path and
// renamed into place; a failed save leaves no file behind.
func (fb *Framebuffer) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := fb.Encode(tmp, format); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming output: %w", err)
	}
	return nil
}
