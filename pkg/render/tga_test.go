package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

func tgaHeader(imageType byte, w, h int, bpp, descriptor byte) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestTGARoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 5, 3))
	for y := range 3 {
		for x := range 5 {
			src.SetRGBA(x, y, color.RGBA{uint8(x * 40), uint8(y * 80), uint8(x + y), 255})
		}
	}

	var buf bytes.Buffer
	if err := EncodeTGA(&buf, src); err != nil {
		t.Fatalf("EncodeTGA: %v", err)
	}
	if got, want := buf.Len(), tgaHeaderSize+5*3*3; got != want {
		t.Errorf("encoded %d bytes, want %d", got, want)
	}

	img, err := DecodeTGA(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	if img.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v, want %v", img.Bounds(), src.Bounds())
	}
	for y := range 3 {
		for x := range 5 {
			if got, want := img.At(x, y), src.RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDecodeTGABottomToTop(t *testing.T) {
	// 1x2, 24-bit, first stored row is the bottom row.
	data := tgaHeader(tgaTypeUncompressed, 1, 2, 24, 0)
	data = append(data,
		0, 0, 255, // bottom: red (BGR)
		255, 0, 0, // top: blue
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	if got := img.At(0, 0); got != ColorBlue {
		t.Errorf("top = %v, want blue", got)
	}
	if got := img.At(0, 1); got != ColorRed {
		t.Errorf("bottom = %v, want red", got)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 4x1, 32-bit, top-to-bottom: a run of three green pixels and one
	// literal half-transparent white pixel.
	data := tgaHeader(tgaTypeRLE, 4, 1, 32, tgaTopToBottom)
	data = append(data,
		0x80|2, 0, 255, 0, 255,
		0x00, 255, 255, 255, 128,
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	want := []color.RGBA{ColorGreen, ColorGreen, ColorGreen, {255, 255, 255, 128}}
	for x, c := range want {
		if got := img.At(x, 0); got != c {
			t.Errorf("pixel %d = %v, want %v", x, got, c)
		}
	}
}

func TestDecodeTGASkipsImageID(t *testing.T) {
	data := tgaHeader(tgaTypeUncompressed, 1, 1, 24, 0)
	data[0] = 3
	data = append(data, 'a', 'b', 'c', 0, 255, 0)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	if got := img.At(0, 0); got != ColorGreen {
		t.Errorf("pixel = %v, want green", got)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		truncated bool
	}{
		{"short header", []byte{0, 0, 2}, false},
		{"color mapped", func() []byte {
			d := tgaHeader(tgaTypeUncompressed, 1, 1, 24, 0)
			d[1] = 1
			return d
		}(), false},
		{"grayscale", tgaHeader(3, 1, 1, 8, 0), false},
		{"16 bit", tgaHeader(tgaTypeUncompressed, 1, 1, 16, 0), false},
		{"raw truncated", append(tgaHeader(tgaTypeUncompressed, 2, 2, 24, 0), 1, 2, 3), true},
		{"rle truncated", append(tgaHeader(tgaTypeRLE, 4, 1, 24, 0), 0x80|1, 1, 2, 3), true},
		{"rle missing pixel", append(tgaHeader(tgaTypeRLE, 1, 1, 24, 0), 0x80), true},
		{"raw header only", tgaHeader(tgaTypeUncompressed, 65535, 65535, 24, 0), true},
		{"rle header only", tgaHeader(tgaTypeRLE, 65535, 65535, 32, 0), true},
		{"rle too few packets", append(tgaHeader(tgaTypeRLE, 200, 1, 24, 0), 0xFF, 1, 2, 3), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeTGA(tc.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.truncated && !errors.Is(err, errTGATruncated) {
				t.Errorf("error = %v, want truncation", err)
			}
		})
	}
}
