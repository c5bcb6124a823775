package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image type constants.
const (
	tgaTypeUncompressed = 2  // Uncompressed true-color
	tgaTypeRLE          = 10 // RLE compressed true-color

	tgaHeaderSize  = 18
	tgaTopToBottom = 0x20 // Descriptor bit: first row stored is the top row
)

var errTGATruncated = errors.New("tga: pixel data truncated")

// DecodeTGA decodes a true-color TGA image, uncompressed (type 2) or RLE
// compressed (type 10), at 24 or 32 bits per pixel. Both row orders are
// handled; the result always has its top row at y=0.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("tga: header too short (%d bytes)", len(data))
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	if imageType != tgaTypeUncompressed && imageType != tgaTypeRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}
	// Reject sizes the payload cannot fill before allocating the image.
	// An RLE packet of 1+bytesPP bytes expands to at most 128 pixels.
	avail, bytesPP := len(data)-offset, bpp/8
	switch {
	case imageType == tgaTypeUncompressed && width*height*bytesPP > avail:
		return nil, errTGATruncated
	case imageType == tgaTypeRLE && width*height > 128*(avail/(1+bytesPP)):
		return nil, errTGATruncated
	}

	d := tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		width:       width,
		height:      height,
		bytesPP:     bytesPP,
		topToBottom: descriptor&tgaTopToBottom != 0,
	}

	var err error
	if imageType == tgaTypeUncompressed {
		err = d.raw()
	} else {
		err = d.rle()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img         *image.RGBA
	src         []byte
	pos         int
	width       int
	height      int
	bytesPP     int
	topToBottom bool
	written     int
}

// next reads one BGR(A) pixel from the source.
func (d *tgaDecoder) next() (color.RGBA, error) {
	if d.pos+d.bytesPP > len(d.src) {
		return color.RGBA{}, errTGATruncated
	}
	p := d.src[d.pos : d.pos+d.bytesPP]
	d.pos += d.bytesPP
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.bytesPP == 4 {
		c.A = p[3]
	}
	return c, nil
}

// put stores c as the next pixel in file order.
func (d *tgaDecoder) put(c color.RGBA) {
	x := d.written % d.width
	y := d.written / d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
	d.written++
}

func (d *tgaDecoder) raw() error {
	total := d.width * d.height
	for d.written < total {
		c, err := d.next()
		if err != nil {
			return err
		}
		d.put(c)
	}
	return nil
}

func (d *tgaDecoder) rle() error {
	total := d.width * d.height
	for d.written < total {
		if d.pos >= len(d.src) {
			return errTGATruncated
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run-length packet: one pixel repeated count times.
			c, err := d.next()
			if err != nil {
				return err
			}
			for i := 0; i < count && d.written < total; i++ {
				d.put(c)
			}
			continue
		}

		// Raw packet: count literal pixels.
		for i := 0; i < count && d.written < total; i++ {
			c, err := d.next()
			if err != nil {
				return err
			}
			d.put(c)
		}
	}
	return nil
}

// EncodeTGA writes img as an uncompressed 24-bit TGA with the top row
// stored first.
func EncodeTGA(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Dx() > 0xFFFF || b.Dy() > 0xFFFF {
		return fmt.Errorf("tga: image %dx%d too large", b.Dx(), b.Dy())
	}

	var header [tgaHeaderSize]byte
	header[2] = tgaTypeUncompressed
	header[12] = byte(b.Dx())
	header[13] = byte(b.Dx() >> 8)
	header[14] = byte(b.Dy())
	header[15] = byte(b.Dy() >> 8)
	header[16] = 24
	header[17] = tgaTopToBottom

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("tga: write header: %w", err)
	}

	row := make([]byte, b.Dx()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			i := (x - b.Min.X) * 3
			row[i], row[i+1], row[i+2] = c.B, c.G, c.R
		}
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("tga: write pixels: %w", err)
		}
	}
	return bw.Flush()
}
