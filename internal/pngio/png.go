// Package pngio reads and writes non-interlaced PNG images at the
// scanline level, exposing each row's filter byte.
package pngio

import (
	"fmt"
)

// Color type, as per the PNG spec.
const (
	ctGrayscale      = 0
	ctTrueColor      = 2
	ctPaletted       = 3
	ctGrayscaleAlpha = 4
	ctTrueColorAlpha = 6
)

// Filter type, as per the PNG spec.
const (
	ftNone    = 0
	ftSub     = 1
	ftUp      = 2
	ftAverage = 3
	ftPaeth   = 4
	nFilter   = 5
)

// NumFilters is the number of standard filter types.
const NumFilters = nFilter

const pngHeader = "\x89PNG\r\n\x1a\n"

// maxIDAT is the largest IDAT chunk written.
const maxIDAT = 1 << 20

// A FormatError reports that the input is not a valid PNG.
type FormatError string

func (e FormatError) Error() string { return "png: invalid format: " + string(e) }

var chunkOrderError = FormatError("chunk out of order")

// An UnsupportedError reports that the input uses a valid but unimplemented PNG feature.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "png: unsupported feature: " + string(e) }

// Header holds the IHDR fields.
type Header struct {
	Width, Height int
	BitDepth      uint8
	ColorType     uint8
	Interlace     uint8
}

func (h Header) samples() int {
	switch h.ColorType {
	case ctGrayscale, ctPaletted:
		return 1
	case ctGrayscaleAlpha:
		return 2
	case ctTrueColor:
		return 3
	case ctTrueColorAlpha:
		return 4
	}
	return 0
}

// BitsPerPixel returns the number of bits one pixel occupies in a scanline.
func (h Header) BitsPerPixel() int {
	return h.samples() * int(h.BitDepth)
}

// BytesPerPixel returns the filter unit: bytes per complete pixel,
// rounded up to one.
func (h Header) BytesPerPixel() int {
	return (h.BitsPerPixel() + 7) / 8
}

// RowBytes returns the number of pixel bytes in a scanline, excluding
// the filter byte.
func (h Header) RowBytes() int {
	return (h.Width*h.BitsPerPixel() + 7) / 8
}

func (h Header) validate() error {
	if h.Width <= 0 || h.Height <= 0 {
		return FormatError("non-positive dimension")
	}
	ok := false
	switch h.ColorType {
	case ctGrayscale:
		ok = h.BitDepth == 1 || h.BitDepth == 2 || h.BitDepth == 4 || h.BitDepth == 8 || h.BitDepth == 16
	case ctPaletted:
		ok = h.BitDepth == 1 || h.BitDepth == 2 || h.BitDepth == 4 || h.BitDepth == 8
	case ctTrueColor, ctGrayscaleAlpha, ctTrueColorAlpha:
		ok = h.BitDepth == 8 || h.BitDepth == 16
	}
	if !ok {
		return UnsupportedError(fmt.Sprintf("bit depth %d, color type %d", h.BitDepth, h.ColorType))
	}
	if h.Interlace != 0 {
		return UnsupportedError("interlacing")
	}
	// There can be up to 8 bytes per pixel, for 16 bits per channel RGBA.
	nPixels64 := int64(h.Width) * int64(h.Height)
	if nPixels64 > (1<<31-1)/8 {
		return UnsupportedError("dimension overflow")
	}
	return nil
}

// Chunk is an ancillary or palette chunk carried through unchanged.
type Chunk struct {
	Type string
	Data []byte
}

// Image is a decoded PNG held as raw scanlines.
type Image struct {
	Header Header
	// Before holds the chunks between IHDR and the first IDAT, After the
	// chunks between the last IDAT and IEND.
	Before, After []Chunk

	// Each line is the filter byte followed by RowBytes filtered bytes.
	lines [][]byte
}

// New builds an image from unfiltered pixel rows, every row stored
// with filter type None.
func New(h Header, pixels [][]byte, chunks ...Chunk) (*Image, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	if len(pixels) != h.Height {
		return nil, fmt.Errorf("png: %d rows given for height %d", len(pixels), h.Height)
	}
	img := &Image{Header: h, Before: chunks, lines: make([][]byte, h.Height)}
	n := h.RowBytes()
	for y, row := range pixels {
		if len(row) != n {
			return nil, fmt.Errorf("png: row %d has %d bytes, want %d", y, len(row), n)
		}
		line := make([]byte, 1+n)
		line[0] = ftNone
		copy(line[1:], row)
		img.lines[y] = line
	}
	return img, nil
}

// Filters returns the filter byte of every scanline, in row order.
func (img *Image) Filters() []byte {
	out := make([]byte, len(img.lines))
	for y, line := range img.lines {
		out[y] = line[0]
	}
	return out
}

// Pixels returns the unfiltered pixel bytes of every scanline.
func (img *Image) Pixels() ([][]byte, error) {
	bpp := img.Header.BytesPerPixel()
	out := make([][]byte, len(img.lines))
	prev := make([]byte, img.Header.RowBytes())
	for y, line := range img.lines {
		cur := make([]byte, len(line)-1)
		copy(cur, line[1:])
		if err := unfilter(line[0], cur, prev, bpp); err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
		out[y] = cur
		prev = cur
	}
	return out, nil
}
