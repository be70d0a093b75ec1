package pngio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

// FilterSelector chooses the scanline written for row. variants[f] is
// the row filtered with filter type f, filter byte included. The
// variants are reused for the next row, so the selector must not
// retain them.
type FilterSelector func(row int, variants [NumFilters][]byte) []byte

// Fixed returns a selector that always writes filter type ft.
func Fixed(ft byte) FilterSelector {
	return func(_ int, variants [NumFilters][]byte) []byte {
		return variants[ft]
	}
}

type encoder struct {
	w   *bufio.Writer
	tmp [13]byte
	err error
}

// Encode writes img to w, asking sel which filtered variant to store
// for each row, in row order. The pixel data is unchanged whatever sel
// picks.
func Encode(w io.Writer, img *Image, sel FilterSelector) error {
	h := img.Header
	if err := h.validate(); err != nil {
		return err
	}
	pixels, err := img.Pixels()
	if err != nil {
		return err
	}

	var idat bytes.Buffer
	zw, err := zlib.NewWriterLevel(&idat, zlib.BestCompression)
	if err != nil {
		return err
	}
	var variants [NumFilters][]byte
	for f := range variants {
		variants[f] = make([]byte, 1+h.RowBytes())
	}
	bpp := h.BytesPerPixel()
	prev := make([]byte, h.RowBytes())
	for y, cur := range pixels {
		for f := range variants {
			filterRow(variants[f], byte(f), cur, prev, bpp)
		}
		if _, err := zw.Write(sel(y, variants)); err != nil {
			return err
		}
		prev = cur
	}
	if err := zw.Close(); err != nil {
		return err
	}

	e := &encoder{w: bufio.NewWriter(w)}
	_, e.err = io.WriteString(e.w, pngHeader)
	e.writeIHDR(h)
	for _, c := range img.Before {
		e.writeChunk(c.Data, c.Type)
	}
	data := idat.Bytes()
	for len(data) > 0 {
		n := min(len(data), maxIDAT)
		e.writeChunk(data[:n], "IDAT")
		data = data[n:]
	}
	for _, c := range img.After {
		e.writeChunk(c.Data, c.Type)
	}
	e.writeChunk(nil, "IEND")
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

func (e *encoder) writeIHDR(h Header) {
	binary.BigEndian.PutUint32(e.tmp[0:4], uint32(h.Width))
	binary.BigEndian.PutUint32(e.tmp[4:8], uint32(h.Height))
	e.tmp[8] = h.BitDepth
	e.tmp[9] = h.ColorType
	e.tmp[10] = 0 // default compression method
	e.tmp[11] = 0 // default filter method
	e.tmp[12] = 0 // non-interlaced
	e.writeChunk(e.tmp[:13], "IHDR")
}

func (e *encoder) writeChunk(b []byte, name string) {
	if e.err != nil {
		return
	}
	var header [8]byte
	binary.BigEndian.PutUint32(header[:4], uint32(len(b)))
	copy(header[4:], name)
	crc := crc32.NewIEEE()
	crc.Write(header[4:8])
	crc.Write(b)
	var footer [4]byte
	binary.BigEndian.PutUint32(footer[:], crc.Sum32())

	if _, e.err = e.w.Write(header[:]); e.err != nil {
		return
	}
	if _, e.err = e.w.Write(b); e.err != nil {
		return
	}
	_, e.err = e.w.Write(footer[:])
}
