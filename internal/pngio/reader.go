package pngio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Decoding stage.
// The PNG specification says that the IHDR, PLTE (if present), tRNS (if
// present), IDAT and IEND chunks must appear in that order. There may be
// multiple IDAT chunks, and IDAT chunks must be sequential (i.e. they may not
// have any other chunks between them).
// https://www.w3.org/TR/PNG/#5ChunkOrdering
const (
	dsStart = iota
	dsSeenIHDR
	dsSeenIDAT
	dsAfterIDAT
	dsSeenIEND
)

type decoder struct {
	r     io.Reader
	img   *Image
	idat  bytes.Buffer
	stage int
	tmp   [8]byte
}

// Decode reads a PNG stream, keeping its scanlines filtered as stored.
func Decode(r io.Reader) (*Image, error) {
	d := &decoder{r: r, img: new(Image)}
	if err := d.checkHeader(); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	for d.stage != dsSeenIEND {
		if err := d.parseChunk(); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
	if err := d.splitLines(); err != nil {
		return nil, err
	}
	return d.img, nil
}

func (d *decoder) checkHeader() error {
	if _, err := io.ReadFull(d.r, d.tmp[:len(pngHeader)]); err != nil {
		return err
	}
	if string(d.tmp[:len(pngHeader)]) != pngHeader {
		return FormatError("not a PNG file")
	}
	return nil
}

func (d *decoder) parseChunk() error {
	if _, err := io.ReadFull(d.r, d.tmp[:8]); err != nil {
		return err
	}
	length := binary.BigEndian.Uint32(d.tmp[:4])
	if length > 0x7fffffff {
		return FormatError(fmt.Sprintf("bad chunk length: %d", length))
	}
	typ := string(d.tmp[4:8])
	data := make([]byte, length)
	if _, err := io.ReadFull(d.r, data); err != nil {
		return err
	}
	if err := d.verifyChecksum(d.tmp[4:8], data); err != nil {
		return err
	}

	switch typ {
	case "IHDR":
		if d.stage != dsStart {
			return chunkOrderError
		}
		d.stage = dsSeenIHDR
		return d.parseIHDR(data)
	case "IDAT":
		if d.stage < dsSeenIHDR || d.stage > dsSeenIDAT {
			return chunkOrderError
		}
		d.stage = dsSeenIDAT
		d.idat.Write(data)
	case "IEND":
		if d.stage < dsSeenIDAT {
			return chunkOrderError
		}
		if length != 0 {
			return FormatError("bad IEND length")
		}
		d.stage = dsSeenIEND
	default:
		switch d.stage {
		case dsStart:
			return chunkOrderError
		case dsSeenIHDR:
			d.img.Before = append(d.img.Before, Chunk{Type: typ, Data: data})
		default:
			d.stage = dsAfterIDAT
			d.img.After = append(d.img.After, Chunk{Type: typ, Data: data})
		}
	}
	return nil
}

func (d *decoder) verifyChecksum(typ, data []byte) error {
	crc := crc32.NewIEEE()
	crc.Write(typ)
	crc.Write(data)
	if _, err := io.ReadFull(d.r, d.tmp[:4]); err != nil {
		return err
	}
	if binary.BigEndian.Uint32(d.tmp[:4]) != crc.Sum32() {
		return FormatError("invalid checksum")
	}
	return nil
}

func (d *decoder) parseIHDR(data []byte) error {
	if len(data) != 13 {
		return FormatError("bad IHDR length")
	}
	if data[10] != 0 {
		return UnsupportedError("compression method")
	}
	if data[11] != 0 {
		return UnsupportedError("filter method")
	}
	w := int32(binary.BigEndian.Uint32(data[0:4]))
	h := int32(binary.BigEndian.Uint32(data[4:8]))
	d.img.Header = Header{
		Width:     int(w),
		Height:    int(h),
		BitDepth:  data[8],
		ColorType: data[9],
		Interlace: data[12],
	}
	return d.img.Header.validate()
}

// splitLines inflates the concatenated IDAT data and cuts it into
// scanlines.
func (d *decoder) splitLines() error {
	zr, err := zlib.NewReader(&d.idat)
	if err != nil {
		return err
	}
	defer zr.Close()

	h := d.img.Header
	lineSize := 1 + h.RowBytes()
	d.img.lines = make([][]byte, h.Height)
	for y := range d.img.lines {
		line := make([]byte, lineSize)
		if _, err := io.ReadFull(zr, line); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return FormatError("not enough pixel data")
			}
			return err
		}
		if line[0] >= nFilter {
			return FormatError("bad filter type")
		}
		d.img.lines[y] = line
	}

	// Check for EOF, to verify the zlib checksum.
	n, err := zr.Read(d.tmp[:1])
	for n == 0 && err == nil {
		n, err = zr.Read(d.tmp[:1])
	}
	if n != 0 {
		return FormatError("too much pixel data")
	}
	if err != io.EOF {
		return err
	}
	return nil
}
