// Package sneak hides a payload in the scanline filter bytes of a PNG
// image. Pixel data is left untouched: each row is stored with the
// filter type that spells the next two payload bits.
package sneak

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/yyyoichi/png_sneak/internal/channel"
	"github.com/yyyoichi/png_sneak/internal/codec"
	"github.com/yyyoichi/png_sneak/internal/pngio"
)

var (
	ErrInputRead         = errors.New("cannot read input image")
	ErrUnsupportedMethod = errors.New("unsupported payload compression code")
	ErrDecompression     = errors.New("cannot decompress payload")
	ErrCapacityExceeded  = errors.New("image has too few rows for payload")
	ErrOutputWrite       = errors.New("cannot write output image")
)

type (
	// Method is the payload representation recorded in the first row.
	Method = codec.Method
	// Candidate is the size one representation would take.
	Candidate = codec.Candidate
)

const (
	None     = codec.None
	Deflate  = codec.Deflate
	SevenBit = codec.SevenBit
)

// Embed hides payload in the PNG read from src and writes the result to dst.
// This is a convenience function that creates a Sneak instance and calls its Embed method.
func Embed(dst io.Writer, src io.Reader, payload []byte, opts ...Option) (Report, error) {
	s, err := New(opts...)
	if err != nil {
		return Report{}, err
	}
	return s.Embed(dst, src, payload)
}

// Extract recovers the payload hidden in the PNG read from src.
// This is a convenience function that creates a Sneak instance and calls its Extract method.
func Extract(src io.Reader, opts ...Option) (Result, error) {
	s, err := New(opts...)
	if err != nil {
		return Result{}, err
	}
	return s.Extract(src)
}

// Sneak holds embedding and extraction settings. It carries no
// per-image state and may be shared.
type Sneak struct {
	logger *log.Logger
	strict bool
	method Method
	forced bool
}

// New initializes a Sneak with the given options.
func New(opts ...Option) (*Sneak, error) {
	s := new(Sneak)
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Report describes a finished embedding.
type Report struct {
	Method     Method
	Candidates []Candidate
	// Bits is the length of the transmitted representation.
	Bits         int
	RequiredRows int
	Rows         int
}

// Result is a recovered payload.
type Result struct {
	Payload []byte
	Method  Method
	Rows    int
}

// Embed hides payload in the PNG read from src and writes the re-encoded
// image to dst.
//
// Process:
//  1. Reads the source scanlines.
//  2. Encodes the payload as raw bytes, headerless DEFLATE or 7-bit
//     packing, whichever is smallest.
//  3. Checks that the image has a row for the method code plus one row
//     per two payload bits.
//  4. Rewrites every row with the filter type that carries its symbol.
//
// Nothing is written to dst unless every step succeeds.
func (s *Sneak) Embed(dst io.Writer, src io.Reader, payload []byte) (Report, error) {
	img, err := pngio.Decode(src)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrInputRead, err)
	}
	h := img.Header
	s.logger.Printf("input: %dx%d, bit depth %d, color type %d, %d bits per pixel",
		h.Width, h.Height, h.BitDepth, h.ColorType, h.BitsPerPixel())

	rep, err := s.represent(payload)
	if err != nil {
		return Report{}, err
	}
	for _, c := range rep.Candidates {
		s.logger.Printf("%s: %d bytes", c.Method, c.Size)
	}
	s.logger.Printf("using: %s", rep.Method)

	enc := channel.NewEncoder(rep)
	report := Report{
		Method:       rep.Method,
		Candidates:   rep.Candidates,
		Bits:         rep.Bits.Bits(),
		RequiredRows: enc.RequiredRows(),
		Rows:         h.Height,
	}
	s.logger.Printf("rows needed: %d, rows provided: %d", report.RequiredRows, report.Rows)
	if err := enc.Check(h.Height); err != nil {
		return report, fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	}

	var buf bytes.Buffer
	if err := pngio.Encode(&buf, img, enc.SelectFilter); err != nil {
		return report, fmt.Errorf("%w: %w", ErrInputRead, err)
	}
	if _, err := buf.WriteTo(dst); err != nil {
		return report, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return report, nil
}

func (s *Sneak) represent(payload []byte) (codec.Representation, error) {
	if !s.forced {
		return codec.Select(payload)
	}
	rep, err := codec.Encode(s.method, payload)
	if err != nil {
		return codec.Representation{}, fmt.Errorf("%w: %w", ErrUnsupportedMethod, err)
	}
	return rep, nil
}

// Extract recovers the payload hidden in the PNG read from src.
//
// Row 0's filter type selects the representation; every later row with
// filter type 0-3 contributes two bits and rows with filter type 4 are
// skipped.
func (s *Sneak) Extract(src io.Reader) (Result, error) {
	img, err := pngio.Decode(src)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInputRead, err)
	}
	h := img.Header
	s.logger.Printf("input: %dx%d, %d bits per pixel", h.Width, h.Height, h.BitsPerPixel())

	var opts []channel.DecoderOption
	if s.strict {
		opts = append(opts, channel.Strict())
	}
	dec := channel.NewDecoder(opts...)
	for _, f := range img.Filters() {
		if err := dec.Feed(f); err != nil {
			if errors.Is(err, channel.ErrUnsupportedMethod) {
				return Result{}, fmt.Errorf("%w: %w", ErrUnsupportedMethod, err)
			}
			return Result{}, fmt.Errorf("%w: %w", ErrInputRead, err)
		}
	}
	s.logger.Printf("compression: %s, %d payload bits", dec.Method(), dec.Bits())

	payload, err := dec.Payload()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	s.logger.Printf("payload: %d bytes", len(payload))
	return Result{
		Payload: payload,
		Method:  dec.Method(),
		Rows:    dec.Rows(),
	}, nil
}

func (s *Sneak) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	return nil
}
