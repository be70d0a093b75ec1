// Package codec chooses and reverses the representation a payload is
// carried in: raw bytes, headerless DEFLATE, or 7-bit packing.
package codec

import (
	"errors"
	"fmt"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/png_sneak/internal/bitconv"
	"github.com/yyyoichi/png_sneak/internal/sevenbit"
)

// Method identifies a payload representation. Its value is the code
// carried by the first scanline.
type Method uint8

const (
	None Method = iota
	Deflate
	SevenBit
)

var (
	ErrUnknownMethod = errors.New("codec: unknown method")
	ErrIneligible    = errors.New("codec: payload is not 7-bit clean")
	ErrDecompression = errors.New("codec: cannot inflate payload")
)

// Valid reports whether m is one of the defined methods.
func (m Method) Valid() bool {
	return m <= SevenBit
}

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case Deflate:
		return "deflate"
	case SevenBit:
		return "7-bit"
	}
	return fmt.Sprintf("method(%d)", uint8(m))
}

// Candidate is the transmitted size, in bytes, of one representation.
type Candidate struct {
	Method Method
	Size   int
}

// Representation is a payload encoded with Method, ready to be moved
// through the channel two bits at a time.
type Representation struct {
	Method Method
	Bits   *bitstream.BitReader[uint64]
	// Candidates lists every representation that was considered, in
	// method order.
	Candidates []Candidate
}

// Select encodes raw with every eligible method and returns the
// smallest. Ties go to the lowest method code.
func Select(raw []byte) (Representation, error) {
	compressed, err := deflate(raw)
	if err != nil {
		return Representation{}, err
	}
	cands := []Candidate{
		{Method: None, Size: len(raw)},
		{Method: Deflate, Size: len(compressed)},
	}
	if sevenbit.Eligible(raw) {
		cands = append(cands, Candidate{Method: SevenBit, Size: sevenbit.Size(len(raw))})
	}

	rep := Representation{Method: pick(cands).Method, Candidates: cands}
	switch rep.Method {
	case Deflate:
		rep.Bits = bitconv.FromBytes(compressed)
	case SevenBit:
		rep.Bits = sevenbit.Pack(raw)
	default:
		rep.Bits = bitconv.FromBytes(raw)
	}
	return rep, nil
}

// Encode encodes raw with the given method regardless of size.
func Encode(m Method, raw []byte) (Representation, error) {
	rep := Representation{Method: m}
	switch m {
	case None:
		rep.Bits = bitconv.FromBytes(raw)
		rep.Candidates = []Candidate{{Method: None, Size: len(raw)}}
	case Deflate:
		compressed, err := deflate(raw)
		if err != nil {
			return Representation{}, err
		}
		rep.Bits = bitconv.FromBytes(compressed)
		rep.Candidates = []Candidate{{Method: Deflate, Size: len(compressed)}}
	case SevenBit:
		if !sevenbit.Eligible(raw) {
			return Representation{}, ErrIneligible
		}
		rep.Bits = sevenbit.Pack(raw)
		rep.Candidates = []Candidate{{Method: SevenBit, Size: sevenbit.Size(len(raw))}}
	default:
		return Representation{}, fmt.Errorf("%w: %d", ErrUnknownMethod, uint8(m))
	}
	return rep, nil
}

// Decode reverses the representation m over the bits recovered from
// the channel.
func Decode(m Method, bits *bitstream.BitReader[uint64]) ([]byte, error) {
	switch m {
	case None:
		return bitconv.ToBytes(bits), nil
	case Deflate:
		return inflate(bitconv.ToBytes(bits))
	case SevenBit:
		return sevenbit.Unpack(bits)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, uint8(m))
}

func pick(cands []Candidate) Candidate {
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Size < best.Size || (c.Size == best.Size && c.Method < best.Method) {
			best = c
		}
	}
	return best
}
