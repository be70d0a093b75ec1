package channel

import (
	"fmt"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/png_sneak/internal/bitconv"
	"github.com/yyyoichi/png_sneak/internal/codec"
)

// Encoder hands out one symbol per row, in row order.
// It is not safe for concurrent use and cannot be rewound.
type Encoder struct {
	method codec.Method
	bits   *bitstream.BitReader[uint64]
	pos    int
	row    int
}

// NewEncoder returns an encoder positioned before row 0.
func NewEncoder(rep codec.Representation) *Encoder {
	bits := rep.Bits
	if bits == nil {
		bits = bitconv.FromBytes(nil)
	}
	return &Encoder{
		method: rep.Method,
		bits:   bits,
	}
}

// RequiredRows returns the number of rows the representation needs.
func (e *Encoder) RequiredRows() int {
	return RequiredRows(e.bits.Bits())
}

// Check fails with ErrCapacityExceeded when an image of height rows
// cannot carry the whole representation.
func (e *Encoder) Check(height int) error {
	if need := e.RequiredRows(); need > height {
		return fmt.Errorf("%w: need %d rows, image has %d", ErrCapacityExceeded, need, height)
	}
	return nil
}

// Next returns the symbol for the next row.
func (e *Encoder) Next() Symbol {
	row := e.row
	e.row++
	if row == 0 {
		return methodSymbol(e.method)
	}
	if e.bits.Bits()-e.pos < 2 {
		return Sentinel
	}
	s := Symbol(e.bits.Read8R(2, e.pos/2))
	e.pos += 2
	return s
}

// Rows returns the number of rows served so far.
func (e *Encoder) Rows() int {
	return e.row
}

// Exhausted reports whether every payload bit has been handed out.
func (e *Encoder) Exhausted() bool {
	return e.bits.Bits()-e.pos < 2
}

// SelectFilter picks the variant of row whose filter type matches the
// next symbol. Rows must be requested exactly once, in order.
func (e *Encoder) SelectFilter(row int, variants [NumSymbols][]byte) []byte {
	if row != e.row {
		panic(fmt.Sprintf("channel: row %d requested out of order, expected %d", row, e.row))
	}
	return variants[e.Next()]
}
