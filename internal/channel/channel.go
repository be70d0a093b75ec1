// Package channel moves a payload representation through PNG scanline
// filter bytes, two bits per row.
//
// Row 0 carries the representation's method code. Every following row
// carries the next two payload bits as a filter value 0-3, or the
// sentinel 4 once the payload is exhausted.
package channel

import (
	"errors"

	"github.com/yyyoichi/png_sneak/internal/codec"
)

// Symbol is the filter value chosen for one row.
type Symbol uint8

// Sentinel marks a row that carries no payload bits.
const Sentinel Symbol = 4

// NumSymbols is the number of distinct filter values.
const NumSymbols = 5

var (
	ErrCapacityExceeded    = errors.New("channel: not enough rows for payload")
	ErrUnsupportedMethod   = errors.New("channel: unsupported compression code")
	ErrInvalidFilter       = errors.New("channel: filter value out of range")
	ErrInterleavedSentinel = errors.New("channel: payload row after sentinel row")
	ErrNoRows              = errors.New("channel: no rows decoded")
)

// RequiredRows returns the number of rows needed to carry bits payload
// bits plus the header row.
func RequiredRows(bits int) int {
	return (bits + 2 + 1) / 2
}

// Capacity returns the number of payload bits an image with the given
// number of rows can carry.
func Capacity(rows int) int {
	if rows < 1 {
		return 0
	}
	return 2 * (rows - 1)
}

func methodSymbol(m codec.Method) Symbol {
	return Symbol(m)
}
