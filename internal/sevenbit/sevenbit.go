// Package sevenbit packs 7-bit clean data by dropping the always-zero
// high bit of every byte.
package sevenbit

import (
	"errors"
	"fmt"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/png_sneak/internal/bitconv"
)

var (
	ErrMisaligned = errors.New("sevenbit: bit count does not split into 7-bit groups")
)

// Eligible reports whether every byte of b has its high bit clear.
func Eligible(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}

// Bits returns the packed bit length for n input bytes, including the
// trailing pad bit that keeps the length even.
func Bits(n int) int {
	bits := 7 * n
	if bits%2 != 0 {
		bits++
	}
	return bits
}

// Size returns the packed size of n input bytes, in whole bytes.
func Size(n int) int {
	return (Bits(n) + 7) / 8
}

// Pack keeps the low 7 bits of every byte of b, concatenated
// most significant bit first. A single zero bit is appended when the
// result would otherwise have odd length.
//
// Bytes with the high bit set lose that bit; check Eligible first.
func Pack(b []byte) *bitstream.BitReader[uint64] {
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, c := range b {
		w.Write8(1, 7, c)
	}
	if w.Bits()%2 != 0 {
		w.WriteBool(false)
	}
	return bitconv.Freeze(w)
}

// Unpack reverses Pack. A bit count that is not a multiple of 7 loses
// its final bit, which is the pad bit added by Pack.
func Unpack(r *bitstream.BitReader[uint64]) ([]byte, error) {
	n := r.Bits()
	if n%7 != 0 {
		n--
	}
	if n%7 != 0 {
		return nil, fmt.Errorf("%w: %d bits", ErrMisaligned, r.Bits())
	}
	out := make([]byte, n/7)
	for i := range out {
		out[i] = byte(r.Read8R(7, i))
	}
	return out, nil
}
