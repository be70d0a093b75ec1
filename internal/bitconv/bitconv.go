package bitconv

import "github.com/yyyoichi/bitstream-go"

// FromBytes returns a reader over the bits of b, most significant bit first.
func FromBytes(b []byte) *bitstream.BitReader[uint64] {
	w := bitstream.NewBitWriter[uint64](0, 0)
	WriteBytes(w, b)
	return Freeze(w)
}

// WriteBytes appends every bit of b to w, most significant bit first.
func WriteBytes(w *bitstream.BitWriter[uint64], b []byte) {
	for _, bb := range b {
		w.Write8(0, 8, bb)
	}
}

// Freeze returns a reader limited to the bits written to w so far.
func Freeze(w *bitstream.BitWriter[uint64]) *bitstream.BitReader[uint64] {
	r := bitstream.NewBitReader(w.Data(), 0, 0)
	r.SetBits(w.Bits())
	return r
}

// ToBytes packs the bits of r into bytes, most significant bit first.
// A trailing partial byte is padded with zero bits on the right.
func ToBytes(r *bitstream.BitReader[uint64]) []byte {
	out := make([]byte, (r.Bits()+7)/8)
	for i := range out {
		out[i] = byte(r.Read8R(8, i))
	}
	return out
}
