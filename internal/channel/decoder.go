package channel

import (
	"fmt"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/png_sneak/internal/bitconv"
	"github.com/yyyoichi/png_sneak/internal/codec"
)

type (
	// Decoder collects payload bits from filter bytes fed in row order.
	Decoder struct {
		method    codec.Method
		acc       *bitstream.BitWriter[uint64]
		row       int
		sentinels int
		strict    bool
	}

	// DecoderOption configures a Decoder.
	DecoderOption func(*Decoder)
)

// Strict rejects payload rows that follow a sentinel row. By default
// sentinel rows are skipped wherever they appear.
func Strict() DecoderOption {
	return func(d *Decoder) {
		d.strict = true
	}
}

// NewDecoder returns a decoder positioned before row 0.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		acc: bitstream.NewBitWriter[uint64](0, 0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Feed consumes the filter byte of the next row.
func (d *Decoder) Feed(filter byte) error {
	row := d.row
	if row == 0 {
		m := codec.Method(filter)
		if !m.Valid() {
			return fmt.Errorf("%w: row 0 filter %d", ErrUnsupportedMethod, filter)
		}
		d.method = m
		d.row++
		return nil
	}
	switch s := Symbol(filter); {
	case s == Sentinel:
		d.sentinels++
	case s < Sentinel:
		if d.strict && d.sentinels > 0 {
			return fmt.Errorf("%w: row %d", ErrInterleavedSentinel, row)
		}
		d.acc.Write8(6, 2, filter)
	default:
		return fmt.Errorf("%w: row %d filter %d", ErrInvalidFilter, row, filter)
	}
	d.row++
	return nil
}

// Method returns the method decoded from row 0.
func (d *Decoder) Method() codec.Method {
	return d.method
}

// Rows returns the number of rows consumed.
func (d *Decoder) Rows() int {
	return d.row
}

// Bits returns the number of payload bits collected.
func (d *Decoder) Bits() int {
	return d.acc.Bits()
}

// Payload reverses the representation over the collected bits.
func (d *Decoder) Payload() ([]byte, error) {
	if d.row == 0 {
		return nil, ErrNoRows
	}
	return codec.Decode(d.method, bitconv.Freeze(d.acc))
}

// Decode feeds filters to a fresh Decoder and returns the payload and
// the method it was carried in.
func Decode(filters []byte, opts ...DecoderOption) ([]byte, codec.Method, error) {
	d := NewDecoder(opts...)
	for _, f := range filters {
		if err := d.Feed(f); err != nil {
			return nil, d.Method(), err
		}
	}
	out, err := d.Payload()
	if err != nil {
		return nil, d.Method(), err
	}
	return out, d.Method(), nil
}
