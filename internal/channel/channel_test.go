package channel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/png_sneak/internal/codec"
)

// encodeRows runs an encoder for the given number of rows and returns
// the filter value chosen for each.
func encodeRows(t *testing.T, rep codec.Representation, rows int) []byte {
	t.Helper()
	e := NewEncoder(rep)
	require.NoError(t, e.Check(rows))
	var filters []byte
	for row := range rows {
		var variants [NumSymbols][]byte
		for f := range variants {
			variants[f] = []byte{byte(f)}
		}
		filters = append(filters, e.SelectFilter(row, variants)[0])
	}
	assert.Equal(t, rows, e.Rows())
	assert.True(t, e.Exhausted())
	return filters
}

func TestRequiredRows(t *testing.T) {
	test := []struct {
		bits, exp int
	}{
		{0, 1},
		{2, 2},
		{16, 9},
		{17, 10},
		{92, 47},
	}
	for _, tt := range test {
		assert.Equal(t, tt.exp, RequiredRows(tt.bits), "bits=%d", tt.bits)
		assert.GreaterOrEqual(t, Capacity(tt.exp), tt.bits)
	}
	assert.Equal(t, 0, Capacity(0))
	assert.Equal(t, 0, Capacity(1))
	assert.Equal(t, 18, Capacity(10))
}

func TestEncoderHi(t *testing.T) {
	rep, err := codec.Select([]byte("Hi"))
	require.NoError(t, err)
	require.Equal(t, codec.None, rep.Method)

	t.Run("eight rows", func(t *testing.T) {
		e := NewEncoder(rep)
		assert.Equal(t, 9, e.RequiredRows())
		assert.ErrorIs(t, e.Check(8), ErrCapacityExceeded)
	})
	t.Run("nine rows", func(t *testing.T) {
		filters := encodeRows(t, rep, 9)
		assert.Equal(t, []byte{0, 1, 0, 2, 0, 1, 2, 2, 1}, filters)
	})
	t.Run("ten rows", func(t *testing.T) {
		filters := encodeRows(t, rep, 10)
		assert.Equal(t, []byte{0, 1, 0, 2, 0, 1, 2, 2, 1, 4}, filters)
	})
}

func TestEncoderHeaderCarriesMethod(t *testing.T) {
	test := []struct {
		name string
		raw  string
		exp  codec.Method
	}{
		{"none", "", codec.None},
		{"deflate", strings.Repeat("abc", 100), codec.Deflate},
		{"seven-bit", "Hello, World", codec.SevenBit},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := codec.Select([]byte(tt.raw))
			require.NoError(t, err)
			require.Equal(t, tt.exp, rep.Method)
			e := NewEncoder(rep)
			assert.Equal(t, Symbol(tt.exp), e.Next())
		})
	}
}

func TestEncoderOutOfOrderPanics(t *testing.T) {
	rep, err := codec.Select([]byte("x"))
	require.NoError(t, err)
	e := NewEncoder(rep)
	var variants [NumSymbols][]byte
	_ = e.SelectFilter(0, variants)
	assert.Panics(t, func() { e.SelectFilter(2, variants) })
	assert.Panics(t, func() { e.SelectFilter(0, variants) })
}

func TestRoundTrip(t *testing.T) {
	test := []struct {
		name string
		raw  []byte
	}{
		{"empty", []byte{}},
		{"single ascii", []byte("A")},
		{"ascii", []byte("Hello, World!")},
		{"binary", []byte{0x00, 0xff, 0x80, 0x7f, 0xc3, 0xa9}},
		{"compressible", []byte(strings.Repeat("sneaky ", 80))},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := codec.Select(tt.raw)
			require.NoError(t, err)
			rows := NewEncoder(rep).RequiredRows()
			for _, extra := range []int{0, 3} {
				filters := encodeRows(t, rep, rows+extra)
				out, method, err := Decode(filters)
				require.NoError(t, err)
				assert.Equal(t, rep.Method, method)
				assert.Equal(t, tt.raw, out)
			}
		})
	}
}

func TestDecoderSentinelTransparency(t *testing.T) {
	// "Hi" with sentinel rows scattered between payload rows.
	filters := []byte{0, 4, 1, 0, 4, 4, 2, 0, 1, 2, 4, 2, 1, 4}
	out, method, err := Decode(filters)
	require.NoError(t, err)
	assert.Equal(t, codec.None, method)
	assert.Equal(t, []byte("Hi"), out)

	_, _, err = Decode(filters, Strict())
	assert.ErrorIs(t, err, ErrInterleavedSentinel)

	out, _, err = Decode([]byte{0, 1, 0, 2, 0, 1, 2, 2, 1, 4, 4}, Strict())
	require.NoError(t, err)
	assert.Equal(t, []byte("Hi"), out)
}

func TestDecoderErrors(t *testing.T) {
	test := []struct {
		name    string
		filters []byte
		wantErr error
	}{
		{"code 3", []byte{3, 0, 0}, ErrUnsupportedMethod},
		{"code 4", []byte{4}, ErrUnsupportedMethod},
		{"filter 5", []byte{0, 1, 5}, ErrInvalidFilter},
		{"no rows", nil, ErrNoRows},
		{"bad deflate", []byte{1, 3, 3, 3, 3}, codec.ErrDecompression},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.filters)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecoderPartialBytePadding(t *testing.T) {
	// 10 bits: 01001000 01 -> "H" plus a zero-padded 0x40.
	d := NewDecoder()
	for _, f := range []byte{0, 1, 0, 2, 0, 1} {
		require.NoError(t, d.Feed(f))
	}
	assert.Equal(t, 10, d.Bits())
	assert.Equal(t, 6, d.Rows())
	out, err := d.Payload()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x48, 0x40}, out)
}
