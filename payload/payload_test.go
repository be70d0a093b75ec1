package payload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "payload.bin")
	require.NoError(t, os.WriteFile(file, []byte{0x00, 0xff, 0x10}, 0o600))

	test := []struct {
		name string
		arg  string
		exp  []byte
	}{
		{"file", file, []byte{0x00, 0xff, 0x10}},
		{"literal", "hello there", []byte("hello there")},
		{"missing file", filepath.Join(dir, "missing.txt"), []byte(filepath.Join(dir, "missing.txt"))},
		{"directory", dir, []byte(dir)},
		{"unicode literal", "こんにちは", []byte("こんにちは")},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Load(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.exp, b)
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.True(t, IsText([]byte("plain")))
	assert.True(t, IsText(nil))
	assert.False(t, IsText([]byte{0xff, 0xfe}))

	assert.Equal(t, "plain", Describe([]byte("plain")))
	assert.Equal(t, `"\xff\xfe"`, Describe([]byte{0xff, 0xfe}))
}
