package bench_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	sneak "github.com/yyyoichi/png_sneak"
)

// BenchmarkEmbed_FHD runs a table-driven set of embed benchmarks for FHD images
func BenchmarkEmbed_FHD(b *testing.B) {
	test := []struct {
		name    string
		payload []byte
	}{
		{name: "empty", payload: nil},
		{name: "ascii_64", payload: []byte(strings.Repeat("Lorem ip", 8))},
		{name: "text_1k", payload: []byte(strings.Repeat("the quick brown fox ", 50))},
		{name: "binary_256", payload: createBinaryPayload(256)},
	}

	src := createImage(b, 1920, 1080)

	for _, tt := range test {
		b.Run(tt.name, func(b *testing.B) {
			s, err := sneak.New()
			if err != nil {
				b.Fatalf("Failed to create Sneak instance (%s): %v", tt.name, err)
			}
			var out bytes.Buffer
			for b.Loop() {
				out.Reset()
				if _, err := s.Embed(&out, bytes.NewReader(src), tt.payload); err != nil {
					b.Fatalf("Failed to embed payload (%s): %v", tt.name, err)
				}
			}
		})
	}
}

func BenchmarkExtract_FHD(b *testing.B) {
	src := createImage(b, 1920, 1080)
	var marked bytes.Buffer
	if _, err := sneak.Embed(&marked, bytes.NewReader(src), createBinaryPayload(256)); err != nil {
		b.Fatalf("Failed to embed payload: %v", err)
	}
	for b.Loop() {
		if _, err := sneak.Extract(bytes.NewReader(marked.Bytes())); err != nil {
			b.Fatalf("Failed to extract payload: %v", err)
		}
	}
}

// createImage encodes a widthxheight test image with gradient pattern
func createImage(b *testing.B, width, height int) []byte {
	b.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			// Create gradient effect to simulate realistic image data
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			bl := uint8(((x + y) * 255) / (width + height))
			img.Set(x, y, color.RGBA{r, g, bl, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		b.Fatalf("Failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func createBinaryPayload(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i*151 + 7)
	}
	return p
}
