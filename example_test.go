package sneak_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	sneak "github.com/yyyoichi/png_sneak"
)

func Example_sneak() {
	// Create a simple gradient image (16x64 pixels)
	img := image.NewRGBA(image.Rect(0, 0, 16, 64))
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 4), 128, 255})
		}
	}
	var src bytes.Buffer
	if err := png.Encode(&src, img); err != nil {
		fmt.Printf("Error encoding image: %v\n", err)
		return
	}

	s, err := sneak.New()
	if err != nil {
		fmt.Printf("Error creating sneak: %v\n", err)
		return
	}

	// Hide the payload in the filter bytes
	var marked bytes.Buffer
	report, err := s.Embed(&marked, &src, []byte("Test-Mark"))
	if err != nil {
		fmt.Printf("Error embedding payload: %v\n", err)
		return
	}
	fmt.Printf("method: %s, rows: %d of %d\n", report.Method, report.RequiredRows, report.Rows)

	// Recover it
	res, err := s.Extract(&marked)
	if err != nil {
		fmt.Printf("Error extracting payload: %v\n", err)
		return
	}
	fmt.Println(string(res.Payload))

	// Output:
	// method: 7-bit, rows: 33 of 64
	// Test-Mark
}
