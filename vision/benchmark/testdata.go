// MODUL: testdata
// ZWECK: Synthetische JPEG-Testbilder fuer Benchmarks
// HINWEISE: Gradient mit Rauschen fuer realistische Kompressionsraten

package benchmark

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
)

// GenerateTestImage generiert ein JPEG-kodiertes Testbild (Seed 42).
func GenerateTestImage(width, height int) []byte {
	return GenerateTestImageWithSeed(width, height, 42)
}

// GenerateTestImageWithSeed generiert ein reproduzierbares Testbild.
func GenerateTestImageWithSeed(width, height int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			nx := float64(x) / float64(width)
			ny := float64(y) / float64(height)
			noise := int(rng.Float64()*20 - 10)

			img.SetRGBA(x, y, color.RGBA{
				R: clampUint8(int(nx*255) + noise),
				G: clampUint8(int(ny*255) + noise),
				B: clampUint8(int((nx+ny)/2*255) + noise),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	return buf.Bytes()
}

func clampUint8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
