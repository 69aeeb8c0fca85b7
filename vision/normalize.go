// MODUL: normalize
// ZWECK: Bild -> float32-Tensor fuer CLIP-artige Vision-Encoder
// INPUT: ImageInput, Normalisierungs-Parameter (mean, std)
// OUTPUT: float32-Tensor im CHW Layout
// NEBENEFFEKTE: keine
// HINWEISE: PreprocessCLIP entspricht der Referenz-Pipeline von CLIP ViT-B/32

package vision

import "fmt"

// Normalisierungswerte von CLIP
var (
	ClipMean = [3]float32{0.48145466, 0.4578275, 0.40821073}
	ClipStd  = [3]float32{0.26862954, 0.26130258, 0.27577711}
)

// ClipImageSize ist die Eingabegroesse von CLIP ViT-B/32
const ClipImageSize = 224

// NormalizeRGB normalisiert ein Bild mit gegebenen mean/std Werten
// Gibt einen float32-Slice im CHW Format zurueck (Channel-First)
func NormalizeRGB(img *ImageInput, mean, std [3]float32) []float32 {
	bounds := img.Image.Bounds()
	plane := bounds.Dx() * bounds.Dy()
	result := make([]float32, plane*3)

	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.Image.RGBAAt(x, y)
			result[idx] = (float32(c.R)/255 - mean[0]) / std[0]
			result[plane+idx] = (float32(c.G)/255 - mean[1]) / std[1]
			result[2*plane+idx] = (float32(c.B)/255 - mean[2]) / std[2]
			idx++
		}
	}

	return result
}

// PreprocessCLIP fuehrt die vollstaendige Vorverarbeitung durch:
// 1. kuerzere Kante bikubisch auf size skalieren
// 2. zentriert auf size x size zuschneiden
// 3. mit CLIP mean/std normalisieren (CHW)
func PreprocessCLIP(img *ImageInput, size int) ([]float32, error) {
	resized, err := ResizeShortestEdge(img, size)
	if err != nil {
		return nil, err
	}

	cropped, err := CenterCrop(resized, size, size)
	if err != nil {
		return nil, fmt.Errorf("vision: preprocess: %w", err)
	}

	return NormalizeRGB(cropped, ClipMean, ClipStd), nil
}

// TensorShape gibt die NCHW-Form fuer einen einzelnen Tensor zurueck
func TensorShape(size int) []int64 {
	return []int64{1, 3, int64(size), int64(size)}
}
