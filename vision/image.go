// MODUL: image
// ZWECK: Bilder dekodieren und fuer den Encoder skalieren/zuschneiden
// INPUT: Bytes oder io.Reader (Upload, Download, Datei)
// OUTPUT: ImageInput mit opakem RGB-Bild
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: golang.org/x/image/draw, golang.org/x/image/webp
// HINWEISE: Alpha wird verworfen (nicht ueberblendet), wie bei einer RGB-Konvertierung.
//           Die Pixelzahl wird vor dem Dekodieren aus dem Header geprueft.

package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageInput enthaelt ein dekodiertes Bild mit Metadaten
type ImageInput struct {
	Image  *image.RGBA
	Width  int
	Height int
	Format ImageFormat
}

// DefaultMaxPixels ist die Pixel-Obergrenze vor dem Dekodieren (wie PILs Bomben-Schutz)
const DefaultMaxPixels int64 = 178956970

// ErrImageTooLarge wird fuer Bilder mit mehr als maxPixels Pixeln zurueckgegeben
var ErrImageTooLarge = errors.New("vision: image dimensions exceed limit")

// CheckDimensions liest nur den Bild-Header und prueft width*height gegen maxPixels.
// maxPixels <= 0 schaltet die Pruefung ab.
func CheckDimensions(data []byte, maxPixels int64) error {
	if maxPixels <= 0 {
		return nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("vision: decode config: %w", err)
	}

	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxPixels {
		return fmt.Errorf("%w: %s %dx%d (%d > %d pixels)", ErrImageTooLarge, format, cfg.Width, cfg.Height, pixels, maxPixels)
	}
	return nil
}

// LoadImageFromBytes dekodiert ein Bild aus Byte-Daten mit DefaultMaxPixels
func LoadImageFromBytes(data []byte) (*ImageInput, error) {
	return LoadImageFromBytesLimit(data, DefaultMaxPixels)
}

// LoadImageFromBytesLimit dekodiert ein Bild, sofern es hoechstens maxPixels Pixel hat
func LoadImageFromBytesLimit(data []byte, maxPixels int64) (*ImageInput, error) {
	format := DetectFormat(data)
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	if err := CheckDimensions(data, maxPixels); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("vision: decode %s: %w", format, err)
	}

	rgb := toRGB(img)
	return &ImageInput{
		Image:  rgb,
		Width:  rgb.Bounds().Dx(),
		Height: rgb.Bounds().Dy(),
		Format: format,
	}, nil
}

// DecodeImage dekodiert ein Bild aus einem io.Reader
func DecodeImage(r io.Reader) (*ImageInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("vision: read image: %w", err)
	}
	return LoadImageFromBytes(data)
}

// toRGB kopiert das Bild nach RGBA mit Bounds ab (0,0) und voller Deckkraft.
// Bei NRGBA und Paletted bleiben die Farbwerte erhalten, der Alpha-Kanal wird
// verworfen. Andere Typen mit Alpha laufen ueber draw und sind vormultipliziert.
func toRGB(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < bounds.Dy(); y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):][:4*bounds.Dx()]
			copy(dst.Pix[y*dst.Stride:], row)
		}
	case *image.Paletted:
		palette := make([]color.NRGBA, len(src.Palette))
		for i, c := range src.Palette {
			palette[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
		}
		for y := 0; y < bounds.Dy(); y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):][:bounds.Dx()]
			out := dst.Pix[y*dst.Stride:]
			for x, idx := range row {
				var c color.NRGBA
				if int(idx) < len(palette) {
					c = palette[idx]
				}
				out[4*x], out[4*x+1], out[4*x+2] = c.R, c.G, c.B
			}
		}
	default:
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	}

	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// ResizeImage skaliert ein Bild bikubisch auf die angegebene Groesse
func ResizeImage(img *ImageInput, width, height int) (*ImageInput, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("vision: invalid size %dx%d", width, height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img.Image, img.Image.Bounds(), draw.Src, nil)

	return &ImageInput{
		Image:  dst,
		Width:  width,
		Height: height,
		Format: img.Format,
	}, nil
}

// ResizeShortestEdge skaliert so, dass die kuerzere Kante size Pixel hat
func ResizeShortestEdge(img *ImageInput, size int) (*ImageInput, error) {
	if size <= 0 {
		return nil, fmt.Errorf("vision: invalid size %d", size)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("vision: empty image %dx%d", img.Width, img.Height)
	}

	w, h := size, size
	if img.Width > img.Height {
		w = int(float64(size) * float64(img.Width) / float64(img.Height))
	} else if img.Height > img.Width {
		h = int(float64(size) * float64(img.Height) / float64(img.Width))
	}

	return ResizeImage(img, w, h)
}

// cropOffset rundet (total-crop)/2 auf die naechste gerade Zahl, wie round() in Python
func cropOffset(total, crop int) int {
	return int(math.RoundToEven(float64(total-crop) / 2))
}

// CenterCrop schneidet einen zentrierten Bereich aus
func CenterCrop(img *ImageInput, width, height int) (*ImageInput, error) {
	if width > img.Width || height > img.Height {
		return nil, fmt.Errorf("vision: crop %dx%d larger than image %dx%d", width, height, img.Width, img.Height)
	}

	offsetX := cropOffset(img.Width, width)
	offsetY := cropOffset(img.Height, height)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	src := image.Pt(img.Image.Bounds().Min.X+offsetX, img.Image.Bounds().Min.Y+offsetY)
	draw.Draw(dst, dst.Bounds(), img.Image, src, draw.Src)

	return &ImageInput{
		Image:  dst,
		Width:  width,
		Height: height,
		Format: img.Format,
	}, nil
}
