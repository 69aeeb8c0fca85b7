// MODUL: formats
// ZWECK: Erkennung der Bildformate, die Katalog und Uploads liefern duerfen
// INPUT: Bild-Bytes
// OUTPUT: ImageFormat, Fehler bei nicht unterstuetztem Format
// NEBENEFFEKTE: keine
// HINWEISE: Magic-Bytes-basiert; JPEG/PNG/GIF/WebP werden dekodiert

package vision

import (
	"bytes"
	"errors"
)

// ImageFormat repraesentiert ein unterstuetztes Bildformat
type ImageFormat string

const (
	FormatJPEG    ImageFormat = "jpeg"
	FormatPNG     ImageFormat = "png"
	FormatGIF     ImageFormat = "gif"
	FormatWebP    ImageFormat = "webp"
	FormatUnknown ImageFormat = "unknown"
)

// signature verknuepft ein Format mit seinem Datei-Praefix
type signature struct {
	format ImageFormat
	magic  []byte
}

var signatures = []signature{
	{FormatJPEG, []byte{0xFF, 0xD8, 0xFF}},
	{FormatPNG, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}},
	{FormatGIF, []byte("GIF87a")},
	{FormatGIF, []byte("GIF89a")},
}

var (
	// ErrUnknownFormat wird zurueckgegeben wenn das Format nicht erkannt wurde
	ErrUnknownFormat = errors.New("vision: unknown image format")

	// ErrUnsupportedFormat wird zurueckgegeben bei bekanntem, aber nicht dekodierbarem Format
	ErrUnsupportedFormat = errors.New("vision: unsupported image format")
)

// DetectFormat erkennt das Bildformat anhand der Magic-Bytes
func DetectFormat(data []byte) ImageFormat {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig.magic) {
			return sig.format
		}
	}

	// RIFF....WEBP
	if len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return FormatWebP
	}

	return FormatUnknown
}

// ValidateFormat prueft ob ein Format dekodiert werden kann
func ValidateFormat(format ImageFormat) error {
	switch format {
	case FormatJPEG, FormatPNG, FormatGIF, FormatWebP:
		return nil
	case FormatUnknown:
		return ErrUnknownFormat
	default:
		return ErrUnsupportedFormat
	}
}

// MimeType gibt den MIME-Type fuer ein Format zurueck
func (f ImageFormat) MimeType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatGIF:
		return "image/gif"
	case FormatWebP:
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// String implementiert Stringer Interface
func (f ImageFormat) String() string {
	return string(f)
}
