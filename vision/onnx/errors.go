// MODUL: onnx/errors
// ZWECK: Fehler-Definitionen des ONNX-Backends (mit und ohne CGO)

package onnx

import "errors"

var (
	ErrModelLoad     = errors.New("onnx: load model failed")
	ErrSessionCreate = errors.New("onnx: create session failed")
	ErrInference     = errors.New("onnx: inference failed")
	ErrPreprocess    = errors.New("onnx: preprocessing failed")
	ErrAlreadyClosed = errors.New("onnx: encoder already closed")
	ErrInvalidInput  = errors.New("onnx: invalid input")

	// ErrCGORequired wird ohne CGO von allen Operationen zurueckgegeben
	ErrCGORequired = errors.New("onnx: CGO required but not available")
)

const (
	// DefaultEmbeddingDim ist die Projektions-Dimension von CLIP ViT-B/32
	DefaultEmbeddingDim = 512

	// DefaultInputName ist der Input-Tensor des exportierten Vision-Modells
	DefaultInputName = "pixel_values"

	// DefaultOutputName ist der projizierte Embedding-Output
	DefaultOutputName = "image_embeds"
)
