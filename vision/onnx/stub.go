//go:build !cgo

// MODUL: onnx/stub
// ZWECK: Ohne CGO ist ONNX Runtime nicht verfuegbar

package onnx

import (
	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"
)

// Factory gibt ohne CGO immer ErrCGORequired zurueck
func Factory(string, vision.LoadOptions) (vision.Encoder, error) {
	return nil, ErrCGORequired
}
