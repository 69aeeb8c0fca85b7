// MODUL: onnx/register
// ZWECK: Registriert den ONNX Encoder als Backend "onnx"
// HINWEISE: Import mit _ ".../vision/onnx"

package onnx

import (
	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"
)

func init() {
	vision.RegisterToDefault("onnx", Factory)
}
