//go:build cgo

// MODUL: onnx/encoder
// ZWECK: CLIP ViT-B/32 Bild-Encoder auf ONNX Runtime
// INPUT: Modell-Pfad (.onnx), Bild-Bytes, LoadOptions
// OUTPUT: 512-dim Embedding (nicht normalisiert)
// NEBENEFFEKTE: Laedt ONNX Runtime Session
// ABHAENGIGKEITEN: session.go, vision (Preprocessing, Encoder Interface)

package onnx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"
)

// Encoder implementiert vision.Encoder mit ONNX Runtime.
type Encoder struct {
	session   *Session
	info      vision.ModelInfo
	imageSize int
	maxPixels int64
	closed    bool
	mu        sync.RWMutex
}

// NewEncoder laedt ein exportiertes CLIP Vision-Modell.
func NewEncoder(modelPath string, opts vision.LoadOptions) (*Encoder, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
	}

	session, err := CreateSession(modelPath, SessionOptions{
		InputName:   DefaultInputName,
		OutputName:  DefaultOutputName,
		NumThreads:  opts.Threads,
		UseGPU:      opts.Device == vision.DeviceCUDA,
		GPUDeviceID: opts.GPU,
		SharedLib:   opts.SharedLib,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionCreate, err)
	}

	size := opts.ImageSize
	if size == 0 {
		size = session.ImageSize(vision.ClipImageSize)
	}

	return &Encoder{
		session:   session,
		imageSize: size,
		maxPixels: opts.MaxPixels,
		info: vision.ModelInfo{
			Name:         strings.TrimSuffix(filepath.Base(modelPath), filepath.Ext(modelPath)),
			Type:         "onnx",
			EmbeddingDim: session.EmbeddingDim(),
			ImageSize:    size,
		},
	}, nil
}

// Encode konvertiert ein Bild zu einem Embedding-Vektor.
func (e *Encoder) Encode(ctx context.Context, imageData []byte) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return nil, ErrAlreadyClosed
	}
	if len(imageData) == 0 {
		return nil, ErrInvalidInput
	}

	img, err := vision.LoadImageFromBytesLimit(imageData, e.maxPixels)
	if err != nil {
		return nil, err
	}

	input, err := vision.PreprocessCLIP(img, e.imageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPreprocess, err)
	}

	emb, err := e.session.Run(input, e.imageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}

	return emb, nil
}

// Close gibt alle Ressourcen frei
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}

	e.session.Destroy()
	e.closed = true
	return nil
}

// ModelInfo gibt Metadaten ueber das Modell zurueck
func (e *Encoder) ModelInfo() vision.ModelInfo {
	return e.info
}

// Factory ist die Registry-Factory fuer das Backend "onnx"
func Factory(modelPath string, opts vision.LoadOptions) (vision.Encoder, error) {
	return NewEncoder(modelPath, opts)
}
