//go:build cgo

// MODUL: onnx/session
// ZWECK: ONNX Runtime Session - Erstellen, Shape lesen, Inference
// INPUT: Modell-Pfad (.onnx), SessionOptions, NCHW-Tensor
// OUTPUT: Embedding-Vektor
// NEBENEFFEKTE: Alloziert ONNX Runtime Ressourcen
// ABHAENGIGKEITEN: github.com/yalue/onnxruntime_go
// HINWEISE: Destroy() MUSS aufgerufen werden

package onnx

import (
	"fmt"
	"log/slog"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	runtimeInitOnce sync.Once
	runtimeInitErr  error
)

// InitRuntime initialisiert die ONNX Runtime einmalig.
// sharedLib ueberschreibt den Suchpfad der onnxruntime Library.
func InitRuntime(sharedLib string) error {
	runtimeInitOnce.Do(func() {
		if sharedLib != "" {
			ort.SetSharedLibraryPath(sharedLib)
		}
		runtimeInitErr = ort.InitializeEnvironment()
	})
	return runtimeInitErr
}

// SessionOptions konfiguriert die ONNX Session
type SessionOptions struct {
	InputName   string
	OutputName  string
	NumThreads  int
	UseGPU      bool
	GPUDeviceID int
	SharedLib   string
}

// Session kapselt eine Inference Session samt Modell-Shapes
type Session struct {
	inner        *ort.DynamicAdvancedSession
	inputShape   ort.Shape // [N, C, H, W], evtl. mit dynamischen (-1) Achsen
	embeddingDim int
}

// CreateSession erstellt eine neue ONNX Inference Session.
func CreateSession(modelPath string, opts SessionOptions) (*Session, error) {
	if err := InitRuntime(opts.SharedLib); err != nil {
		return nil, fmt.Errorf("runtime init: %w", err)
	}

	sessOpts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("session options: %w", err)
	}
	defer sessOpts.Destroy()

	if opts.NumThreads > 0 {
		if err := sessOpts.SetIntraOpNumThreads(opts.NumThreads); err != nil {
			return nil, fmt.Errorf("set threads: %w", err)
		}
	}

	if opts.UseGPU {
		cudaOpts, err := ort.NewCUDAProviderOptions()
		if err == nil {
			_ = cudaOpts.Update(map[string]string{
				"device_id": fmt.Sprintf("%d", opts.GPUDeviceID),
			})
			if err := sessOpts.AppendExecutionProviderCUDA(cudaOpts); err != nil {
				slog.Warn("cuda execution provider unavailable, using cpu", "error", err)
			}
			cudaOpts.Destroy()
		}
	}

	inner, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{opts.InputName},
		[]string{opts.OutputName},
		sessOpts,
	)
	if err != nil {
		return nil, err
	}

	sess := &Session{inner: inner, embeddingDim: DefaultEmbeddingDim}

	// Shapes aus der Modell-Datei lesen
	if inputs, outputs, err := ort.GetInputOutputInfo(modelPath); err == nil {
		for _, info := range inputs {
			if info.Name == opts.InputName && len(info.Dimensions) == 4 {
				sess.inputShape = info.Dimensions
			}
		}
		for _, info := range outputs {
			if info.Name == opts.OutputName && len(info.Dimensions) > 0 {
				if d := info.Dimensions[len(info.Dimensions)-1]; d > 0 {
					sess.embeddingDim = int(d)
				}
			}
		}
	} else {
		slog.Debug("could not read model shapes", "path", modelPath, "error", err)
	}

	return sess, nil
}

// ImageSize gibt H aus der Input-Shape zurueck, bei dynamischer Achse fallback.
func (s *Session) ImageSize(fallback int) int {
	if len(s.inputShape) == 4 {
		if h := s.inputShape[2]; h > 0 && h <= 1024 {
			return int(h)
		}
	}
	return fallback
}

// EmbeddingDim gibt die Output-Dimension zurueck
func (s *Session) EmbeddingDim() int {
	return s.embeddingDim
}

// Run fuehrt Inference fuer ein einzelnes Bild [1, 3, size, size] aus.
func (s *Session) Run(input []float32, size int) ([]float32, error) {
	inputTensor, err := ort.NewTensor(ort.NewShape(1, 3, int64(size), int64(size)), input)
	if err != nil {
		return nil, fmt.Errorf("input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(s.embeddingDim)))
	if err != nil {
		return nil, fmt.Errorf("output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	if err := s.inner.Run([]ort.Value{inputTensor}, []ort.Value{outputTensor}); err != nil {
		return nil, err
	}

	result := make([]float32, s.embeddingDim)
	copy(result, outputTensor.GetData())
	return result, nil
}

// Destroy gibt alle Session-Ressourcen frei
func (s *Session) Destroy() {
	if s.inner != nil {
		s.inner.Destroy()
		s.inner = nil
	}
}
