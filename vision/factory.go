// MODUL: factory
// ZWECK: Encoder-Interface und Erstellung ueber die Registry
// INPUT: Backend-Name, Modell-Pfad bzw. Modell-Name, Options
// OUTPUT: Encoder Implementation
// NEBENEFFEKTE: Backends laden Modelle oder pruefen Endpoints
// ABHAENGIGKEITEN: registry.go (Registry, EncoderFactory)
// HINWEISE: Backends registrieren sich via init() in DefaultRegistry

package vision

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownModelType wird zurueckgegeben wenn kein Backend unter dem Namen existiert
var ErrUnknownModelType = errors.New("vision: unknown encoder backend")

// ============================================================================
// Encoder Interface
// ============================================================================

// Encoder erzeugt ein Bild-Embedding aus kodierten Bild-Bytes.
// Implementierungen muessen fuer parallele Aufrufe sicher sein.
type Encoder interface {
	Encode(ctx context.Context, imageData []byte) ([]float32, error)
	ModelInfo() ModelInfo
	Close() error
}

// ModelInfo enthaelt Metadaten ueber ein geladenes Modell.
type ModelInfo struct {
	Name         string // Modell-Name, Teil des Schluessels im Embedding-Store
	Type         string // Backend: "onnx", "remote"
	EmbeddingDim int    // Embedding-Dimension (0 = unbekannt)
	ImageSize    int    // Erwartete Bildgroesse
}

// EncoderFactory ist eine Funktion die einen Encoder erstellt.
// model ist je nach Backend ein Dateipfad oder ein Modell-Name.
type EncoderFactory func(model string, opts LoadOptions) (Encoder, error)

// ModelConfig enthaelt die vollstaendige Encoder-Konfiguration.
type ModelConfig struct {
	Type    string
	Model   string
	Options LoadOptions
}

// ============================================================================
// NewEncoder
// ============================================================================

// NewEncoder erstellt einen Encoder ueber DefaultRegistry.
func NewEncoder(backend, model string, opts ...Option) (Encoder, error) {
	return NewEncoderFromConfig(ModelConfig{Type: backend, Model: model, Options: defaultWith(opts...)})
}

// NewEncoderFromConfig erstellt einen Encoder aus einer ModelConfig.
func NewEncoderFromConfig(config ModelConfig) (Encoder, error) {
	if err := config.Options.Validate(); err != nil {
		return nil, err
	}

	factory, exists := DefaultRegistry.Get(config.Type)
	if !exists {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownModelType, config.Type, DefaultRegistry.List())
	}

	return factory(config.Model, config.Options)
}

func defaultWith(opts ...Option) LoadOptions {
	o := DefaultLoadOptions()
	o.Apply(opts...)
	return o
}
