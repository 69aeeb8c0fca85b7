// config_features.go - Matching-Parameter und Varianten-Schalter
//
// Dieses Modul enthaelt:
// - Matching-Parameter (Threshold, MaxResults)
// - Encoder-Auswahl (Backend, Device, Remote-URL)
// - Schalter fuer die Service-Varianten (Preload, ErrorDetail)
package envconfig

// =============================================================================
// Matching-Parameter
// =============================================================================

var (
	// Threshold ist der minimale Cosine-Score fuer einen Treffer
	Threshold = Float("PRODMATCH_THRESHOLD", 0.7)

	// MaxResults begrenzt die Anzahl zurueckgegebener Treffer
	MaxResults = Uint("PRODMATCH_MAX_RESULTS", 100)

	// Embeddings ist der Pfad zur SQLite-Datei mit vorberechneten Embeddings
	// Leer = keine vorberechneten Embeddings
	Embeddings = String("PRODMATCH_EMBEDDINGS")
)

// =============================================================================
// Encoder-Konfiguration
// =============================================================================

var (
	// Encoder waehlt das Encoder-Backend aus der vision-Registry
	Encoder = StringWithDefault("PRODMATCH_ENCODER", "onnx")

	// EncoderURL ist die Basis-URL des Remote-Encoders
	EncoderURL = StringWithDefault("PRODMATCH_ENCODER_URL", "http://127.0.0.1:11434")

	// Device ist das Compute-Backend (cpu, cuda)
	Device = StringWithDefault("PRODMATCH_DEVICE", "cpu")

	// OnnxLibrary ist der Pfad zur onnxruntime Shared Library
	OnnxLibrary = String("PRODMATCH_ONNX_LIBRARY")
)

// =============================================================================
// Varianten-Schalter
// =============================================================================

var (
	// Preload laedt Modell und Katalog vor dem ersten Request
	Preload = Bool("PRODMATCH_PRELOAD")

	// ErrorDetail gibt Fehlertexte in 500-Antworten zurueck
	ErrorDetail = BoolWithDefault("PRODMATCH_ERROR_DETAIL")

	// MaxUpload begrenzt Upload- und Download-Groesse (Bytes)
	MaxUpload = Uint64("PRODMATCH_MAX_UPLOAD", 32<<20)

	// MaxPixels begrenzt Breite*Hoehe eines Bildes vor dem Dekodieren, 0 = keine Grenze
	MaxPixels = Uint64("PRODMATCH_MAX_PIXELS", 178956970)
)
