// config_utils.go - Utility-Funktionen und Export fuer Konfiguration
//
// Dieses Modul enthaelt:
// - parse: gemeinsamer Getter, ungueltige Werte fallen auf den Default zurueck
// - Bool/BoolWithDefault, String/StringWithDefault, Uint/Uint64/Float
// - EnvVar: Struktur fuer Environment-Variablen-Info
// - AsMap: Gibt alle Konfigurationen als Map zurueck
// - Values: Gibt alle Konfigurationswerte als String-Map zurueck
package envconfig

import (
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
)

// parse liest key und wandelt den Wert mit conv um.
// Leere Werte liefern den Default, ungueltige zusaetzlich eine Warnung.
func parse[T any](key string, defaultValue T, conv func(string) (T, error)) T {
	s := Var(key)
	if s == "" {
		return defaultValue
	}

	v, err := conv(s)
	if err != nil {
		slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
		return defaultValue
	}
	return v
}

// BoolWithDefault gibt einen Bool-Getter zurueck, dessen Default erst beim Aufruf feststeht
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		return parse(k, defaultValue, strconv.ParseBool)
	}
}

// Bool liest einen Bool, Default false
func Bool(k string) func() bool {
	return func() bool {
		return BoolWithDefault(k)(false)
	}
}

// String liest den rohen Wert
func String(s string) func() string {
	return func() string {
		return Var(s)
	}
}

func StringWithDefault(s, defaultValue string) func() string {
	return func() string {
		return parse(s, defaultValue, func(v string) (string, error) { return v, nil })
	}
}

// Uint akzeptiert nur Dezimalzahlen >= 0
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		return parse(key, defaultValue, func(s string) (uint, error) {
			n, err := strconv.ParseUint(s, 10, 0)
			return uint(n), err
		})
	}
}

func Uint64(key string, defaultValue uint64) func() uint64 {
	return func() uint64 {
		return parse(key, defaultValue, func(s string) (uint64, error) {
			return strconv.ParseUint(s, 10, 64)
		})
	}
}

func Float(key string, defaultValue float32) func() float32 {
	return func() float32 {
		return parse(key, defaultValue, func(s string) (float32, error) {
			f, err := strconv.ParseFloat(s, 32)
			return float32(f), err
		})
	}
}

// =============================================================================
// Export-Strukturen und -Funktionen
// =============================================================================

// EnvVar repraesentiert eine Environment-Variable mit Metadaten
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap gibt alle Konfigurationen als Map zurueck
// Enthaelt Namen, aktuelle Werte und Beschreibungen
func AsMap() map[string]EnvVar {
	ret := map[string]EnvVar{
		"PRODMATCH_DEBUG":         {"PRODMATCH_DEBUG", LogLevel(), "Show additional debug information (e.g. PRODMATCH_DEBUG=1)"},
		"PRODMATCH_HOST":          {"PRODMATCH_HOST", Host(), "IP Address for the matcher server (default 0.0.0.0:5000)"},
		"PRODMATCH_ORIGINS":       {"PRODMATCH_ORIGINS", AllowedOrigins(), "A comma separated list of allowed origins (default: all)"},
		"PRODMATCH_PRELOAD":       {"PRODMATCH_PRELOAD", Preload(), "Load the model and the catalog before serving"},
		"PRODMATCH_ERROR_DETAIL":  {"PRODMATCH_ERROR_DETAIL", ErrorDetail(true), "Return error messages in failed match responses"},
		"PRODMATCH_CATALOG":       {"PRODMATCH_CATALOG", Catalog(), "The path to the product catalog (default products.json)"},
		"PRODMATCH_THRESHOLD":     {"PRODMATCH_THRESHOLD", Threshold(), "Minimum similarity score of a match (default 0.7)"},
		"PRODMATCH_MAX_RESULTS":   {"PRODMATCH_MAX_RESULTS", MaxResults(), "Maximum number of returned matches (default 100)"},
		"PRODMATCH_ENCODER":       {"PRODMATCH_ENCODER", Encoder(), "Image encoder backend: onnx or remote (default onnx)"},
		"PRODMATCH_MODEL":         {"PRODMATCH_MODEL", Model(), "Model file (onnx) or model name (remote)"},
		"PRODMATCH_ENCODER_URL":   {"PRODMATCH_ENCODER_URL", EncoderURL(), "Base URL of the remote image encoder"},
		"PRODMATCH_DEVICE":        {"PRODMATCH_DEVICE", Device(), "Compute device for the encoder: cpu or cuda"},
		"PRODMATCH_ONNX_LIBRARY":  {"PRODMATCH_ONNX_LIBRARY", OnnxLibrary(), "Path to the onnxruntime shared library"},
		"PRODMATCH_EMBEDDINGS":    {"PRODMATCH_EMBEDDINGS", Embeddings(), "SQLite file with precomputed product embeddings"},
		"PRODMATCH_FETCH_TIMEOUT": {"PRODMATCH_FETCH_TIMEOUT", FetchTimeout(), "Timeout for image downloads (default \"30s\")"},
		"PRODMATCH_MAX_UPLOAD":    {"PRODMATCH_MAX_UPLOAD", MaxUpload(), "Maximum image size in bytes (default 32MiB)"},
		"PRODMATCH_MAX_PIXELS":    {"PRODMATCH_MAX_PIXELS", MaxPixels(), "Maximum decoded image size in pixels, 0 = unlimited (default 178956970)"},

		// Proxy-Einstellungen
		"HTTP_PROXY":  {"HTTP_PROXY", String("HTTP_PROXY")(), "HTTP proxy"},
		"HTTPS_PROXY": {"HTTPS_PROXY", String("HTTPS_PROXY")(), "HTTPS proxy"},
		"NO_PROXY":    {"NO_PROXY", String("NO_PROXY")(), "No proxy"},
	}

	// Nicht-Windows: Case-sensitive Proxy-Variablen
	if runtime.GOOS != "windows" {
		ret["http_proxy"] = EnvVar{"http_proxy", String("http_proxy")(), "HTTP proxy"}
		ret["https_proxy"] = EnvVar{"https_proxy", String("https_proxy")(), "HTTPS proxy"}
		ret["no_proxy"] = EnvVar{"no_proxy", String("no_proxy")(), "No proxy"}
	}

	return ret
}

// Values gibt alle Konfigurationswerte als String-Map zurueck
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
