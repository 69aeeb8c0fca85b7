// MODUL: options
// ZWECK: Functional Options fuer die Encoder-Konfiguration
// INPUT: Optionale Parameter (Device, Threads, Endpoint, Library, Timeout, MaxPixels)
// OUTPUT: LoadOptions Struct
// NEBENEFFEKTE: Keine

package vision

import (
	"errors"
	"runtime"
	"time"
)

// LoadOptions enthaelt die Konfiguration fuer das Laden eines Encoders.
type LoadOptions struct {
	Device      string        // Compute-Backend: "cpu", "cuda"
	Threads     int           // Anzahl CPU-Threads
	GPU         int           // Index der GPU
	Endpoint    string        // Basis-URL fuer Remote-Encoder
	SharedLib   string        // Pfad zur Runtime-Library (onnx)
	Timeout     time.Duration // Request-Timeout fuer Remote-Encoder
	ImageSize   int           // Eingabegroesse, 0 = aus Modell lesen
	MaxBodySize int64         // maximale Antwortgroesse fuer Remote-Encoder
	MaxPixels   int64         // Pixel-Obergrenze beim Dekodieren, 0 = keine
}

// Option ist eine funktionale Option fuer LoadOptions.
type Option func(*LoadOptions)

const (
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

var (
	ErrInvalidDevice  = errors.New("vision: invalid device")
	ErrInvalidThreads = errors.New("vision: invalid thread count")
)

// DefaultLoadOptions gibt eine Standard-Konfiguration zurueck.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Device:      DeviceCPU,
		Threads:     runtime.NumCPU(),
		Timeout:     time.Minute,
		MaxBodySize: 16 << 20,
		MaxPixels:   DefaultMaxPixels,
	}
}

// WithDevice setzt das Compute-Backend.
func WithDevice(device string) Option {
	return func(o *LoadOptions) {
		if device != "" {
			o.Device = device
		}
	}
}

// WithThreads setzt die Anzahl der CPU-Threads.
// Werte <= 0 werden ignoriert.
func WithThreads(n int) Option {
	return func(o *LoadOptions) {
		if n > 0 {
			o.Threads = n
		}
	}
}

// WithGPU setzt den GPU-Index.
func WithGPU(gpu int) Option {
	return func(o *LoadOptions) {
		if gpu >= 0 {
			o.GPU = gpu
		}
	}
}

// WithEndpoint setzt die Basis-URL eines Remote-Encoders.
func WithEndpoint(endpoint string) Option {
	return func(o *LoadOptions) {
		o.Endpoint = endpoint
	}
}

// WithSharedLibrary setzt den Pfad der Runtime-Library.
func WithSharedLibrary(path string) Option {
	return func(o *LoadOptions) {
		o.SharedLib = path
	}
}

// WithTimeout setzt das Request-Timeout fuer Remote-Encoder.
func WithTimeout(d time.Duration) Option {
	return func(o *LoadOptions) {
		o.Timeout = d
	}
}

// WithImageSize erzwingt eine Eingabegroesse.
func WithImageSize(size int) Option {
	return func(o *LoadOptions) {
		if size > 0 {
			o.ImageSize = size
		}
	}
}

// WithMaxPixels setzt die Pixel-Obergrenze. 0 schaltet die Pruefung ab.
func WithMaxPixels(n int64) Option {
	return func(o *LoadOptions) {
		if n >= 0 {
			o.MaxPixels = n
		}
	}
}

// Apply wendet alle Options auf LoadOptions an.
func (o *LoadOptions) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// Validate prueft ob die LoadOptions gueltig sind.
func (o *LoadOptions) Validate() error {
	switch o.Device {
	case DeviceCPU, DeviceCUDA:
	default:
		return ErrInvalidDevice
	}

	if o.Threads <= 0 {
		return ErrInvalidThreads
	}

	return nil
}
