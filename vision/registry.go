// MODUL: registry
// ZWECK: Registry fuer Encoder-Factories (onnx, remote, Test-Fakes)
// INPUT: Backend-Name, EncoderFactory
// OUTPUT: Encoder-Instanzen
// NEBENEFFEKTE: Keine (rein speicherbasiert)
// HINWEISE: Thread-sicher durch RWMutex

package vision

import (
	"errors"
	"slices"
	"sync"
)

// ErrEncoderNotRegistered wird zurueckgegeben wenn ein Backend nicht registriert ist.
var ErrEncoderNotRegistered = errors.New("vision: encoder not registered")

// RegistryError repraesentiert einen Registry-spezifischen Fehler.
type RegistryError struct {
	Op   string // Operation (z.B. "create")
	Name string // Backend-Name
	Err  error  // Urspruenglicher Fehler
}

// Error implementiert das error Interface.
func (e *RegistryError) Error() string {
	return "vision: " + e.Op + " encoder '" + e.Name + "': " + e.Err.Error()
}

// Unwrap gibt den urspruenglichen Fehler zurueck.
func (e *RegistryError) Unwrap() error {
	return e.Err
}

// Registry verwaltet registrierte Encoder-Factories.
type Registry struct {
	encoders map[string]EncoderFactory
	mu       sync.RWMutex
}

// NewRegistry erstellt eine neue leere Registry.
func NewRegistry() *Registry {
	return &Registry{
		encoders: make(map[string]EncoderFactory),
	}
}

// DefaultRegistry ist die globale Registry.
// Backends registrieren sich via init() in ihren Packages.
var DefaultRegistry = NewRegistry()

// Register registriert eine Factory und ueberschreibt bestehende Eintraege.
// Eine nil-Factory ist ein Programmierfehler.
func (r *Registry) Register(name string, factory EncoderFactory) {
	if factory == nil {
		panic("vision: nil factory for encoder '" + name + "'")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.encoders[name] = factory
}

// Unregister entfernt ein Backend. Gibt true zurueck wenn es existierte.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.encoders[name]
	delete(r.encoders, name)
	return exists
}

// Get gibt die Factory fuer den angegebenen Namen zurueck.
func (r *Registry) Get(name string) (EncoderFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.encoders[name]
	return factory, exists
}

// List gibt die registrierten Namen sortiert zurueck.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.encoders))
	for name := range r.encoders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Create erstellt einen Encoder mit der registrierten Factory.
func (r *Registry) Create(name, model string, opts LoadOptions) (Encoder, error) {
	factory, exists := r.Get(name)
	if !exists {
		return nil, &RegistryError{Op: "create", Name: name, Err: ErrEncoderNotRegistered}
	}

	return factory(model, opts)
}

// RegisterToDefault registriert eine Factory in der DefaultRegistry.
func RegisterToDefault(name string, factory EncoderFactory) {
	DefaultRegistry.Register(name, factory)
}
