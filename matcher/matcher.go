// MODUL: matcher
// ZWECK: Bild gegen den Produktkatalog abgleichen (Cosine, Sortierung, Threshold)
// INPUT: Bild-Bytes oder Bild-URL
// OUTPUT: Result mit sortierten Treffern
// NEBENEFFEKTE: Laedt Encoder und Katalog beim ersten Aufruf, holt Produktbilder
// ABHAENGIGKEITEN: vision (Encoder, Normalize, Dot), catalog, store (optional)
// HINWEISE: Encoder und Katalog werden einmal geladen; ein fehlgeschlagener
//           Ladeversuch wird beim naechsten Aufruf wiederholt

package matcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/catalog"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/store"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"
)

const (
	DefaultThreshold  float32 = 0.7
	DefaultMaxResults         = 100
)

var (
	// ErrInvalidURL wird fuer image_url ohne http(s)-Schema zurueckgegeben
	ErrInvalidURL = errors.New("image_url must be an http or https URL")

	// ErrNoStore wird von Index ohne konfigurierten Store zurueckgegeben
	ErrNoStore = errors.New("matcher: no embedding store configured")
)

// Fetcher loest Bild-Referenzen zu Bytes auf
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Config enthaelt alles, was ein Matcher zum Laden braucht.
type Config struct {
	// NewEncoder erstellt den Encoder beim ersten Bedarf
	NewEncoder func() (vision.Encoder, error)

	// LoadCatalog laedt den Katalog beim ersten Bedarf
	LoadCatalog func() (*catalog.Catalog, error)

	Fetcher Fetcher

	// Store liefert vorberechnete Embeddings (optional, nur lesend beim Matchen)
	Store *store.Store

	Threshold  float32
	MaxResults int // 0 = unbegrenzt

	// MaxPixels lehnt Bilder mit mehr Pixeln ab, bevor sie zum Encoder gehen (0 = aus)
	MaxPixels int64
}

// Matcher ist sicher fuer parallele Aufrufe.
type Matcher struct {
	config Config

	mu      sync.Mutex
	encoder vision.Encoder
	catalog *catalog.Catalog
}

// New erstellt einen Matcher. Es wird noch nichts geladen.
func New(config Config) *Matcher {
	return &Matcher{config: config}
}

// FromModelConfig erstellt die Config-Lader fuer einen Encoder aus der vision-Registry
// und einen Katalog aus einer Datei.
func FromModelConfig(model vision.ModelConfig, catalogPath string) Config {
	return Config{
		NewEncoder: func() (vision.Encoder, error) {
			return vision.NewEncoderFromConfig(model)
		},
		LoadCatalog: func() (*catalog.Catalog, error) {
			return catalog.Load(catalogPath)
		},
		Threshold:  DefaultThreshold,
		MaxResults: DefaultMaxResults,
		MaxPixels:  vision.DefaultMaxPixels,
	}
}

// Preload laedt Encoder und Katalog sofort.
func (m *Matcher) Preload(ctx context.Context) error {
	if _, err := m.loadCatalog(); err != nil {
		return err
	}
	if _, err := m.loadEncoder(); err != nil {
		return err
	}
	return ctx.Err()
}

// Loaded meldet ob Encoder und Katalog bereits geladen sind
func (m *Matcher) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.encoder != nil && m.catalog != nil
}

// Close gibt den Encoder frei, falls geladen
func (m *Matcher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.encoder == nil {
		return nil
	}
	err := m.encoder.Close()
	m.encoder = nil
	return err
}

func (m *Matcher) loadEncoder() (vision.Encoder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.encoder != nil {
		return m.encoder, nil
	}

	slog.Info("loading clip model")
	start := time.Now()

	enc, err := m.config.NewEncoder()
	if err != nil {
		return nil, err
	}

	info := enc.ModelInfo()
	slog.Info("clip model loaded", "name", info.Name, "type", info.Type, "dim", info.EmbeddingDim, "duration", time.Since(start))
	m.encoder = enc
	return enc, nil
}

func (m *Matcher) loadCatalog() (*catalog.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.catalog != nil {
		return m.catalog, nil
	}

	slog.Info("loading products")

	c, err := m.config.LoadCatalog()
	if err != nil {
		return nil, err
	}

	slog.Info("loaded products", "count", c.Len())
	m.catalog = c
	return c, nil
}
