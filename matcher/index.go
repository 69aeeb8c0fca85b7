package matcher

import (
	"context"
	"log/slog"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/catalog"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/store"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"
)

// IndexOptions steuert Index
type IndexOptions struct {
	// Force berechnet auch aktuelle Eintraege neu
	Force bool

	// Reset loescht vorher alle Eintraege des Modells, auch die von
	// Produkten, die nicht mehr im Katalog stehen
	Reset bool

	// Progress wird nach jedem Produkt aufgerufen
	Progress func(done, total int)
}

// IndexResult zaehlt die Ergebnisse eines Index-Laufs.
type IndexResult struct {
	Model     string
	Removed   int64 // durch Reset geloescht
	Total     int
	Indexed   int
	Unchanged int
	Failed    int
}

// Index berechnet die Embeddings aller Katalog-Produkte und speichert sie.
// Fehler einzelner Produkte werden gezaehlt, geloggt und uebersprungen.
func (m *Matcher) Index(ctx context.Context, opts IndexOptions) (*IndexResult, error) {
	if m.config.Store == nil {
		return nil, ErrNoStore
	}

	cat, err := m.loadCatalog()
	if err != nil {
		return nil, err
	}

	enc, err := m.loadEncoder()
	if err != nil {
		return nil, err
	}

	model := enc.ModelInfo().Name
	result := &IndexResult{Model: model, Total: cat.Len()}

	if opts.Reset {
		if result.Removed, err = m.config.Store.Delete(ctx, model); err != nil {
			return nil, err
		}
		slog.Info("removed stored embeddings", "model", model, "count", result.Removed)
	}

	existing, err := m.config.Store.All(ctx, model)
	if err != nil {
		return nil, err
	}

	for i, p := range cat.Products {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		id, ref := p.ID.String(), p.ImageRef()
		if e, ok := existing[id]; ok && e.Current(ref) && !opts.Force {
			result.Unchanged++
		} else if err := m.indexProduct(ctx, enc, model, id, ref); err != nil {
			slog.Warn("error indexing product", "product", id, "error", err)
			result.Failed++
		} else {
			result.Indexed++
		}

		if opts.Progress != nil {
			opts.Progress(i+1, result.Total)
		}
	}

	return result, nil
}

func (m *Matcher) indexProduct(ctx context.Context, enc vision.Encoder, model, id, ref string) error {
	if ref == "" {
		return catalog.ErrNoImage
	}

	data, err := m.config.Fetcher.Fetch(ctx, ref)
	if err != nil {
		return err
	}

	emb, err := m.embed(ctx, enc, data)
	if err != nil {
		return err
	}

	return m.config.Store.Put(ctx, store.Entry{
		Model:     model,
		ProductID: id,
		Image:     ref,
		Embedding: emb,
	})
}
