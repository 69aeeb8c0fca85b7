package matcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/catalog"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/logutil"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/store"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"
)

// Match ist ein bewertetes Produkt
type Match struct {
	Product catalog.Product
	Score   float32
}

// Result ist das Ergebnis eines Abgleichs.
type Result struct {
	Matches []Match
	Scanned int // Produkte im Katalog
	Skipped int // Produkte, die wegen Fehlern uebersprungen wurden
}

// MatchURL holt das Bild hinter url und gleicht es ab.
func (m *Matcher) MatchURL(ctx context.Context, url string) (*Result, error) {
	if !catalog.IsURL(url) {
		return nil, ErrInvalidURL
	}

	cat, err := m.loadCatalog()
	if err != nil {
		return nil, err
	}

	data, err := m.config.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	return m.match(ctx, cat, data)
}

// MatchImage gleicht ein hochgeladenes Bild ab.
func (m *Matcher) MatchImage(ctx context.Context, data []byte) (*Result, error) {
	cat, err := m.loadCatalog()
	if err != nil {
		return nil, err
	}

	return m.match(ctx, cat, data)
}

func (m *Matcher) match(ctx context.Context, cat *catalog.Catalog, data []byte) (*Result, error) {
	enc, err := m.loadEncoder()
	if err != nil {
		return nil, err
	}

	query, err := m.embed(ctx, enc, data)
	if err != nil {
		return nil, err
	}

	stored := m.stored(ctx, enc.ModelInfo().Name)

	result := &Result{Scanned: cat.Len()}
	for _, p := range cat.Products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		emb, err := m.productEmbedding(ctx, enc, p, stored)
		if err == nil {
			var score float32
			if score, err = vision.Dot(query, emb); err == nil {
				logutil.Trace("product scored", "product", p.ID.String(), "score", score)
				result.Matches = append(result.Matches, Match{Product: p, Score: score})
				continue
			}
		}

		slog.Warn("error processing product", "product", p.ID.String(), "error", err)
		result.Skipped++
	}

	result.Matches = rank(result.Matches, m.config.Threshold, m.config.MaxResults)
	return result, nil
}

// rank sortiert absteigend (stabil), filtert nach threshold und kuerzt auf limit.
func rank(matches []Match, threshold float32, limit int) []Match {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	kept := matches[:0]
	for _, match := range matches {
		if match.Score >= threshold {
			kept = append(kept, match)
		}
	}

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	return kept
}

func (m *Matcher) productEmbedding(ctx context.Context, enc vision.Encoder, p catalog.Product, stored map[string]store.Entry) ([]float32, error) {
	ref := p.ImageRef()
	if ref == "" {
		return nil, catalog.ErrNoImage
	}

	if e, ok := stored[p.ID.String()]; ok && e.Current(ref) {
		return vision.Normalize(e.Embedding), nil
	}

	data, err := m.config.Fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	return m.embed(ctx, enc, data)
}

// embed kodiert ein Bild und normalisiert das Embedding (L2)
// Nicht lesbare Header gehen unveraendert an den Encoder, der den Fehler meldet.
func (m *Matcher) embed(ctx context.Context, enc vision.Encoder, data []byte) ([]float32, error) {
	if err := vision.CheckDimensions(data, m.config.MaxPixels); errors.Is(err, vision.ErrImageTooLarge) {
		return nil, err
	}

	emb, err := enc.Encode(ctx, data)
	if err != nil {
		return nil, err
	}
	if len(emb) == 0 {
		return nil, fmt.Errorf("encoder %s returned an empty embedding", enc.ModelInfo().Name)
	}
	return vision.Normalize(emb), nil
}

// stored liest vorberechnete Embeddings. Fehler werden geloggt, der Abgleich
// laeuft dann ohne Store weiter.
func (m *Matcher) stored(ctx context.Context, model string) map[string]store.Entry {
	if m.config.Store == nil {
		return nil
	}

	entries, err := m.config.Store.All(ctx, model)
	if err != nil {
		slog.Warn("could not read stored embeddings", "model", model, "error", err)
		return nil
	}
	return entries
}
