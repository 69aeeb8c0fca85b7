// Package catalog laedt den Produktkatalog und holt Produktbilder.
//
// Der Katalog ist eine JSON-Datei in einer von zwei Formen:
//
//	[{"id": 1, "name": "...", "image": "https://...", "category": "..."}]
//	{"products": [{"id": "a1", "url": "https://..."}]}
//
// Produkt-IDs duerfen Strings oder Zahlen sein und werden unveraendert
// zurueckgegeben.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrNoImage wird fuer Produkte ohne Bild-Referenz zurueckgegeben
	ErrNoImage = errors.New("catalog: product has no image")

	// ErrInvalidCatalog wird fuer nicht lesbare Katalog-Formen zurueckgegeben
	ErrInvalidCatalog = errors.New("catalog: expected an array of products or an object with \"products\"")
)

// Product ist ein Katalog-Eintrag.
type Product struct {
	ID       ID     `json:"id"`
	Name     string `json:"name,omitempty"`
	Image    string `json:"image,omitempty"`
	Category string `json:"category,omitempty"`
	URL      string `json:"url,omitempty"`
}

// ImageRef gibt die Bild-Referenz zurueck (image, sonst url).
func (p Product) ImageRef() string {
	if p.Image != "" {
		return p.Image
	}
	return p.URL
}

// Link gibt die zu pruefende URL zurueck (url, sonst image).
func (p Product) Link() string {
	if p.URL != "" {
		return p.URL
	}
	return p.Image
}

// Catalog ist die geordnete Produktliste.
type Catalog struct {
	Products []Product
}

// Len gibt die Anzahl der Produkte zurueck
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Products)
}

// Load liest den Katalog aus einer Datei.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse liest den Katalog aus r.
func Parse(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrInvalidCatalog
	}

	var products []Product
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &products); err != nil {
			return nil, err
		}
	case '{':
		var wrapped struct {
			Products *[]Product `json:"products"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, err
		}
		if wrapped.Products == nil {
			return nil, ErrInvalidCatalog
		}
		products = *wrapped.Products
	default:
		return nil, ErrInvalidCatalog
	}

	return &Catalog{Products: products}, nil
}
