// embeddings.go - Lesen und Schreiben von Embedding-Eintraegen
// Vektoren werden als float16 (little endian) gespeichert.

package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/x448/float16"
)

// Entry ist ein gespeichertes Produkt-Embedding.
type Entry struct {
	Model     string
	ProductID string
	Image     string
	Embedding []float32
	UpdatedAt time.Time
}

// Current meldet ob der Eintrag zur aktuellen Bild-Referenz passt.
func (e Entry) Current(image string) bool {
	return e.Image == image && len(e.Embedding) > 0
}

// Put speichert (oder ersetzt) einen Eintrag.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if len(e.Embedding) == 0 {
		return errors.New("store: empty embedding")
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO embeddings (model, product_id, image, dim, vector, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(model, product_id) DO UPDATE SET
			image = excluded.image,
			dim = excluded.dim,
			vector = excluded.vector,
			updated_at = excluded.updated_at
	`, e.Model, e.ProductID, e.Image, len(e.Embedding), encodeVector(e.Embedding))
	if err != nil {
		return fmt.Errorf("put embedding %s/%s: %w", e.Model, e.ProductID, err)
	}
	return nil
}

// Get liest einen Eintrag. ok ist false wenn keiner existiert.
func (s *Store) Get(ctx context.Context, model, productID string) (e Entry, ok bool, err error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT model, product_id, image, dim, vector, updated_at
		FROM embeddings WHERE model = ? AND product_id = ?
	`, model, productID)

	e, err = scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

// All liest alle Eintraege eines Modells, nach Produkt-ID.
func (s *Store) All(ctx context.Context, model string) (map[string]Entry, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT model, product_id, image, dim, vector, updated_at
		FROM embeddings WHERE model = ?
	`, model)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]Entry)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries[e.ProductID] = e
	}

	return entries, rows.Err()
}

// Count gibt die Anzahl der Eintraege eines Modells zurueck
func (s *Store) Count(ctx context.Context, model string) (int, error) {
	var n int
	err := s.conn.QueryRowContext(ctx, `SELECT count(*) FROM embeddings WHERE model = ?`, model).Scan(&n)
	return n, err
}

// Delete entfernt alle Eintraege eines Modells
func (s *Store) Delete(ctx context.Context, model string) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM embeddings WHERE model = ?`, model)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var dim int
	var blob []byte
	if err := row.Scan(&e.Model, &e.ProductID, &e.Image, &dim, &blob, &e.UpdatedAt); err != nil {
		return Entry{}, err
	}

	v, err := decodeVector(blob)
	if err != nil {
		return Entry{}, fmt.Errorf("embedding %s/%s: %w", e.Model, e.ProductID, err)
	}
	if len(v) != dim {
		return Entry{}, fmt.Errorf("embedding %s/%s: stored dim %d, vector has %d", e.Model, e.ProductID, dim, len(v))
	}

	e.Embedding = v
	return e, nil
}

func encodeVector(v []float32) []byte {
	b := make([]byte, 2*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint16(b[2*i:], float16.Fromfloat32(f).Bits())
	}
	return b
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%2 != 0 {
		return nil, fmt.Errorf("invalid vector blob length %d", len(b))
	}

	v := make([]float32, len(b)/2)
	for i := range v {
		v[i] = float16.Frombits(binary.LittleEndian.Uint16(b[2*i:])).Float32()
	}
	return v, nil
}
