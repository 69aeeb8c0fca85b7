package matcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/catalog"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/logutil"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/store"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"
)

// fakeEncoder bildet Bild-Bytes auf feste Vektoren ab
type fakeEncoder struct {
	vectors map[string][]float32
	calls   atomic.Int32
	closed  bool
}

func (e *fakeEncoder) Encode(_ context.Context, data []byte) ([]float32, error) {
	e.calls.Add(1)
	v, ok := e.vectors[string(data)]
	if !ok {
		return nil, fmt.Errorf("cannot decode %q", data)
	}
	return v, nil
}

func (e *fakeEncoder) ModelInfo() vision.ModelInfo {
	return vision.ModelInfo{Name: "fake", Type: "test", EmbeddingDim: 2}
}

func (e *fakeEncoder) Close() error {
	e.closed = true
	return nil
}

// mapFetcher gibt die Referenz selbst als Bild-Bytes zurueck
type mapFetcher map[string]bool

func (f mapFetcher) Fetch(_ context.Context, ref string) ([]byte, error) {
	if !f[ref] {
		return nil, fmt.Errorf("fetch %s: 404 Not Found", ref)
	}
	return []byte(ref), nil
}

func product(id int64, image string) catalog.Product {
	return catalog.Product{ID: catalog.NumberID(id), Name: fmt.Sprintf("p%d", id), Image: image}
}

func newTestMatcher(enc *fakeEncoder, products []catalog.Product, fetchable ...string) *Matcher {
	f := mapFetcher{}
	for _, ref := range fetchable {
		f[ref] = true
	}

	return New(Config{
		NewEncoder:  func() (vision.Encoder, error) { return enc, nil },
		LoadCatalog: func() (*catalog.Catalog, error) { return &catalog.Catalog{Products: products}, nil },
		Fetcher:     f,
		Threshold:   DefaultThreshold,
		MaxResults:  DefaultMaxResults,
	})
}

func ids(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Product.ID.String()
	}
	return out
}

func TestMatchImage(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{
		"query": {1, 0},
		"same":  {2, 0},     // 1.0
		"close": {0.9, 0.1}, // ~0.994
		"above": {0.8, 0.6}, // 0.8
		"below": {0.6, 0.8}, // 0.6
		"far":   {0, 1},     // 0.0
	}}

	products := []catalog.Product{
		product(1, "far"),
		product(2, "close"),
		product(3, "same"),
		product(4, "missing"),
		product(5, ""),
		product(6, "above"),
		product(7, "below"),
	}

	m := newTestMatcher(enc, products, "far", "close", "same", "above", "below")

	result, err := m.MatchImage(context.Background(), []byte("query"))
	require.NoError(t, err)

	assert.Equal(t, []string{"3", "2", "6"}, ids(result.Matches))
	assert.Equal(t, 7, result.Scanned)
	assert.Equal(t, 2, result.Skipped)
	assert.InDelta(t, 1.0, result.Matches[0].Score, 1e-6)
	assert.InDelta(t, 0.8, result.Matches[2].Score, 1e-6)
}

func TestMatchURL(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{
		"https://example.com/q.jpg": {1, 0},
		"a.jpg":                     {1, 0},
	}}

	m := newTestMatcher(enc, []catalog.Product{product(1, "a.jpg")}, "https://example.com/q.jpg", "a.jpg")

	result, err := m.MatchURL(context.Background(), "https://example.com/q.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(result.Matches))

	_, err = m.MatchURL(context.Background(), "/etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = m.MatchURL(context.Background(), "https://example.com/missing.jpg")
	assert.Error(t, err)
}

func TestMatchQueryError(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{}}
	m := newTestMatcher(enc, []catalog.Product{product(1, "a.jpg")})

	_, err := m.MatchImage(context.Background(), []byte("not an image"))
	assert.Error(t, err)
}

func TestRank(t *testing.T) {
	matches := []Match{
		{Product: product(1, ""), Score: 0.8},
		{Product: product(2, ""), Score: 0.9},
		{Product: product(3, ""), Score: 0.8},
		{Product: product(4, ""), Score: 0.5},
		{Product: product(5, ""), Score: 0.95},
	}

	got := rank(matches, 0.7, 3)
	assert.Equal(t, []string{"5", "2", "1"}, ids(got))

	// gleiche Scores behalten die Katalog-Reihenfolge
	got = rank([]Match{
		{Product: product(1, ""), Score: 0.8},
		{Product: product(2, ""), Score: 0.8},
	}, 0, 0)
	assert.Equal(t, []string{"1", "2"}, ids(got))

	assert.Empty(t, rank(nil, 0.7, 100))
}

func TestRankKeepsThresholdScore(t *testing.T) {
	got := rank([]Match{
		{Product: product(1, ""), Score: 0.69999},
		{Product: product(2, ""), Score: 0.7},
		{Product: product(3, ""), Score: 0.70001},
	}, 0.7, 0)
	assert.Equal(t, []string{"3", "2"}, ids(got))
}

func TestMaxResults(t *testing.T) {
	vectors := map[string][]float32{"query": {1, 0}}
	var products []catalog.Product
	var refs []string
	for i := 0; i < 150; i++ {
		ref := fmt.Sprintf("img%d", i)
		vectors[ref] = []float32{1, 0}
		products = append(products, product(int64(i), ref))
		refs = append(refs, ref)
	}

	m := newTestMatcher(&fakeEncoder{vectors: vectors}, products, refs...)

	result, err := m.MatchImage(context.Background(), []byte("query"))
	require.NoError(t, err)
	assert.Len(t, result.Matches, DefaultMaxResults)
	assert.Equal(t, "0", result.Matches[0].Product.ID.String())
}

func TestLazyLoadRetry(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{"query": {1, 0}}}

	var attempts int
	m := New(Config{
		NewEncoder: func() (vision.Encoder, error) {
			attempts++
			if attempts == 1 {
				return nil, errors.New("model not found")
			}
			return enc, nil
		},
		LoadCatalog: func() (*catalog.Catalog, error) { return &catalog.Catalog{}, nil },
		Fetcher:     mapFetcher{},
		Threshold:   DefaultThreshold,
	})

	assert.False(t, m.Loaded())

	_, err := m.MatchImage(context.Background(), []byte("query"))
	require.Error(t, err)

	result, err := m.MatchImage(context.Background(), []byte("query"))
	require.NoError(t, err)
	assert.Empty(t, result.Matches)

	_, err = m.MatchImage(context.Background(), []byte("query"))
	require.NoError(t, err)

	assert.Equal(t, 2, attempts)
	assert.True(t, m.Loaded())

	require.NoError(t, m.Close())
	assert.True(t, enc.closed)
}

func TestPreload(t *testing.T) {
	enc := &fakeEncoder{}
	m := newTestMatcher(enc, nil)

	require.NoError(t, m.Preload(context.Background()))
	assert.True(t, m.Loaded())
	assert.EqualValues(t, 0, enc.calls.Load())
}

func TestMatchCanceled(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{"query": {1, 0}, "a": {1, 0}}}
	m := newTestMatcher(enc, []catalog.Product{product(1, "a")}, "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.MatchImage(ctx, []byte("query"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexAndStoredEmbeddings(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "embeddings.db"))
	require.NoError(t, err)
	defer s.Close()

	enc := &fakeEncoder{vectors: map[string][]float32{
		"query": {1, 0},
		"a":     {3, 0},
		"b":     {0, 1},
	}}

	products := []catalog.Product{product(1, "a"), product(2, "b"), product(3, "missing")}
	m := newTestMatcher(enc, products, "a", "b")
	m.config.Store = s

	var progress []int
	result, err := m.Index(context.Background(), IndexOptions{
		Progress: func(done, total int) { progress = append(progress, done) },
	})
	require.NoError(t, err)
	assert.Equal(t, &IndexResult{Model: "fake", Total: 3, Indexed: 2, Failed: 1}, result)
	assert.Equal(t, []int{1, 2, 3}, progress)

	n, err := s.Count(context.Background(), "fake")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// zweiter Lauf: nichts zu tun
	result, err = m.Index(context.Background(), IndexOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Unchanged)
	assert.Equal(t, 0, result.Indexed)

	// beim Matchen werden nur noch Query und fehlende Produkte kodiert
	before := enc.calls.Load()
	match, err := m.MatchImage(context.Background(), []byte("query"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(match.Matches))
	assert.EqualValues(t, 1, enc.calls.Load()-before)
}

func TestStaleStoredEmbedding(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "embeddings.db"))
	require.NoError(t, err)
	defer s.Close()

	// gespeichert fuer ein altes Bild
	require.NoError(t, s.Put(context.Background(), store.Entry{Model: "fake", ProductID: "1", Image: "old", Embedding: []float32{0, 1}}))

	enc := &fakeEncoder{vectors: map[string][]float32{"query": {1, 0}, "new": {1, 0}}}
	m := newTestMatcher(enc, []catalog.Product{product(1, "new")}, "new")
	m.config.Store = s

	result, err := m.MatchImage(context.Background(), []byte("query"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(result.Matches))
}

func TestIndexWithoutStore(t *testing.T) {
	m := newTestMatcher(&fakeEncoder{}, nil)
	_, err := m.Index(context.Background(), IndexOptions{})
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestIndexReset(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "embeddings.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	// Produkt 9 steht nicht mehr im Katalog
	require.NoError(t, s.Put(ctx, store.Entry{Model: "fake", ProductID: "9", Image: "gone", Embedding: []float32{1, 0}}))
	require.NoError(t, s.Put(ctx, store.Entry{Model: "other", ProductID: "1", Image: "a", Embedding: []float32{1}}))

	enc := &fakeEncoder{vectors: map[string][]float32{"a": {1, 0}}}
	m := newTestMatcher(enc, []catalog.Product{product(1, "a")}, "a")
	m.config.Store = s

	result, err := m.Index(ctx, IndexOptions{Reset: true})
	require.NoError(t, err)
	assert.Equal(t, &IndexResult{Model: "fake", Removed: 1, Total: 1, Indexed: 1}, result)

	all, err := s.All(ctx, "fake")
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Contains(t, all, "1")

	n, err := s.Count(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMatchRejectsOversizedImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 10, 10))))

	enc := &fakeEncoder{vectors: map[string][]float32{}}
	m := newTestMatcher(enc, []catalog.Product{product(1, "a")}, "a")
	m.config.MaxPixels = 99

	_, err := m.MatchImage(context.Background(), buf.Bytes())
	assert.ErrorIs(t, err, vision.ErrImageTooLarge)
	assert.EqualValues(t, 0, enc.calls.Load())

	// ohne Grenze erreicht das Bild den Encoder
	m.config.MaxPixels = 0
	_, err = m.MatchImage(context.Background(), buf.Bytes())
	require.Error(t, err)
	assert.NotErrorIs(t, err, vision.ErrImageTooLarge)
	assert.EqualValues(t, 1, enc.calls.Load())
}

func TestMatchTracesScores(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logutil.NewLogger(&buf, logutil.LevelTrace))
	t.Cleanup(func() { slog.SetDefault(prev) })

	enc := &fakeEncoder{vectors: map[string][]float32{"query": {1, 0}, "a": {1, 0}}}
	m := newTestMatcher(enc, []catalog.Product{product(7, "a")}, "a")

	_, err := m.MatchImage(context.Background(), []byte("query"))
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, "level=TRACE") && strings.Contains(out, "product=7"), out)
}
