package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/version"
)

// ErrTooLarge wird zurueckgegeben wenn ein Bild das Groessenlimit ueberschreitet
var ErrTooLarge = errors.New("catalog: image exceeds size limit")

// FetchError ist eine HTTP-Antwort ausserhalb von 2xx.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Fetcher loest Bild-Referenzen zu Bytes auf: http(s)-URLs per GET,
// alles andere als lokaler Dateipfad.
type Fetcher struct {
	Client  *http.Client
	MaxSize int64 // 0 = unbegrenzt
}

// NewFetcher erstellt einen Fetcher mit Timeout und Groessenlimit.
func NewFetcher(timeout time.Duration, maxSize int64) *Fetcher {
	return &Fetcher{
		Client:  &http.Client{Timeout: timeout},
		MaxSize: maxSize,
	}
}

// IsURL meldet ob ref per HTTP geholt wird
func IsURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch gibt die Bytes hinter ref zurueck.
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, ErrNoImage
	}

	if IsURL(ref) {
		return f.get(ctx, ref)
	}

	file, err := os.Open(ref)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return f.read(file)
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", fmt.Sprintf("prodmatch/%s (%s %s) Go/%s", version.Version, runtime.GOARCH, runtime.GOOS, runtime.Version()))

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	if f.MaxSize > 0 && resp.ContentLength > f.MaxSize {
		return nil, ErrTooLarge
	}

	return f.read(resp.Body)
}

func (f *Fetcher) read(r io.Reader) ([]byte, error) {
	if f.MaxSize <= 0 {
		return io.ReadAll(r)
	}

	data, err := io.ReadAll(io.LimitReader(r, f.MaxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.MaxSize {
		return nil, ErrTooLarge
	}
	return data, nil
}
