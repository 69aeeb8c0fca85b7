// MODUL: remote
// ZWECK: Encoder-Backend, das Bilder an einen entfernten Vision-Dienst schickt
// INPUT: Bild-Bytes, Basis-URL, Modell-Name
// OUTPUT: Embedding-Vektor
// NEBENEFFEKTE: HTTP-Requests an {base}/api/vision/encode
// ABHAENGIGKEITEN: vision (Encoder Interface, LoadOptions)
// HINWEISE: Registriert sich als Backend "remote"

package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"sync"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/version"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"
)

var (
	ErrNoEndpoint     = errors.New("remote: endpoint is required")
	ErrEmptyEmbedding = errors.New("remote: empty embedding")
	ErrBodyTooLarge   = errors.New("remote: response body too large")
)

const encodePath = "/api/vision/encode"

// Encoder implementiert vision.Encoder ueber HTTP.
type Encoder struct {
	base    *url.URL
	http    *http.Client
	model   string
	maxBody int64

	mu  sync.Mutex
	dim int
}

func init() {
	vision.RegisterToDefault("remote", Factory)
}

// Factory ist die Registry-Factory fuer das Backend "remote"
func Factory(model string, opts vision.LoadOptions) (vision.Encoder, error) {
	return NewEncoder(model, opts)
}

// NewEncoder erstellt einen Remote-Encoder fuer opts.Endpoint.
func NewEncoder(model string, opts vision.LoadOptions) (*Encoder, error) {
	if opts.Endpoint == "" {
		return nil, ErrNoEndpoint
	}

	base, err := url.Parse(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("remote: invalid endpoint %q: %w", opts.Endpoint, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("remote: invalid endpoint %q: scheme must be http or https", opts.Endpoint)
	}

	maxBody := opts.MaxBodySize
	if maxBody <= 0 {
		maxBody = vision.DefaultLoadOptions().MaxBodySize
	}

	return &Encoder{
		base:    base,
		http:    &http.Client{Timeout: opts.Timeout},
		model:   model,
		maxBody: maxBody,
	}, nil
}

// Encode schickt das Bild Base64-kodiert an den Dienst.
func (e *Encoder) Encode(ctx context.Context, imageData []byte) ([]float32, error) {
	data, err := json.Marshal(EncodeRequest{
		Model: e.model,
		Image: base64.StdEncoding.EncodeToString(imageData),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.base.JoinPath(encodePath).String(), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("prodmatch/%s (%s %s) Go/%s", version.Version, runtime.GOARCH, runtime.GOOS, runtime.Version()))

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > e.maxBody {
		return nil, ErrBodyTooLarge
	}

	if resp.StatusCode >= http.StatusBadRequest {
		statusErr := StatusError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, &statusErr); err != nil {
			statusErr.ErrorMessage = string(body)
		}
		return nil, statusErr
	}

	var out EncodeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("remote: decode response: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, ErrEmptyEmbedding
	}

	e.mu.Lock()
	e.dim = len(out.Embedding)
	e.mu.Unlock()

	return out.Embedding, nil
}

// ModelInfo gibt Metadaten zurueck. EmbeddingDim ist 0 bis zur ersten Antwort.
func (e *Encoder) ModelInfo() vision.ModelInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	return vision.ModelInfo{
		Name:         e.model,
		Type:         "remote",
		EmbeddingDim: e.dim,
	}
}

// Close gibt Idle-Verbindungen frei
func (e *Encoder) Close() error {
	e.http.CloseIdleConnections()
	return nil
}
