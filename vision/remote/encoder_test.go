package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"
)

func newTestEncoder(t *testing.T, handler http.HandlerFunc) *Encoder {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts := vision.DefaultLoadOptions()
	opts.Endpoint = srv.URL

	enc, err := NewEncoder("clip", opts)
	require.NoError(t, err)
	t.Cleanup(func() { enc.Close() })
	return enc
}

func TestEncode(t *testing.T) {
	enc := newTestEncoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/vision/encode", r.URL.Path)

		var req EncodeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "clip", req.Model)

		img, err := base64.StdEncoding.DecodeString(req.Image)
		require.NoError(t, err)
		assert.Equal(t, []byte("image-bytes"), img)

		json.NewEncoder(w).Encode(EncodeResponse{Embedding: []float32{1, 2, 3}, Dimensions: 3, Model: "clip"})
	})

	assert.Equal(t, 0, enc.ModelInfo().EmbeddingDim)

	emb, err := enc.Encode(context.Background(), []byte("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, emb)

	info := enc.ModelInfo()
	assert.Equal(t, "clip", info.Name)
	assert.Equal(t, "remote", info.Type)
	assert.Equal(t, 3, info.EmbeddingDim)
}

func TestEncodeErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"code and message", http.StatusInternalServerError, `{"code":"ENCODING_ERROR","message":"boom"}`, "remote encoder: ENCODING_ERROR: boom (status 500)"},
		{"error field", http.StatusBadRequest, `{"error":"bad image"}`, "remote encoder: bad image (status 400)"},
		{"plain text", http.StatusBadGateway, `upstream down`, "remote encoder: upstream down (status 502)"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			enc := newTestEncoder(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := enc.Encode(context.Background(), []byte("x"))
			var statusErr StatusError
			require.True(t, errors.As(err, &statusErr), "erwartet StatusError, bekommen %v", err)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestEncodeEmptyEmbedding(t *testing.T) {
	enc := newTestEncoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding":[],"dimensions":0}`))
	})

	_, err := enc.Encode(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrEmptyEmbedding)
}

func TestNewEncoderEndpoint(t *testing.T) {
	opts := vision.DefaultLoadOptions()

	_, err := NewEncoder("clip", opts)
	assert.ErrorIs(t, err, ErrNoEndpoint)

	opts.Endpoint = "ftp://example.com"
	_, err = NewEncoder("clip", opts)
	assert.Error(t, err)
}

func TestRegistered(t *testing.T) {
	_, ok := vision.DefaultRegistry.Get("remote")
	assert.True(t, ok)
}
