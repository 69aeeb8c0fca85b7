package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.jpg":
			w.Write([]byte("image"))
		case "/big.jpg":
			w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, 16)

	data, err := f.Fetch(context.Background(), srv.URL+"/ok.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("image"), data)

	_, err = f.Fetch(context.Background(), srv.URL+"/big.jpg")
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.jpg")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestFetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	f := NewFetcher(time.Second, 0)

	data, err := f.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	_, err = f.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = f.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("http://a/b.jpg"))
	assert.True(t, IsURL("HTTPS://a/b.jpg"))
	assert.False(t, IsURL("images/http.jpg"))
	assert.False(t, IsURL("/tmp/a.jpg"))
}
