package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/catalog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(base, srv.Client())
}

func TestClientFromEnvironment(t *testing.T) {
	t.Setenv("PRODMATCH_HOST", "10.0.0.1:8080")

	client, err := ClientFromEnvironment()
	if err != nil {
		t.Fatal(err)
	}

	if client.base.Host != "10.0.0.1:8080" {
		t.Errorf("erwartet Host 10.0.0.1:8080, bekommen %s", client.base.Host)
	}
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("unerwarteter Pfad %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"ok"}`))
	})

	resp, err := client.Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" {
		t.Errorf("erwartet ok, bekommen %q", resp.Status)
	}
}

func TestMatchURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req MatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.ImageURL != "https://example.com/a.jpg" {
			t.Errorf("unerwartete URL %q", req.ImageURL)
		}
		w.Write([]byte(`[{"id":1,"score":0.9,"name":"Shoe","image":"a.jpg","category":"Shoes"}]`))
	})

	matches, err := client.MatchURL(context.Background(), "https://example.com/a.jpg")
	if err != nil {
		t.Fatal(err)
	}

	want := []Match{{ID: catalog.NumberID(1), Score: 0.9, Name: "Shoe", Image: "a.jpg", Category: "Shoes"}}
	if diff := cmp.Diff(want, matches); diff != "" {
		t.Errorf("Treffer stimmen nicht (-want +got):\n%s", diff)
	}
}

func TestMatchImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatal(err)
		}
		defer file.Close()

		data, _ := io.ReadAll(file)
		if string(data) != "jpeg" {
			t.Errorf("unerwarteter Inhalt %q", data)
		}
		if header.Filename != "query.jpg" {
			t.Errorf("unerwarteter Dateiname %q", header.Filename)
		}
		w.Write([]byte(`[]`))
	})

	matches, err := client.MatchImage(context.Background(), "/tmp/query.jpg", strings.NewReader("jpeg"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("erwartet keine Treffer, bekommen %d", len(matches))
	}
}

func TestClientError(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"json", http.StatusBadRequest, `{"error":"No image file or image_url provided"}`, "400 Bad Request: No image file or image_url provided"},
		{"text", http.StatusInternalServerError, `boom`, "500 Internal Server Error: boom"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.MatchURL(context.Background(), "")
			var statusErr StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("erwartet StatusError, bekommen %v", err)
			}
			if statusErr.StatusCode != tt.status {
				t.Errorf("erwartet %d, bekommen %d", tt.status, statusErr.StatusCode)
			}
			if err.Error() != tt.message {
				t.Errorf("erwartet %q, bekommen %q", tt.message, err.Error())
			}
		})
	}
}
