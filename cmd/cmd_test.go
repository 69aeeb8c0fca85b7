package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/api"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/catalog"
)

func TestNewCLICommands(t *testing.T) {
	root := NewCLI()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	if diff := cmp.Diff([]string{"serve", "match", "index", "check-urls", "bench"}, names); diff != "" {
		t.Errorf("Commands (-want +got):\n%s", diff)
	}

	serve, _, err := root.Find([]string{"serve"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(serve.UsageString(), "PRODMATCH_ORIGINS") {
		t.Error("serve usage ohne PRODMATCH_ORIGINS")
	}
}

func TestWriteMatches(t *testing.T) {
	matches := []api.Match{
		{ID: catalog.NumberID(3), Score: 0.91234, Name: "Red Shoe", Image: "a.jpg", Category: "Shoes"},
		{ID: catalog.StringID("b7"), Score: 0.75, Name: "Bag", Image: "b.jpg", Category: "Bags"},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeMatches(&buf, matches, false); err != nil {
			t.Fatal(err)
		}

		out := buf.String()
		for _, want := range []string{"ID", "SCORE", "Red Shoe", "0.9123", "b7", "0.7500"} {
			if !strings.Contains(out, want) {
				t.Errorf("Ausgabe enthaelt %q nicht:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeMatches(&buf, matches, true); err != nil {
			t.Fatal(err)
		}

		var got []api.Match
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(matches, got); diff != "" {
			t.Errorf("JSON (-want +got):\n%s", diff)
		}
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeMatches(&buf, nil, true); err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("erwartet [], bekommen %q", buf.String())
		}
	})
}

func TestMatchCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.MatchRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.ImageURL != "https://example.com/q.jpg" {
			t.Errorf("unerwartete URL %q", req.ImageURL)
		}
		w.Write([]byte(`[{"id":1,"score":0.8,"name":"Shoe","image":"a.jpg","category":"Shoes"}]`))
	}))
	defer srv.Close()

	t.Setenv("PRODMATCH_HOST", srv.URL)

	root := NewCLI()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"match", "--json", "https://example.com/q.jpg"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}

	var got []api.Match
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("%v: %s", err, out.String())
	}
	if len(got) != 1 || got[0].Name != "Shoe" {
		t.Errorf("unerwartete Treffer %+v", got)
	}
}

func TestCheckURLsCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "products.json")
	reportPath := filepath.Join(dir, "report.txt")

	data := `{"products": [{"id": 1, "url": "` + srv.URL + `/ok"}, {"id": 2, "url": "` + srv.URL + `/gone"}]}`
	if err := os.WriteFile(catalogPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	root := NewCLI()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"check-urls", "--catalog", catalogPath, "--report", reportPath})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := "Checking URLs...\n\n" +
		"✅ ACTIVE - " + srv.URL + "/ok\n" +
		"⚠️ INACTIVE (410) - " + srv.URL + "/gone\n" +
		"\nURL check completed. Results saved to '" + reportPath + "'.\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("Ausgabe (-want +got):\n%s", diff)
	}

	report, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(report), "\n"); lines != 2 {
		t.Errorf("erwartet 2 Report-Zeilen, bekommen %d", lines)
	}
}

func TestIndexCommandRequiresStore(t *testing.T) {
	t.Setenv("PRODMATCH_EMBEDDINGS", "")

	root := NewCLI()
	root.SetArgs([]string{"index"})

	err := root.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no embedding store") {
		t.Errorf("erwartet Fehler ohne Store, bekommen %v", err)
	}
}

func TestIndexCommandFlags(t *testing.T) {
	cmd := newIndexCmd()
	for _, name := range []string{"embeddings", "force", "reset"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Flag --%s fehlt", name)
		}
	}
}
