// MODUL: urlcheck
// ZWECK: Prueft die Produkt-URLs eines Katalogs auf Erreichbarkeit
// INPUT: Katalog (Produkt-URLs in Katalog-Reihenfolge)
// OUTPUT: Eine Statuszeile pro URL, Report-Datei
// NEBENEFFEKTE: HEAD-Requests, schreibt Report
// HINWEISE: Sequentiell, Redirects werden nicht verfolgt

package urlcheck

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/catalog"
)

const (
	// DefaultTimeout gilt pro Request
	DefaultTimeout = 5 * time.Second

	// DefaultReport ist der Standard-Dateiname des Reports
	DefaultReport = "url_status_report.txt"
)

// Result ist der Status einer URL
type Result struct {
	URL        string
	StatusCode int   // 0 bei Transportfehler
	Err        error // Transportfehler
}

// Active meldet ob die URL mit 200 geantwortet hat
func (r Result) Active() bool {
	return r.Err == nil && r.StatusCode == http.StatusOK
}

// Line formatiert das Ergebnis als Report-Zeile
func (r Result) Line() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("❌ ERROR - %s (%v)", r.URL, r.Err)
	case r.StatusCode == http.StatusOK:
		return fmt.Sprintf("✅ ACTIVE - %s", r.URL)
	default:
		return fmt.Sprintf("⚠️ INACTIVE (%d) - %s", r.StatusCode, r.URL)
	}
}

// Checker fuehrt die HEAD-Requests aus
type Checker struct {
	client  *http.Client
	timeout time.Duration
}

// NewChecker erstellt einen Checker mit Timeout pro Request.
func NewChecker(timeout time.Duration) *Checker {
	return &Checker{
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout: timeout,
	}
}

// Check prueft eine einzelne URL
func (c *Checker) Check(ctx context.Context, url string) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return Result{URL: url, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{URL: url, Err: err}
	}
	resp.Body.Close()

	return Result{URL: url, StatusCode: resp.StatusCode}
}

// Run prueft alle Produkt-URLs nacheinander und schreibt jede Zeile sofort nach out.
// Ein abgebrochener ctx beendet den Lauf mit den bis dahin gesammelten Ergebnissen.
func (c *Checker) Run(ctx context.Context, cat *catalog.Catalog, out io.Writer) ([]Result, error) {
	results := make([]Result, 0, cat.Len())
	for _, p := range cat.Products {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		r := c.Check(ctx, p.Link())
		results = append(results, r)
		if out != nil {
			fmt.Fprintln(out, r.Line())
		}
	}

	return results, nil
}

// WriteReport schreibt eine Zeile pro Ergebnis nach path
func WriteReport(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, r := range results {
		if _, err := fmt.Fprintln(w, r.Line()); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
