// metrics.go - Prometheus-Metriken des Servers
// Enthaelt: Metrics, NewMetrics, ObserveRequest, ObserveMatch, Handler

package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/matcher"
)

const (
	outcomeOK         = "ok"
	outcomeBadRequest = "bad_request"
	outcomeError      = "error"
)

// Metrics haelt eine eigene Registry, damit mehrere Server (z.B. in Tests)
// sich nicht in die Quere kommen.
type Metrics struct {
	Registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	matchDuration   prometheus.Histogram
	skippedProducts prometheus.Counter
	catalogProducts prometheus.Gauge
}

// NewMetrics erstellt und registriert alle Metriken.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prodmatch_match_requests_total",
			Help: "Match requests by outcome",
		}, []string{"outcome"}),
		matchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "prodmatch_match_duration_seconds",
			Help:    "Duration of successful match requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		skippedProducts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prodmatch_skipped_products_total",
			Help: "Products skipped during matching because of errors",
		}),
		catalogProducts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prodmatch_catalog_products",
			Help: "Number of products in the loaded catalog",
		}),
	}

	m.Registry.MustRegister(
		m.requestsTotal,
		m.matchDuration,
		m.skippedProducts,
		m.catalogProducts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveRequest zaehlt einen Request mit outcome
func (m *Metrics) ObserveRequest(outcome string) {
	m.requestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveMatch erfasst einen erfolgreichen Abgleich
func (m *Metrics) ObserveMatch(d time.Duration, r *matcher.Result) {
	m.ObserveRequest(outcomeOK)
	m.matchDuration.Observe(d.Seconds())
	m.skippedProducts.Add(float64(r.Skipped))
	m.catalogProducts.Set(float64(r.Scanned))
}

// Handler liefert die Metriken im Prometheus-Format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func outcomeFor(status int) string {
	if status < http.StatusInternalServerError {
		return outcomeBadRequest
	}
	return outcomeError
}
