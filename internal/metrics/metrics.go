// Package metrics defines the Prometheus collectors for the write
// endpoint and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the endpoint.
type Metrics struct {
	WritesTotal       *prometheus.CounterVec
	WriteDuration     prometheus.Histogram
	DryRunsTotal      prometheus.Counter
	DocsCreatedTotal  prometheus.Counter
	HTTPRequestsTotal *prometheus.CounterVec
}

// New creates and registers all collectors on reg. Passing a fresh
// registry keeps tests independent; production uses the default one via
// NewDefault.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sheetfire_writes_total",
				Help: "Total write requests by outcome (ok, bad_request, permission_denied, error).",
			},
			[]string{"outcome"},
		),
		WriteDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sheetfire_write_duration_seconds",
				Help:    "Write request latency in seconds, persistence included.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		DryRunsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sheetfire_dry_runs_total",
				Help: "Total dry-run requests (validated, never persisted).",
			},
		),
		DocsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sheetfire_documents_created_total",
				Help: "Total documents written with a server-assigned identifier.",
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sheetfire_http_requests_total",
				Help: "Total HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
	}

	reg.MustRegister(
		m.WritesTotal,
		m.WriteDuration,
		m.DryRunsTotal,
		m.DocsCreatedTotal,
		m.HTTPRequestsTotal,
	)

	return m
}

// NewDefault registers the collectors on the default registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
