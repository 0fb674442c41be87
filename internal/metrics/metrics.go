// Package metrics holds the Prometheus collectors of the listing service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Error types for ErrorsTotal.
const (
	ErrorValidation = "validation"
	ErrorNotFound   = "not_found"
	ErrorDatabase   = "database"
	ErrorTimeout    = "timeout"
)

// Metrics groups the collectors. Each server owns its registry so tests can
// build as many as they like.
type Metrics struct {
	// FetchDuration tracks store time per listing page.
	// Labels: listing
	FetchDuration *prometheus.HistogramVec

	// ItemsTotal counts items served.
	// Labels: listing
	ItemsTotal *prometheus.CounterVec

	// PagesTotal counts pages served.
	// Labels: listing, has_more
	PagesTotal *prometheus.CounterVec

	// ErrorsTotal counts listing failures.
	// Labels: listing, type (validation, not_found, database, timeout)
	ErrorsTotal *prometheus.CounterVec

	// RequestsTotal counts HTTP requests.
	// Labels: route, status
	RequestsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tubepage_page_fetch_duration_seconds",
				Help:    "Time spent fetching one page from the store",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
			},
			[]string{"listing"},
		),
		ItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tubepage_page_items_total",
				Help: "Total number of items returned in pages",
			},
			[]string{"listing"},
		),
		PagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tubepage_pages_total",
				Help: "Total number of pages served",
			},
			[]string{"listing", "has_more"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tubepage_page_errors_total",
				Help: "Total number of listing errors",
			},
			[]string{"listing", "type"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tubepage_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.FetchDuration, m.ItemsTotal, m.PagesTotal, m.ErrorsTotal, m.RequestsTotal)
	}
	return m
}

// RecordPage records a served page.
func (m *Metrics) RecordPage(listing string, items int, hasMore bool, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(listing).Observe(d.Seconds())
	m.ItemsTotal.WithLabelValues(listing).Add(float64(items))
	more := "false"
	if hasMore {
		more = "true"
	}
	m.PagesTotal.WithLabelValues(listing, more).Inc()
}

// RecordError records a listing error.
// errorType should be one of the Error* constants.
func (m *Metrics) RecordError(listing, errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(listing, errorType).Inc()
}

// RecordRequest records a finished HTTP request.
func (m *Metrics) RecordRequest(route, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, status).Inc()
}
