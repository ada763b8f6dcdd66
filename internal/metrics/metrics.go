// Package metrics owns the Prometheus collectors for the API server.
// A Metrics value carries its own registry so tests and multiple servers in
// one process never collide on the global default registerer.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
)

const namespace = "caferecs"

// Geocode outcome labels.
const (
	GeocodeOK          = "ok"
	GeocodeNotFound    = "not_found"
	GeocodeUnavailable = "unavailable"
)

// Metrics holds every collector exported by the service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	vibeLookupFailures  *prometheus.CounterVec
	geocodeLookups      *prometheus.CounterVec
	geocodeDuration     prometheus.Histogram
	reviewsIngested     prometheus.Counter
	rateLimited         prometheus.Counter
}

// New creates a Metrics with a fresh registry, including the standard Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route pattern and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		vibeLookupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vibe_lookup_failures_total",
			Help:      "Synonym lookups that failed and were scored as zero.",
		}, []string{"vibe"}),
		geocodeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_lookups_total",
			Help:      "Upstream geocoder lookups by outcome.",
		}, []string{"result"}),
		geocodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_lookup_duration_seconds",
			Help:      "Duration of upstream geocoder lookups including retries.",
			Buckets:   prometheus.DefBuckets,
		}),
		reviewsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_ingested_total",
			Help:      "Reviews stored and scored.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the per-client rate limiter.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpRequestDuration,
		m.vibeLookupFailures,
		m.geocodeLookups,
		m.geocodeDuration,
		m.reviewsIngested,
		m.rateLimited,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one completed request.
func (m *Metrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// VibeLookupFailed counts a synonym lookup failure for v.
func (m *Metrics) VibeLookupFailed(v domain.Vibe) {
	m.vibeLookupFailures.WithLabelValues(string(v)).Inc()
}

// ObserveGeocode records the outcome of an upstream geocoder lookup.
func (m *Metrics) ObserveGeocode(err error, d time.Duration) {
	m.geocodeLookups.WithLabelValues(geocodeResult(err)).Inc()
	m.geocodeDuration.Observe(d.Seconds())
}

// ReviewsIngested adds n to the ingested review counter.
func (m *Metrics) ReviewsIngested(n int) {
	m.reviewsIngested.Add(float64(n))
}

// RateLimited counts one rejected request.
func (m *Metrics) RateLimited() {
	m.rateLimited.Inc()
}

func geocodeResult(err error) string {
	switch {
	case err == nil:
		return GeocodeOK
	case errors.Is(err, domain.ErrLocationNotFound):
		return GeocodeNotFound
	default:
		return GeocodeUnavailable
	}
}
