// Package metrics exposes Prometheus counters for the HTTP surface and the
// third-party integrations (metadata scraping, Spotify, performance sync).
//
// A nil *Metrics is valid and records nothing, so components can be built
// without a registry in tests.
package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rosterdesk"

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	metadataFetches     *prometheus.CounterVec
	spotifyTokenFetches prometheus.Counter
	spotifyRequests     *prometheus.CounterVec
	performanceSyncs    *prometheus.CounterVec
}

// New registers every collector on reg.
func New(reg *prometheus.Registry) *Metrics {
	auto := promauto.With(reg)

	return &Metrics{
		gatherer: reg,

		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code",
		}, []string{"route", "method", "status_code"}),

		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),

		metadataFetches: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metadata",
			Name:      "fetches_total",
			Help:      "Link metadata attempts by source (direct, fallback, cache) and outcome",
		}, []string{"source", "outcome"}),

		spotifyTokenFetches: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "spotify",
			Name:      "token_fetches_total",
			Help:      "Client-credentials token exchanges",
		}),

		spotifyRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "spotify",
			Name:      "requests_total",
			Help:      "Spotify Web API calls by endpoint and status code",
		}, []string{"endpoint", "status_code"}),

		performanceSyncs: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "performance",
			Name:      "syncs_total",
			Help:      "Performance sync invocations by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) MetadataFetch(source, outcome string) {
	if m == nil {
		return
	}
	m.metadataFetches.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) SpotifyTokenFetched() {
	if m == nil {
		return
	}
	m.spotifyTokenFetches.Inc()
}

func (m *Metrics) SpotifyRequest(endpoint string, statusCode int) {
	if m == nil {
		return
	}
	m.spotifyRequests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
}

func (m *Metrics) PerformanceSync(outcome string) {
	if m == nil {
		return
	}
	m.performanceSyncs.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

var uuidSegment = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// RouteLabel collapses ids in a request path so label cardinality stays bounded.
func RouteLabel(path string) string {
	return uuidSegment.ReplaceAllString(path, ":id")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Instrument wraps next with request counting and latency observation.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := RouteLabel(r.URL.Path)
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
