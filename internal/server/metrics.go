// ABOUTME: Prometheus instrumentation and basic-auth guard for /metrics.
// ABOUTME: Metrics are registered on a private registry, not the global one.
package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry         *prometheus.Registry
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	recordsUpserted  *prometheus.CounterVec
	recordsRejected  *prometheus.CounterVec
}

// newMetrics builds the server's metric set on its own registry so tests can
// run many servers in one process without duplicate-registration panics.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepbox_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stepbox_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		recordsUpserted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepbox_sync_records_upserted_total",
				Help: "Records accepted by the sync endpoint",
			},
			[]string{"entity"},
		),
		recordsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepbox_sync_records_rejected_total",
				Help: "Records rejected by the sync endpoint",
			},
			[]string{"entity"},
		),
	}
	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.recordsUpserted, m.recordsRejected)
	return m
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// instrument wraps a handler to record request counts and latency. Routes are
// labeled by the mux path template upstream, so r.URL.Path is safe here: the
// route set is small and fixed.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{w, http.StatusOK}

		next.ServeHTTP(ww, r)

		m.requestsTotal.WithLabelValues(r.URL.Path, r.Method, http.StatusText(ww.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.URL.Path, r.Method).Observe(time.Since(start).Seconds())
	})
}

// basicAuth guards an endpoint with the configured credentials.
func basicAuth(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="Metrics"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
