package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"endpoint", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"endpoint", "method"},
	)
)

// MetricsMiddleware wraps a handler to record request counts and
// latencies. The endpoint label is a fixed route name rather than the
// raw path to keep label cardinality bounded.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		httpRequestsTotal.WithLabelValues(endpoint, r.Method, strconv.Itoa(wrapped.Status())).Inc()
		httpRequestDuration.WithLabelValues(endpoint, r.Method).Observe(time.Since(start).Seconds())
	}
}
