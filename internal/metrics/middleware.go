package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests that hit no chi route, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			// analysis runs are synchronous and can take minutes
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 15, 60, 180, 600},
		},
		[]string{"method", "route", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being served",
		},
	)
)

var httpGroup = newGroup(httpRequestDuration, httpRequestsTotal, httpInFlight)

// RegisterHTTPMetrics registers the HTTP collectors. Safe to call repeatedly.
func RegisterHTTPMetrics() {
	httpGroup.register(prometheus.DefaultRegisterer)
}

// Middleware records HTTP request duration, count and concurrency per chi route pattern.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpInFlight.Inc()
			defer httpInFlight.Dec()

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			route := routeLabel(r)
			status := strconv.Itoa(ww.status)
			httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		})
	}
}

// routeLabel returns the matched pattern, e.g. /api/v1/analysis/{file_name}.
func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return unmatchedRoute
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b) //nolint:wrapcheck // delegating to underlying ResponseWriter
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
