package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/repit/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

func RequestMetrics(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			resp := &responseWriter{respWriter, http.StatusOK}

			defer func(begin time.Time) {
				status := strconv.Itoa(resp.statusCode)
				metricsManager.HistogramRequestDuration.With(prometheus.Labels{
					"route":       routeName(req),
					"method":      req.Method,
					"status_code": status,
				}).Observe(time.Since(begin).Seconds())
				metricsManager.CounterRequests.With(prometheus.Labels{
					"method": req.Method,
					"status": status,
				}).Inc()
			}(time.Now())

			// handler call
			next.ServeHTTP(resp, req)
		})
	}
}

// routeName keeps the label cardinality bounded: the mux route name, never the raw path.
func routeName(req *http.Request) string {
	if route := mux.CurrentRoute(req); route != nil {
		if name := route.GetName(); name != "" {
			return name
		}
	}
	return "unknown"
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.statusCode = statusCode
}

// Flush keeps streaming responses (MCP) working behind the wrapper.
func (r *responseWriter) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
