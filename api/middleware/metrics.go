package middleware

import (
	"net/http"
	"time"

	"github.com/danhewitt/motorline-backend/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics records per-route counters and latencies. It reads the chi route
// pattern after the handler ran so path parameters collapse into one label.
func Metrics(httpMetrics *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpMetrics == nil {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			httpMetrics.Observe(r.Method, route, rec.status, time.Since(start))
		})
	}
}
