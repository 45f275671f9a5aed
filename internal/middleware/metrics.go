package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/stop-insights/internal/metrics"
)

// NewMetricsHandler returns a middleware that records request count and
// latency per chi route pattern. Using the pattern rather than the raw path
// keeps label cardinality bounded.
func NewMetricsHandler(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			m.ObserveRequest(routePattern(r), r.Method, strconv.Itoa(ww.Status()), time.Since(start))
		})
	}
}
