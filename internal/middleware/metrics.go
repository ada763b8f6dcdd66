package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// HTTPObserver records one finished request. *metrics.Metrics satisfies it.
type HTTPObserver interface {
	ObserveHTTP(route, method string, status int, d time.Duration)
}

// UnmatchedRoute labels requests no route matched, keeping label cardinality
// bounded when clients probe random paths.
const UnmatchedRoute = "unmatched"

// NewMetrics returns a middleware that reports every request to obs, labelled
// by the chi route pattern (e.g. /cafes/{id}) rather than the raw path.
func NewMetrics(obs HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := UnmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			obs.ObserveHTTP(route, r.Method, ww.Status(), time.Since(start))
		})
	}
}
