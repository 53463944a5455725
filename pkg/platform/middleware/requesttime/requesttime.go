// Package requesttime pins one clock reading per request. Every handler and
// program call within the request observes the same "now", so audit dates and
// token expiry checks agree.
package requesttime

import (
	"net/http"
	"time"

	"rwagate/pkg/requestcontext"
)

// Middleware stamps the request with time.Now.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock stamps the request with now(), truncated to the second since the
// ledger records unix seconds.
func WithClock(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), now().Truncate(time.Second))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
