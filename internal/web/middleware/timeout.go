package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout creates a middleware that bounds the request context with a
// deadline. Handlers and backend clients observe the deadline through
// the context; the middleware does not interrupt a handler mid-write.
func Timeout(timeout time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)
			next.ServeHTTP(w, r)
		})
	}
}
