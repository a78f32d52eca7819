package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/recto-project/recto/internal/web/problem"
)

// Recovery creates a middleware that recovers from panics, logs the
// stack through the given zap logger, and sends a problem detail
// response.
func Recovery(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						zap.String("request_id", GetRequestID(r.Context())),
						zap.String("path", r.URL.Path),
						zap.Any("panic", err),
						zap.String("stack", string(debug.Stack())),
					)
					problem.Write(w, problem.BackendService())
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
