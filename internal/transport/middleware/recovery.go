package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recovery converts a handler panic into a logged 500 response. The stack
// trace goes to the log, never to the client.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("error", rec),
					slog.String("stack", string(debug.Stack())),
				)
				writeError(w, http.StatusInternalServerError, "persistence", "internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
