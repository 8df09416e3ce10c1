package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mlevkov/faqpress-backend/pkg/ctxutil"
)

const headerRequestID = "X-Request-Id"

// RequestID accepts a caller-supplied request id or mints a new one, stores
// it in the context for log correlation, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctxutil.WithRequestID(r.Context(), id)))
	})
}
