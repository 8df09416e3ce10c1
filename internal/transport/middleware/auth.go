package middleware

import (
	"net/http"
	"strings"

	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (string, domain.Role, error)
}

// Auth returns middleware that requires a valid bearer token and stores the
// operator id and role in the request context.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "authentication", "missing bearer token")
				return
			}

			operatorID, role, err := validator.ValidateAccessToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "authentication", "invalid token")
				return
			}

			ctx := ctxutil.WithActorID(r.Context(), operatorID)
			ctx = ctxutil.WithRole(ctx, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that rejects requests whose context role
// is neither the given role nor admin. Place after Auth.
func RequireRole(role domain.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := ctxutil.RoleFromCtx(r.Context())
			if !ok || (got != role && !got.IsAdmin()) {
				writeError(w, http.StatusForbidden, "authentication", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
