package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/internal/ratelimit"
)

type admitter interface {
	Allow(clientID string, class ratelimit.Class) error
}

// RateLimit returns middleware that admits requests through the shared
// token-bucket limiter under the given endpoint class. Rejections answer
// 429 with a Retry-After header.
func RateLimit(limiter admitter, class ratelimit.Class) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := limiter.Allow(ClientID(r), class); err != nil {
				var rle *domain.RateLimitError
				if errors.As(err, &rle) {
					w.Header().Set("Retry-After", strconv.Itoa(rle.RetryAfterSeconds()))
				}
				writeError(w, http.StatusTooManyRequests, "rate_limit", "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientID resolves the client identifier used for bucket keying: the first
// hop of X-Forwarded-For, then X-Real-Ip, then CF-Connecting-Ip, falling
// back to "unknown" when no proxy header is present. The fallback degrades
// to one shared bucket; it is a capacity bound, not a security boundary.
func ClientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("CF-Connecting-Ip"); ip != "" {
		return ip
	}
	return "unknown"
}
