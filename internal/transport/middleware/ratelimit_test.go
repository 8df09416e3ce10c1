package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlevkov/faqpress-backend/internal/ratelimit"
)

func TestRateLimit_RejectsWhenExhausted(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
	class := ratelimit.Class{Name: "test", MaxTokens: 2, Window: time.Minute}

	handler := RateLimit(limiter, class)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
		req.Header.Set("X-Real-Ip", "203.0.113.9")
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d should be admitted", i+1)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
	req.Header.Set("X-Real-Ip", "203.0.113.9")
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"rate_limit"`)
}

func TestRateLimit_SeparateClientsSeparateBuckets(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
	class := ratelimit.Class{Name: "test", MaxTokens: 1, Window: time.Minute}

	handler := RateLimit(limiter, class)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, ip := range []string{"198.51.100.1", "198.51.100.2"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
		req.Header.Set("X-Real-Ip", ip)
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "first request from %s", ip)
	}
}

func TestClientID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded-for first hop", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "203.0.113.9"},
		{"real-ip fallback", map[string]string{"X-Real-Ip": "198.51.100.7"}, "198.51.100.7"},
		{"cloudflare fallback", map[string]string{"CF-Connecting-Ip": "192.0.2.4"}, "192.0.2.4"},
		{"forwarded-for wins", map[string]string{"X-Forwarded-For": "203.0.113.9", "X-Real-Ip": "198.51.100.7"}, "203.0.113.9"},
		{"no headers", nil, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientID(req))
		})
	}
}
