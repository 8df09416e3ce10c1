package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/pkg/ctxutil"
)

// Webhook auth headers.
const (
	HeaderAPIKey    = "X-Api-Key"
	HeaderTimestamp = "X-Timestamp"
	HeaderSignature = "X-Signature"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type signatureVerifier interface {
	Verify(apiKey string, body []byte, timestamp, sig string) error
}

type securityAuditor interface {
	LogSecurityEvent(ctx context.Context, entry domain.AuditEntry)
}

// Signature returns middleware that authenticates webhook requests by their
// HMAC signature over the raw body. The body is buffered and restored so the
// handler parses the exact bytes that were verified. Rejections are recorded
// as security events; a failed audit write never blocks the 401.
func Signature(verifier signatureVerifier, auditor securityAuditor, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
			if err != nil {
				writeError(w, http.StatusBadRequest, "validation", "unreadable request body")
				return
			}
			r.Body.Close()
			if len(body) > maxBodyBytes {
				writeError(w, http.StatusRequestEntityTooLarge, "validation", "request body too large")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			apiKey := r.Header.Get(HeaderAPIKey)
			timestamp := r.Header.Get(HeaderTimestamp)
			sig := r.Header.Get(HeaderSignature)

			if err := verifier.Verify(apiKey, body, timestamp, sig); err != nil {
				logger.WarnContext(r.Context(), "webhook signature rejected",
					slog.String("api_key", apiKey),
					slog.String("path", r.URL.Path),
					slog.Any("error", err),
				)
				auditor.LogSecurityEvent(r.Context(), domain.AuditEntry{
					ActorID:    actorForKey(apiKey),
					Action:     domain.AuditActionAuthFailure,
					EntityType: domain.EntityTypeWebhook,
					Details:    map[string]any{"path": r.URL.Path, "reason": err.Error()},
					IPAddress:  clientIPPtr(r),
					UserAgent:  headerPtr(r, "User-Agent"),
				})
				writeError(w, http.StatusUnauthorized, "authentication", "invalid signature")
				return
			}

			ctx := ctxutil.WithActorID(r.Context(), actorForKey(apiKey))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func actorForKey(apiKey string) string {
	if apiKey == "" {
		return "webhook:anonymous"
	}
	return "webhook:" + apiKey
}

func headerPtr(r *http.Request, name string) *string {
	if v := r.Header.Get(name); v != "" {
		return &v
	}
	return nil
}

func clientIPPtr(r *http.Request) *string {
	ip := ClientID(r)
	if ip == "unknown" {
		return nil
	}
	return &ip
}
