package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/internal/signature"
	"github.com/mlevkov/faqpress-backend/pkg/ctxutil"
)

type securityAuditorMock struct {
	entries []domain.AuditEntry
}

func (m *securityAuditorMock) LogSecurityEvent(ctx context.Context, entry domain.AuditEntry) {
	m.entries = append(m.entries, entry)
}

func signedRequest(t *testing.T, secret, body string) *http.Request {
	t.Helper()
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(body))
	req.Header.Set(HeaderAPIKey, "site-1")
	req.Header.Set(HeaderTimestamp, ts)
	req.Header.Set(HeaderSignature, signature.Sign(secret, ts, []byte(body)))
	return req
}

func TestSignature_ValidRequestPasses(t *testing.T) {
	t.Parallel()

	const secret = "topsecret"
	verifier := signature.NewVerifier(map[string]string{"site-1": secret}, 5*time.Minute)
	auditor := &securityAuditorMock{}

	var gotActor string
	var gotBody []byte
	handler := Signature(verifier, auditor, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor, _ = ctxutil.ActorIDFromCtx(r.Context())
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))

	body := `{"topic":{"slug":"faq-1"}}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(t, secret, body))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "webhook:site-1", gotActor)
	assert.Equal(t, body, string(gotBody), "handler must see the exact verified bytes")
	assert.Empty(t, auditor.entries)
}

func TestSignature_TamperedBodyRejected(t *testing.T) {
	t.Parallel()

	const secret = "topsecret"
	verifier := signature.NewVerifier(map[string]string{"site-1": secret}, 5*time.Minute)
	auditor := &securityAuditorMock{}

	called := false
	handler := Signature(verifier, auditor, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := signedRequest(t, secret, `{"topic":{"slug":"faq-1"}}`)
	req.Body = io.NopCloser(strings.NewReader(`{"topic":{"slug":"faq-2"}}`))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called, "handler must not run on a bad signature")
	assert.Contains(t, rec.Body.String(), `"authentication"`)

	require.Len(t, auditor.entries, 1)
	entry := auditor.entries[0]
	assert.Equal(t, domain.AuditActionAuthFailure, entry.Action)
	assert.Equal(t, domain.EntityTypeWebhook, entry.EntityType)
	assert.Equal(t, "webhook:site-1", entry.ActorID)
}

func TestSignature_MissingHeadersRejected(t *testing.T) {
	t.Parallel()

	verifier := signature.NewVerifier(map[string]string{"site-1": "topsecret"}, 5*time.Minute)
	auditor := &securityAuditorMock{}
	handler := Signature(verifier, auditor, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Len(t, auditor.entries, 1)
	assert.Equal(t, "webhook:anonymous", auditor.entries[0].ActorID)
}

func TestSignature_StaleTimestampRejected(t *testing.T) {
	t.Parallel()

	const secret = "topsecret"
	verifier := signature.NewVerifier(map[string]string{"site-1": secret}, 5*time.Minute)
	auditor := &securityAuditorMock{}
	handler := Signature(verifier, auditor, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	body := "{}"
	ts := strconv.FormatInt(time.Now().Add(-time.Hour).UnixMilli(), 10)
	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(body))
	req.Header.Set(HeaderAPIKey, "site-1")
	req.Header.Set(HeaderTimestamp, ts)
	req.Header.Set(HeaderSignature, signature.Sign(secret, ts, []byte(body)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignature_OversizedBodyRejected(t *testing.T) {
	t.Parallel()

	verifier := signature.NewVerifier(map[string]string{"site-1": "topsecret"}, 5*time.Minute)
	handler := Signature(verifier, &securityAuditorMock{}, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(strings.Repeat("x", maxBodyBytes+1)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
