package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

// Error kinds carried in every error response.
const (
	kindAuthentication = "authentication"
	kindRateLimit      = "rate_limit"
	kindValidation     = "validation"
	kindNotFound       = "not_found"
	kindConflict       = "conflict"
	kindPersistence    = "persistence"
)

type errorBody struct {
	Kind    string       `json:"kind"`
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, kind, message string, fields []fieldError) {
	writeJSON(w, status, map[string]errorBody{"error": {
		Kind:    kind,
		Message: message,
		Fields:  fields,
	}})
}

// handleError maps service errors onto the response taxonomy. Unknown
// errors are logged and answered as opaque persistence failures.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	var rle *domain.RateLimitError

	switch {
	case errors.As(err, &ve):
		fields := make([]fieldError, len(ve.Errors))
		for i, fe := range ve.Errors {
			fields[i] = fieldError{Field: fe.Field, Message: fe.Message}
		}
		writeError(w, http.StatusBadRequest, kindValidation, "validation failed", fields)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, kindValidation, err.Error(), nil)
	case errors.As(err, &rle):
		w.Header().Set("Retry-After", strconv.Itoa(rle.RetryAfterSeconds()))
		writeError(w, http.StatusTooManyRequests, kindRateLimit, "rate limit exceeded", nil)
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, kindAuthentication, "unauthorized", nil)
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, kindAuthentication, "forbidden", nil)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, kindNotFound, "not found", nil)
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, kindConflict, "conflict", nil)
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, kindPersistence, "internal server error", nil)
	}
}
