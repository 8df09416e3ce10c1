package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/internal/service/audit"
)

// auditService defines the minimal interface needed by AuditHandler.
type auditService interface {
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error)
	ExportCSV(ctx context.Context, w io.Writer, filter domain.AuditFilter) (int, error)
}

// AuditHandler serves the admin-only audit trail endpoints.
type AuditHandler struct {
	svc auditService
	log *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(svc auditService, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, log: logger.With("handler", "audit")}
}

type auditEntryResponse struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actorId"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   *string        `json:"entityId,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  *string        `json:"ipAddress,omitempty"`
	UserAgent  *string        `json:"userAgent,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// List handles GET /audit. Filters come from query parameters: actor,
// action, entityType, from, to (RFC 3339), limit, offset.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	entries, err := h.svc.List(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]auditEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = auditEntryResponse{
			ID:         e.ID.String(),
			ActorID:    e.ActorID,
			Action:     e.Action.String(),
			EntityType: e.EntityType.String(),
			EntityID:   e.EntityID,
			Details:    e.Details,
			IPAddress:  e.IPAddress,
			UserAgent:  e.UserAgent,
			CreatedAt:  e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": resp})
}

// Export handles GET /audit/export, streaming the filtered trail as a CSV
// attachment.
func (h *AuditHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+audit.ExportFilename(time.Now())+`"`)

	if _, err := h.svc.ExportCSV(r.Context(), w, filter); err != nil {
		// Headers are gone; all that is left is to log.
		h.log.ErrorContext(r.Context(), "audit export aborted", slog.Any("error", err))
	}
}

func filterFromQuery(r *http.Request) (domain.AuditFilter, error) {
	q := r.URL.Query()
	var filter domain.AuditFilter

	if v := q.Get("actor"); v != "" {
		filter.ActorID = &v
	}
	if v := q.Get("action"); v != "" {
		action := domain.AuditAction(v)
		filter.Action = &action
	}
	if v := q.Get("entityType"); v != "" {
		entityType := domain.EntityType(v)
		filter.EntityType = &entityType
	}
	if v := q.Get("from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, domain.NewValidationError("from", "must be RFC 3339")
		}
		filter.From = &ts
	}
	if v := q.Get("to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, domain.NewValidationError("to", "must be RFC 3339")
		}
		filter.To = &ts
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, domain.NewValidationError("limit", "must be an integer")
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, domain.NewValidationError("offset", "must be an integer")
		}
		filter.Offset = n
	}

	return filter, nil
}
