package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/internal/service/bulk"
	"github.com/mlevkov/faqpress-backend/internal/service/ingest"
)

// bulkService defines the minimal interface needed by BulkHandler.
type bulkService interface {
	Delete(ctx context.Context, topicIDs []string) (*bulk.Result, error)
	Update(ctx context.Context, topicIDs []string, input bulk.UpdateInput) (*bulk.Result, error)
	Import(ctx context.Context, topics []ingest.IngestInput, mode domain.ImportMode) (*bulk.Result, error)
}

// BulkHandler serves the operator-facing batch endpoints.
type BulkHandler struct {
	svc bulkService
	log *slog.Logger
}

// NewBulkHandler creates a BulkHandler.
func NewBulkHandler(svc bulkService, logger *slog.Logger) *BulkHandler {
	return &BulkHandler{svc: svc, log: logger.With("handler", "bulk")}
}

type bulkDeleteRequest struct {
	TopicIDs []string `json:"topicIds"`
}

// Delete handles POST /bulk-delete.
func (h *BulkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body", nil)
		return
	}

	res, err := h.svc.Delete(r.Context(), req.TopicIDs)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

type tagChangesRequest struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

type bulkUpdateRequest struct {
	TopicIDs []string `json:"topicIds"`
	Updates  struct {
		Status *string            `json:"status"`
		Tags   *tagChangesRequest `json:"tags"`
	} `json:"updates"`
}

// Update handles POST /bulk-update.
func (h *BulkHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req bulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body", nil)
		return
	}

	input := bulk.UpdateInput{Status: req.Updates.Status}
	if req.Updates.Tags != nil {
		input.Tags = &bulk.TagChanges{
			Add:    req.Updates.Tags.Add,
			Remove: req.Updates.Tags.Remove,
		}
	}

	res, err := h.svc.Update(r.Context(), req.TopicIDs, input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

type importRequest struct {
	Topics []ingestRequest `json:"topics"`
	Mode   string          `json:"mode"`
}

// Import handles POST /import.
func (h *BulkHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body", nil)
		return
	}

	items := make([]ingest.IngestInput, len(req.Topics))
	for i, topic := range req.Topics {
		items[i] = toIngestInput(topic)
	}

	res, err := h.svc.Import(r.Context(), items, domain.ImportMode(req.Mode))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
