package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/internal/service/ingest"
)

// jobListLimit caps the job history page size.
const jobListLimit = 50

// ingestService defines the minimal interface needed by WebhookHandler.
type ingestService interface {
	Ingest(ctx context.Context, input ingest.IngestInput) (*ingest.IngestResult, error)
	DeleteTopic(ctx context.Context, slug string) error
	GetTopic(ctx context.Context, slug string) (*domain.TopicAggregate, error)
	RevalidateTag(ctx context.Context, tag string) error
	ListJobs(ctx context.Context, slug string, limit int) ([]domain.IngestJob, error)
}

// WebhookHandler serves the HMAC-authenticated webhook endpoints used by
// the content source.
type WebhookHandler struct {
	svc ingestService
	log *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(svc ingestService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, log: logger.With("handler", "webhook")}
}

type topicRequest struct {
	Slug   string   `json:"slug"`
	Title  string   `json:"title"`
	Locale string   `json:"locale"`
	Tags   []string `json:"tags"`
}

type questionRequest struct {
	Text string `json:"text"`
}

type articleRequest struct {
	Content string `json:"content"`
	Status  string `json:"status"`
}

type faqItemRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Order    int    `json:"order"`
}

type ingestRequest struct {
	Topic        topicRequest     `json:"topic"`
	MainQuestion *questionRequest `json:"mainQuestion"`
	Article      *articleRequest  `json:"article"`
	FAQItems     []faqItemRequest `json:"faqItems"`
}

type ingestResponse struct {
	Success bool   `json:"success"`
	TopicID string `json:"topicId"`
	JobID   string `json:"jobId"`
}

// Ingest handles POST /ingest.
func (h *WebhookHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body", nil)
		return
	}

	result, err := h.svc.Ingest(r.Context(), toIngestInput(req))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, ingestResponse{
		Success: true,
		TopicID: result.TopicID.String(),
		JobID:   result.JobID.String(),
	})
}

type revalidateRequest struct {
	Tag string `json:"tag"`
}

// Revalidate handles POST /revalidate.
func (h *WebhookHandler) Revalidate(w http.ResponseWriter, r *http.Request) {
	var req revalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body", nil)
		return
	}

	if err := h.svc.RevalidateTag(r.Context(), req.Tag); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tag": req.Tag})
}

// DeleteTopic handles DELETE /topics/{slug}. The operation clears the
// topic's content and is idempotent: deleting an absent slug succeeds.
func (h *WebhookHandler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.svc.DeleteTopic(r.Context(), slug); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "slug": slug})
}

type topicResponse struct {
	ID     string   `json:"id"`
	Slug   string   `json:"slug"`
	Title  string   `json:"title"`
	Locale string   `json:"locale"`
	Tags   []string `json:"tags"`
}

type aggregateResponse struct {
	Topic        topicResponse    `json:"topic"`
	MainQuestion *questionRequest `json:"mainQuestion,omitempty"`
	Article      *articleRequest  `json:"article,omitempty"`
	FAQItems     []faqItemRequest `json:"faqItems"`
}

// GetTopic handles GET /topics/{slug}.
func (h *WebhookHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	agg, err := h.svc.GetTopic(r.Context(), slug)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAggregateResponse(agg))
}

type jobResponse struct {
	ID          string  `json:"id"`
	Outcome     string  `json:"outcome"`
	ErrorDetail *string `json:"errorDetail,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// ListJobs handles GET /topics/{slug}/jobs. It returns the recent ingestion
// attempts for the slug so the content source can inspect failed deliveries.
func (h *WebhookHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	limit := jobListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, kindValidation, "limit must be a positive integer", nil)
			return
		}
		limit = min(n, jobListLimit)
	}

	jobs, err := h.svc.ListJobs(r.Context(), slug, limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, jobResponse{
			ID:          job.ID.String(),
			Outcome:     string(job.Outcome),
			ErrorDetail: job.ErrorDetail,
			CreatedAt:   job.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"slug": slug, "jobs": out})
}

func toIngestInput(req ingestRequest) ingest.IngestInput {
	input := ingest.IngestInput{
		Slug:   req.Topic.Slug,
		Title:  req.Topic.Title,
		Locale: req.Topic.Locale,
		Tags:   req.Topic.Tags,
	}
	if req.MainQuestion != nil {
		input.Question = &ingest.QuestionInput{Text: req.MainQuestion.Text}
	}
	if req.Article != nil {
		input.Article = &ingest.ArticleInput{Content: req.Article.Content, Status: req.Article.Status}
	}
	for _, item := range req.FAQItems {
		input.FAQItems = append(input.FAQItems, ingest.FAQItemInput{
			Question: item.Question,
			Answer:   item.Answer,
			Order:    item.Order,
		})
	}
	return input
}

func toAggregateResponse(agg *domain.TopicAggregate) aggregateResponse {
	resp := aggregateResponse{
		Topic: topicResponse{
			ID:     agg.Topic.ID.String(),
			Slug:   agg.Topic.Slug,
			Title:  agg.Topic.Title,
			Locale: agg.Topic.Locale,
			Tags:   agg.Topic.Tags,
		},
		FAQItems: []faqItemRequest{},
	}
	if agg.PrimaryQuestion != nil {
		resp.MainQuestion = &questionRequest{Text: agg.PrimaryQuestion.Text}
	}
	if agg.Article != nil {
		resp.Article = &articleRequest{Content: agg.Article.Content, Status: agg.Article.Status.String()}
	}
	for _, item := range agg.FAQItems {
		resp.FAQItems = append(resp.FAQItems, faqItemRequest{
			Question: item.Question,
			Answer:   item.Answer,
			Order:    item.Order,
		})
	}
	return resp
}
