package ingest

import (
	"context"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

// GetTopic returns the stored aggregate for a slug.
// Returns domain.ErrNotFound when no topic has the slug.
func (s *Service) GetTopic(ctx context.Context, slug string) (*domain.TopicAggregate, error) {
	if !domain.ValidSlug(slug) {
		return nil, domain.NewValidationError("slug", "must be lowercase alphanumeric with single hyphens")
	}
	return s.topics.GetAggregate(ctx, slug)
}

// ListJobs returns the most recent ingestion attempts for a slug, newest
// first. Failed attempts are included; that is the point of the log.
func (s *Service) ListJobs(ctx context.Context, slug string, limit int) ([]domain.IngestJob, error) {
	if !domain.ValidSlug(slug) {
		return nil, domain.NewValidationError("slug", "must be lowercase alphanumeric with single hyphens")
	}
	return s.jobs.ListBySlug(ctx, slug, limit)
}
