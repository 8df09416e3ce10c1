// Package ingest implements the content ingestion pipeline: the atomic
// full-replace upsert of a topic aggregate, the job log around it, and the
// cache invalidation that follows a committed write.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

type topicRepo interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Topic, error)
	GetAggregate(ctx context.Context, slug string) (*domain.TopicAggregate, error)
	Create(ctx context.Context, topic *domain.Topic) (*domain.Topic, error)
	Upsert(ctx context.Context, topic *domain.Topic) (*domain.Topic, error)
	UpdateTags(ctx context.Context, topicID uuid.UUID, tags []string) error
	ReplaceQuestion(ctx context.Context, topicID uuid.UUID, question *domain.Question) error
	ReplaceArticle(ctx context.Context, topicID uuid.UUID, article *domain.Article) error
	ReplaceFAQItems(ctx context.Context, topicID uuid.UUID, items []domain.FAQItem) error
}

type jobRepo interface {
	Create(ctx context.Context, job *domain.IngestJob) error
	ListBySlug(ctx context.Context, slug string, limit int) ([]domain.IngestJob, error)
}

type auditLogger interface {
	Log(ctx context.Context, entry domain.AuditEntry) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type invalidator interface {
	Invalidate(ctx context.Context, tags []string) error
}

// Service provides content ingestion operations.
type Service struct {
	topics  topicRepo
	jobs    jobRepo
	audit   auditLogger
	tx      txManager
	cache   invalidator
	timeout time.Duration
	log     *slog.Logger
}

// NewService creates a new ingestion service. timeout bounds each ingest
// transaction; zero disables the bound.
func NewService(
	log *slog.Logger,
	topics topicRepo,
	jobs jobRepo,
	audit auditLogger,
	tx txManager,
	cache invalidator,
	timeout time.Duration,
) *Service {
	return &Service{
		topics:  topics,
		jobs:    jobs,
		audit:   audit,
		tx:      tx,
		cache:   cache,
		timeout: timeout,
		log:     log.With("service", "ingest"),
	}
}
