// Package bulk coordinates batch operations over topics: delete, update and
// import. Items are processed independently; one bad item never aborts its
// siblings, and the caller gets a per-item error list alongside the tally.
package bulk

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mlevkov/faqpress-backend/internal/cache"
	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/internal/service/ingest"
)

// DefaultMaxItems bounds a single batch when no cap is configured.
const DefaultMaxItems = 100

type topicRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error)
	DeleteBySlug(ctx context.Context, slug string) (bool, error)
	SetArticleStatus(ctx context.Context, slug string, status domain.ArticleStatus) error
	UpdateTags(ctx context.Context, topicID uuid.UUID, tags []string) error
}

type ingester interface {
	ImportItem(ctx context.Context, input ingest.IngestInput, insertOnly bool) (*ingest.IngestResult, error)
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

// Service provides batch operations with partial-success semantics.
type Service struct {
	topics   topicRepo
	ingest   ingester
	audit    auditLogger
	tx       txManager
	cache    invalidator
	maxItems int
	log      *slog.Logger
}

// NewService creates a new bulk service. maxItems caps batch size; zero or
// negative falls back to DefaultMaxItems.
func NewService(
	log *slog.Logger,
	topics topicRepo,
	ing ingester,
	audit auditLogger,
	tx txManager,
	cache invalidator,
	maxItems int,
) *Service {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Service{
		topics:   topics,
		ingest:   ing,
		audit:    audit,
		tx:       tx,
		cache:    cache,
		maxItems: maxItems,
		log:      log.With("service", "bulk"),
	}
}

func (s *Service) checkBatch(size int) error {
	if size == 0 {
		return domain.NewValidationError("topicIds", "must not be empty")
	}
	if size > s.maxItems {
		return domain.NewValidationError("topicIds", "batch exceeds maximum size")
	}
	return nil
}

// invalidate pushes the batch's collected tags in a single call. The items
// have already committed, so failures are logged and never surfaced.
func (s *Service) invalidate(ctx context.Context, tags []string) {
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), tags); err != nil {
		s.log.WarnContext(ctx, "cache invalidation failed",
			slog.Any("tags", tags),
			slog.Any("error", err),
		)
	}
}

// invalidateListing invalidates just the collection tag, for batches that
// change existing topics in place.
func (s *Service) invalidateListing(ctx context.Context) {
	s.invalidate(ctx, []string{cache.TagTopics})
}
