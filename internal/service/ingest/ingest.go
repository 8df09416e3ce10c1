package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mlevkov/faqpress-backend/internal/cache"
	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/pkg/ctxutil"
)

// Ingest performs the full-replace upsert of a topic aggregate. The topic
// row, its primary question, article, FAQ set and the audit record commit
// in one transaction; the job record and cache invalidation happen after,
// so a rolled-back attempt still leaves a FAILURE job behind.
func (s *Service) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	result, err := s.write(ctx, input, false)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagsForTopicWrite(input.Slug, input.Slug))

	return result, nil
}

// write runs the ingest transaction and the job record around it. With
// insertOnly set the topic row is inserted rather than upserted, so a slug
// that exists by the time the statement runs fails the whole transaction
// with domain.ErrAlreadyExists instead of replacing the other write.
// Cache invalidation is the caller's concern.
func (s *Service) write(ctx context.Context, input IngestInput, insertOnly bool) (*IngestResult, error) {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// An empty payload is the legacy delete: children are gone, tags go too.
	tags := input.Tags
	if input.isEmpty() {
		tags = nil
	}

	var topic *domain.Topic
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		row := &domain.Topic{
			ID:     uuid.New(),
			Slug:   input.Slug,
			Title:  input.Title,
			Locale: input.Locale,
			Tags:   tags,
		}
		var writeErr error
		if insertOnly {
			topic, writeErr = s.topics.Create(txCtx, row)
			if writeErr != nil {
				return fmt.Errorf("insert topic: %w", writeErr)
			}
		} else {
			topic, writeErr = s.topics.Upsert(txCtx, row)
			if writeErr != nil {
				return fmt.Errorf("upsert topic: %w", writeErr)
			}
		}

		var question *domain.Question
		if input.Question != nil {
			question = &domain.Question{Text: input.Question.Text, IsPrimary: true}
		}
		if err := s.topics.ReplaceQuestion(txCtx, topic.ID, question); err != nil {
			return fmt.Errorf("replace question: %w", err)
		}

		var article *domain.Article
		if input.Article != nil {
			article = &domain.Article{
				Content: input.Article.Content,
				Status:  domain.ArticleStatus(input.Article.Status),
			}
		}
		if err := s.topics.ReplaceArticle(txCtx, topic.ID, article); err != nil {
			return fmt.Errorf("replace article: %w", err)
		}

		items := make([]domain.FAQItem, len(input.FAQItems))
		for i, item := range input.FAQItems {
			items[i] = domain.FAQItem{Question: item.Question, Answer: item.Answer, Order: item.Order}
		}
		if err := s.topics.ReplaceFAQItems(txCtx, topic.ID, items); err != nil {
			return fmt.Errorf("replace faq items: %w", err)
		}

		slug := topic.Slug
		auditErr := s.audit.Log(txCtx, domain.AuditEntry{
			ActorID:    actorID,
			Action:     domain.AuditActionIngest,
			EntityType: domain.EntityTypeTopic,
			EntityID:   &slug,
			Details: map[string]any{
				"cleared":   input.isEmpty(),
				"faq_items": len(input.FAQItems),
			},
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		s.recordJob(ctx, input.Slug, domain.JobOutcomeFailure, err)
		return nil, err
	}

	job, jobErr := s.recordJob(ctx, topic.Slug, domain.JobOutcomeSuccess, nil)
	if jobErr != nil {
		// The aggregate committed; without a job id the contract is broken.
		return nil, fmt.Errorf("record ingest job: %w", jobErr)
	}

	s.log.InfoContext(ctx, "topic ingested",
		slog.String("actor_id", actorID),
		slog.String("slug", topic.Slug),
		slog.String("job_id", job.ID.String()),
		slog.Bool("cleared", input.isEmpty()),
	)

	return &IngestResult{TopicID: topic.ID, JobID: job.ID}, nil
}

// recordJob appends one job record outside the data transaction, so it
// survives a rollback and a timed-out context.
func (s *Service) recordJob(ctx context.Context, slug string, outcome domain.JobOutcome, cause error) (*domain.IngestJob, error) {
	jobCtx := context.WithoutCancel(ctx)

	job := domain.IngestJob{TopicSlug: slug, Outcome: outcome}
	if cause != nil {
		detail := cause.Error()
		job.ErrorDetail = &detail
	}

	if err := s.jobs.Create(jobCtx, &job); err != nil {
		s.log.ErrorContext(ctx, "failed to record ingest job",
			slog.String("slug", slug),
			slog.String("outcome", outcome.String()),
			slog.Any("error", err),
		)
		return nil, err
	}
	return &job, nil
}

// invalidate pushes stale tags to the frontend. The write has already
// committed, so failures are logged and never surfaced.
func (s *Service) invalidate(ctx context.Context, tags []string) {
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), tags); err != nil {
		s.log.WarnContext(ctx, "cache invalidation failed",
			slog.Any("tags", tags),
			slog.Any("error", err),
		)
	}
}
