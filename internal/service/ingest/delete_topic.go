package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mlevkov/faqpress-backend/internal/cache"
	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/pkg/ctxutil"
)

// DeleteTopic clears a topic's content: the primary question, article, FAQ
// set and tags are removed while the topic row itself stays as a placeholder.
// The operation is idempotent; clearing an absent or already-cleared topic
// succeeds without side effects.
func (s *Service) DeleteTopic(ctx context.Context, slug string) error {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if !domain.ValidSlug(slug) {
		return domain.NewValidationError("slug", "must be lowercase alphanumeric with single hyphens")
	}

	cleared := false
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		topic, err := s.topics.GetBySlug(txCtx, slug)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get topic: %w", err)
		}

		if err := s.topics.ReplaceQuestion(txCtx, topic.ID, nil); err != nil {
			return fmt.Errorf("clear question: %w", err)
		}
		if err := s.topics.ReplaceArticle(txCtx, topic.ID, nil); err != nil {
			return fmt.Errorf("clear article: %w", err)
		}
		if err := s.topics.ReplaceFAQItems(txCtx, topic.ID, nil); err != nil {
			return fmt.Errorf("clear faq items: %w", err)
		}
		if err := s.topics.UpdateTags(txCtx, topic.ID, nil); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}

		entityID := slug
		if err := s.audit.Log(txCtx, domain.AuditEntry{
			ActorID:    actorID,
			Action:     domain.AuditActionDelete,
			EntityType: domain.EntityTypeTopic,
			EntityID:   &entityID,
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		cleared = true
		return nil
	})
	if err != nil {
		return err
	}

	if cleared {
		s.invalidate(ctx, cache.TagsForTopicWrite(slug, slug))
		s.log.InfoContext(ctx, "topic cleared",
			slog.String("actor_id", actorID),
			slog.String("slug", slug),
		)
	}

	return nil
}
