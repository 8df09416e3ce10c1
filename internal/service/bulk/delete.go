package bulk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/pkg/ctxutil"
)

// Delete removes the named topics and their content. Each id is processed
// independently; the row delete and its audit record commit together.
func (s *Service) Delete(ctx context.Context, topicIDs []string) (*Result, error) {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := s.checkBatch(len(topicIDs)); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, raw := range topicIDs {
		if err := s.deleteOne(ctx, actorID, raw); err != nil {
			res.fail(raw, err)
			continue
		}
		res.Success++
	}

	if res.Success > 0 {
		s.invalidateListing(ctx)
	}

	s.log.InfoContext(ctx, "bulk delete finished",
		slog.String("actor_id", actorID),
		slog.Int("success", res.Success),
		slog.Int("failed", res.Failed),
	)
	return res, nil
}

func (s *Service) deleteOne(ctx context.Context, actorID, raw string) error {
	id, err := uuid.Parse(raw)
	if err != nil {
		return domain.NewValidationError("topicId", "must be a valid uuid")
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		topic, err := s.topics.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		deleted, err := s.topics.DeleteBySlug(txCtx, topic.Slug)
		if err != nil {
			return fmt.Errorf("delete topic: %w", err)
		}
		if !deleted {
			return fmt.Errorf("topic %s: %w", topic.Slug, domain.ErrNotFound)
		}

		entityID := topic.Slug
		if err := s.audit.Log(txCtx, domain.AuditEntry{
			ActorID:    actorID,
			Action:     domain.AuditActionBulkDelete,
			EntityType: domain.EntityTypeTopic,
			EntityID:   &entityID,
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}
		return nil
	})
}
