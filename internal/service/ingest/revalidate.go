package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mlevkov/faqpress-backend/internal/cache"
	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/pkg/ctxutil"
)

// RevalidateTag invalidates one named tag on request. Unlike the post-commit
// path there is no committed write behind this call, so a push failure is
// returned to the caller. The audit record is best-effort.
func (s *Service) RevalidateTag(ctx context.Context, tag string) error {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if !cache.IsKnownTag(tag) {
		return domain.NewValidationError("tag", "unknown cache tag")
	}

	if err := s.cache.Invalidate(ctx, []string{tag}); err != nil {
		return fmt.Errorf("invalidate tag %s: %w", tag, err)
	}

	if err := s.audit.Log(ctx, domain.AuditEntry{
		ActorID:    actorID,
		Action:     domain.AuditActionRevalidate,
		EntityType: domain.EntityTypeCacheTag,
		EntityID:   &tag,
	}); err != nil {
		s.log.ErrorContext(ctx, "failed to record revalidation",
			slog.String("tag", tag),
			slog.Any("error", err),
		)
	}
	return nil
}
