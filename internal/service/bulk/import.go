package bulk

import (
	"context"
	"log/slog"

	"github.com/mlevkov/faqpress-backend/internal/cache"
	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/internal/service/ingest"
	"github.com/mlevkov/faqpress-backend/pkg/ctxutil"
)

// Import ingests a batch of topic aggregates. Mode "upsert" replaces
// existing topics; mode "create" inserts, so an item whose slug is taken
// fails with a conflict while its siblings proceed. Every item gets its
// own job record and audit entry, but cache invalidation is coalesced into
// one push covering the listing tag and each written entity tag.
func (s *Service) Import(ctx context.Context, topics []ingest.IngestInput, mode domain.ImportMode) (*Result, error) {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !mode.IsValid() {
		return nil, domain.NewValidationError("mode", "must be create or upsert")
	}
	if err := s.checkBatch(len(topics)); err != nil {
		return nil, err
	}

	insertOnly := mode == domain.ImportModeCreate

	res := &Result{}
	tags := []string{cache.TagTopics}
	for _, item := range topics {
		if _, err := s.ingest.ImportItem(ctx, item, insertOnly); err != nil {
			res.fail(item.Slug, err)
			continue
		}
		res.Success++
		tags = append(tags, cache.TopicTag(item.Slug))
	}

	if res.Success > 0 {
		s.invalidate(ctx, tags)
	}

	// The batch summary is informational; losing it must not fail an
	// import whose items already committed.
	if err := s.audit.Log(ctx, domain.AuditEntry{
		ActorID:    actorID,
		Action:     domain.AuditActionImport,
		EntityType: domain.EntityTypeTopic,
		Details: map[string]any{
			"mode":    mode.String(),
			"success": res.Success,
			"failed":  res.Failed,
		},
	}); err != nil {
		s.log.ErrorContext(ctx, "failed to record import summary", slog.Any("error", err))
	}

	s.log.InfoContext(ctx, "import finished",
		slog.String("actor_id", actorID),
		slog.String("mode", mode.String()),
		slog.Int("success", res.Success),
		slog.Int("failed", res.Failed),
	)
	return res, nil
}
