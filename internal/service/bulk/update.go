package bulk

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/pkg/ctxutil"
)

// TagChanges names tags to add to and remove from a topic's tag set.
// Removal wins when a tag appears in both lists.
type TagChanges struct {
	Add    []string
	Remove []string
}

// UpdateInput describes the change applied to every topic in the batch.
// At least one of Status or Tags must be set.
type UpdateInput struct {
	Status *string
	Tags   *TagChanges
}

// Validate checks the update shape before any item is touched.
func (u UpdateInput) Validate() error {
	var errs []domain.FieldError

	if u.Status == nil && u.Tags == nil {
		errs = append(errs, domain.FieldError{Field: "updates", Message: "must set status or tags"})
	}
	if u.Status != nil && !domain.ArticleStatus(*u.Status).IsValid() {
		errs = append(errs, domain.FieldError{Field: "updates.status", Message: "must be DRAFT or PUBLISHED"})
	}
	if u.Tags != nil && len(u.Tags.Add) == 0 && len(u.Tags.Remove) == 0 {
		errs = append(errs, domain.FieldError{Field: "updates.tags", Message: "must add or remove at least one tag"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Update applies one status and/or tag change to every named topic. Each
// item commits in its own transaction together with its audit record.
func (s *Service) Update(ctx context.Context, topicIDs []string, input UpdateInput) (*Result, error) {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := s.checkBatch(len(topicIDs)); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, raw := range topicIDs {
		if err := s.updateOne(ctx, actorID, raw, input); err != nil {
			res.fail(raw, err)
			continue
		}
		res.Success++
	}

	if res.Success > 0 {
		s.invalidateListing(ctx)
	}

	s.log.InfoContext(ctx, "bulk update finished",
		slog.String("actor_id", actorID),
		slog.Int("success", res.Success),
		slog.Int("failed", res.Failed),
	)
	return res, nil
}

func (s *Service) updateOne(ctx context.Context, actorID, raw string, input UpdateInput) error {
	id, err := uuid.Parse(raw)
	if err != nil {
		return domain.NewValidationError("topicId", "must be a valid uuid")
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		topic, err := s.topics.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		details := map[string]any{}
		if input.Status != nil {
			status := domain.ArticleStatus(*input.Status)
			if err := s.topics.SetArticleStatus(txCtx, topic.Slug, status); err != nil {
				return fmt.Errorf("set article status: %w", err)
			}
			details["status"] = status.String()
		}
		if input.Tags != nil {
			tags := mergeTags(topic.Tags, input.Tags.Add, input.Tags.Remove)
			if err := s.topics.UpdateTags(txCtx, topic.ID, tags); err != nil {
				return fmt.Errorf("update tags: %w", err)
			}
			details["tags"] = tags
		}

		entityID := topic.Slug
		if err := s.audit.Log(txCtx, domain.AuditEntry{
			ActorID:    actorID,
			Action:     domain.AuditActionBulkUpdate,
			EntityType: domain.EntityTypeTopic,
			EntityID:   &entityID,
			Details:    details,
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}
		return nil
	})
}

// mergeTags applies additions then removals, deduplicating while keeping
// the stored order for tags that survive.
func mergeTags(current, add, remove []string) []string {
	merged := make([]string, 0, len(current)+len(add))
	seen := make(map[string]struct{}, len(current)+len(add))
	for _, tag := range current {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}
	for _, tag := range add {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}

	out := merged[:0]
	for _, tag := range merged {
		if slices.Contains(remove, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}
