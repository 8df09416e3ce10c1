package audit

import (
	"context"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

// List returns audit entries matching the filter, newest first. The page
// size defaults to 50 and is capped at 500.
func (s *Service) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.repo.List(ctx, filter)
}

func validateFilter(filter domain.AuditFilter) error {
	var errs []domain.FieldError

	if filter.Action != nil && !filter.Action.IsValid() {
		errs = append(errs, domain.FieldError{Field: "action", Message: "unknown action"})
	}
	if filter.EntityType != nil && !filter.EntityType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "entityType", Message: "unknown entity type"})
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		errs = append(errs, domain.FieldError{Field: "to", Message: "must not precede from"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
