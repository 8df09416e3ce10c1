// Package audit records and queries the append-only mutation trail. Writes
// go through Log; reads support filtered pagination and a capped CSV export;
// the retention purge is the only delete path.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

// Defaults applied when the configuration leaves them unset.
const (
	DefaultRetention     = 365 * 24 * time.Hour
	DefaultExportMaxRows = 10000
	defaultListLimit     = 50
	maxListLimit         = 500
)

type repo interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error)
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// Service provides audit trail operations.
type Service struct {
	repo          repo
	retention     time.Duration
	exportMaxRows int
	log           *slog.Logger
}

// NewService creates a new audit service. retention bounds the purge horizon
// and exportMaxRows caps CSV exports; zero values fall back to the defaults.
func NewService(log *slog.Logger, repo repo, retention time.Duration, exportMaxRows int) *Service {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if exportMaxRows <= 0 {
		exportMaxRows = DefaultExportMaxRows
	}
	return &Service{
		repo:          repo,
		retention:     retention,
		exportMaxRows: exportMaxRows,
		log:           log.With("service", "audit"),
	}
}

// Log appends one entry. Callers decide whether a failure here is fatal:
// mutations inside a transaction propagate the error and roll back, while
// security events log and continue.
func (s *Service) Log(ctx context.Context, entry domain.AuditEntry) error {
	if entry.ActorID == "" {
		return domain.NewValidationError("actorId", "required")
	}
	if !entry.Action.IsValid() {
		return domain.NewValidationError("action", "unknown action")
	}
	if !entry.EntityType.IsValid() {
		return domain.NewValidationError("entityType", "unknown entity type")
	}
	return s.repo.Create(ctx, &entry)
}

// LogSecurityEvent records an auth failure or similar security event.
// The response to the offending request must not depend on the audit
// store, so failures are logged and swallowed here.
func (s *Service) LogSecurityEvent(ctx context.Context, entry domain.AuditEntry) {
	if err := s.Log(context.WithoutCancel(ctx), entry); err != nil {
		s.log.ErrorContext(ctx, "failed to record security event",
			slog.String("action", entry.Action.String()),
			slog.Any("error", err),
		)
	}
}
