package audit

import (
	"context"
	"log/slog"
	"time"
)

// Purge deletes entries older than the retention horizon and returns the
// number removed. This is the only path that deletes audit records.
func (s *Service) Purge(ctx context.Context) (int64, error) {
	before := time.Now().UTC().Add(-s.retention)

	deleted, err := s.repo.Purge(ctx, before)
	if err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "audit retention sweep finished",
		slog.Time("before", before),
		slog.Int64("deleted", deleted),
	)
	return deleted, nil
}
