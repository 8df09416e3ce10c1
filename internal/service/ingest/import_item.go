package ingest

import "context"

// ImportItem runs one batch-import item through the ingest transaction.
// In create mode the topic row is inserted instead of upserted, so a slug
// taken by a concurrent write surfaces as domain.ErrAlreadyExists rather
// than being silently replaced. No cache tags are pushed here; the batch
// caller coalesces invalidation across its items.
func (s *Service) ImportItem(ctx context.Context, input IngestInput, insertOnly bool) (*IngestResult, error) {
	return s.write(ctx, input, insertOnly)
}
