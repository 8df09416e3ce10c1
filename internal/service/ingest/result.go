package ingest

import "github.com/google/uuid"

// IngestResult identifies what one successful ingestion produced.
type IngestResult struct {
	TopicID uuid.UUID
	JobID   uuid.UUID
}
