// Package ingestjob implements the append-only ingestion job log repository.
package ingestjob

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mlevkov/faqpress-backend/internal/adapter/postgres"
	"github.com/mlevkov/faqpress-backend/internal/domain"
)

// Repo provides ingest job persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new ingest job repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const insertSQL = `
INSERT INTO ingest_jobs (id, topic_slug, outcome, error_detail, created_at)
VALUES ($1, $2, $3, $4, now())
RETURNING created_at`

const listBySlugSQL = `
SELECT id, topic_slug, outcome, error_detail, created_at
FROM ingest_jobs
WHERE topic_slug = $1
ORDER BY created_at DESC
LIMIT $2`

// Create appends one job record. Rows are immutable once written; failed
// ingestions get a record too, which is why callers write jobs outside the
// data transaction.
func (r *Repo) Create(ctx context.Context, job *domain.IngestJob) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	err := q.QueryRow(ctx, insertSQL,
		job.ID, job.TopicSlug, string(job.Outcome), job.ErrorDetail,
	).Scan(&job.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "ingest_job", job.TopicSlug)
	}
	return nil
}

// ListBySlug returns the most recent jobs for a topic, newest first.
func (r *Repo) ListBySlug(ctx context.Context, slug string, limit int) ([]domain.IngestJob, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if limit <= 0 {
		limit = 20
	}

	rows, err := q.Query(ctx, listBySlugSQL, slug, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingest jobs: %w", err)
	}
	defer rows.Close()

	jobs := []domain.IngestJob{}
	for rows.Next() {
		var job domain.IngestJob
		var outcome string
		if err := rows.Scan(&job.ID, &job.TopicSlug, &outcome, &job.ErrorDetail, &job.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ingest job: %w", err)
		}
		job.Outcome = domain.JobOutcome(outcome)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ingest jobs: %w", err)
	}

	return jobs, nil
}
