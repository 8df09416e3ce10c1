package bulk

import (
	"context"

	"github.com/google/uuid"

	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/internal/service/ingest"
)

var (
	_ topicRepo   = &topicRepoMock{}
	_ ingester    = &ingesterMock{}
	_ auditLogger = &auditLoggerMock{}
	_ txManager   = &txManagerMock{}
	_ invalidator = &invalidatorMock{}
)

type topicRepoMock struct {
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Topic, error)
	DeleteBySlugFunc     func(ctx context.Context, slug string) (bool, error)
	SetArticleStatusFunc func(ctx context.Context, slug string, status domain.ArticleStatus) error
	UpdateTagsFunc       func(ctx context.Context, topicID uuid.UUID, tags []string) error
}

func (m *topicRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	if m.GetByIDFunc == nil {
		panic("topicRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *topicRepoMock) DeleteBySlug(ctx context.Context, slug string) (bool, error) {
	if m.DeleteBySlugFunc == nil {
		panic("topicRepoMock.DeleteBySlugFunc is nil")
	}
	return m.DeleteBySlugFunc(ctx, slug)
}

func (m *topicRepoMock) SetArticleStatus(ctx context.Context, slug string, status domain.ArticleStatus) error {
	if m.SetArticleStatusFunc == nil {
		panic("topicRepoMock.SetArticleStatusFunc is nil")
	}
	return m.SetArticleStatusFunc(ctx, slug, status)
}

func (m *topicRepoMock) UpdateTags(ctx context.Context, topicID uuid.UUID, tags []string) error {
	if m.UpdateTagsFunc == nil {
		panic("topicRepoMock.UpdateTagsFunc is nil")
	}
	return m.UpdateTagsFunc(ctx, topicID, tags)
}

type ingesterMock struct {
	ImportItemFunc func(ctx context.Context, input ingest.IngestInput, insertOnly bool) (*ingest.IngestResult, error)

	inputs      []ingest.IngestInput
	insertFlags []bool
}

func (m *ingesterMock) ImportItem(ctx context.Context, input ingest.IngestInput, insertOnly bool) (*ingest.IngestResult, error) {
	m.inputs = append(m.inputs, input)
	m.insertFlags = append(m.insertFlags, insertOnly)
	if m.ImportItemFunc != nil {
		return m.ImportItemFunc(ctx, input, insertOnly)
	}
	return &ingest.IngestResult{TopicID: uuid.New(), JobID: uuid.New()}, nil
}

type auditLoggerMock struct {
	LogFunc func(ctx context.Context, entry domain.AuditEntry) error

	entries []domain.AuditEntry
}

func (m *auditLoggerMock) Log(ctx context.Context, entry domain.AuditEntry) error {
	if m.LogFunc != nil {
		return m.LogFunc(ctx, entry)
	}
	m.entries = append(m.entries, entry)
	return nil
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

type invalidatorMock struct {
	InvalidateFunc func(ctx context.Context, tags []string) error

	calls [][]string
}

func (m *invalidatorMock) Invalidate(ctx context.Context, tags []string) error {
	m.calls = append(m.calls, tags)
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, tags)
	}
	return nil
}
