package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

var (
	_ topicRepo   = &topicRepoMock{}
	_ jobRepo     = &jobRepoMock{}
	_ auditLogger = &auditLoggerMock{}
	_ txManager   = &txManagerMock{}
	_ invalidator = &invalidatorMock{}
)

type topicRepoMock struct {
	GetBySlugFunc       func(ctx context.Context, slug string) (*domain.Topic, error)
	GetAggregateFunc    func(ctx context.Context, slug string) (*domain.TopicAggregate, error)
	CreateFunc          func(ctx context.Context, topic *domain.Topic) (*domain.Topic, error)
	UpsertFunc          func(ctx context.Context, topic *domain.Topic) (*domain.Topic, error)
	UpdateTagsFunc      func(ctx context.Context, topicID uuid.UUID, tags []string) error
	ReplaceQuestionFunc func(ctx context.Context, topicID uuid.UUID, question *domain.Question) error
	ReplaceArticleFunc  func(ctx context.Context, topicID uuid.UUID, article *domain.Article) error
	ReplaceFAQItemsFunc func(ctx context.Context, topicID uuid.UUID, items []domain.FAQItem) error
}

func (m *topicRepoMock) GetBySlug(ctx context.Context, slug string) (*domain.Topic, error) {
	if m.GetBySlugFunc == nil {
		panic("topicRepoMock.GetBySlugFunc is nil")
	}
	return m.GetBySlugFunc(ctx, slug)
}

func (m *topicRepoMock) GetAggregate(ctx context.Context, slug string) (*domain.TopicAggregate, error) {
	if m.GetAggregateFunc == nil {
		panic("topicRepoMock.GetAggregateFunc is nil")
	}
	return m.GetAggregateFunc(ctx, slug)
}

func (m *topicRepoMock) Create(ctx context.Context, topic *domain.Topic) (*domain.Topic, error) {
	if m.CreateFunc == nil {
		panic("topicRepoMock.CreateFunc is nil")
	}
	return m.CreateFunc(ctx, topic)
}

func (m *topicRepoMock) Upsert(ctx context.Context, topic *domain.Topic) (*domain.Topic, error) {
	if m.UpsertFunc == nil {
		panic("topicRepoMock.UpsertFunc is nil")
	}
	return m.UpsertFunc(ctx, topic)
}

func (m *topicRepoMock) UpdateTags(ctx context.Context, topicID uuid.UUID, tags []string) error {
	if m.UpdateTagsFunc == nil {
		panic("topicRepoMock.UpdateTagsFunc is nil")
	}
	return m.UpdateTagsFunc(ctx, topicID, tags)
}

func (m *topicRepoMock) ReplaceQuestion(ctx context.Context, topicID uuid.UUID, question *domain.Question) error {
	if m.ReplaceQuestionFunc == nil {
		panic("topicRepoMock.ReplaceQuestionFunc is nil")
	}
	return m.ReplaceQuestionFunc(ctx, topicID, question)
}

func (m *topicRepoMock) ReplaceArticle(ctx context.Context, topicID uuid.UUID, article *domain.Article) error {
	if m.ReplaceArticleFunc == nil {
		panic("topicRepoMock.ReplaceArticleFunc is nil")
	}
	return m.ReplaceArticleFunc(ctx, topicID, article)
}

func (m *topicRepoMock) ReplaceFAQItems(ctx context.Context, topicID uuid.UUID, items []domain.FAQItem) error {
	if m.ReplaceFAQItemsFunc == nil {
		panic("topicRepoMock.ReplaceFAQItemsFunc is nil")
	}
	return m.ReplaceFAQItemsFunc(ctx, topicID, items)
}

type jobRepoMock struct {
	CreateFunc     func(ctx context.Context, job *domain.IngestJob) error
	ListBySlugFunc func(ctx context.Context, slug string, limit int) ([]domain.IngestJob, error)

	jobs []domain.IngestJob
}

func (m *jobRepoMock) ListBySlug(ctx context.Context, slug string, limit int) ([]domain.IngestJob, error) {
	if m.ListBySlugFunc != nil {
		return m.ListBySlugFunc(ctx, slug, limit)
	}
	var out []domain.IngestJob
	for _, job := range m.jobs {
		if job.TopicSlug == slug {
			out = append(out, job)
		}
	}
	return out, nil
}

func (m *jobRepoMock) Create(ctx context.Context, job *domain.IngestJob) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, job)
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	m.jobs = append(m.jobs, *job)
	return nil
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
