// Package topic implements the Topic aggregate repository using PostgreSQL.
// The aggregate root is the topics row; questions, articles and faq_items are
// owned children replaced wholesale during ingestion.
package topic

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mlevkov/faqpress-backend/internal/adapter/postgres"
	"github.com/mlevkov/faqpress-backend/internal/domain"
)

// Repo provides topic persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new topic repository. The querier is the fallback used
// outside transactions; inside RunInTx the context transaction wins.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// SQL
// ---------------------------------------------------------------------------

const topicColumns = `id, slug, title, locale, tags, created_at, updated_at`

const getBySlugSQL = `
SELECT ` + topicColumns + `
FROM topics
WHERE slug = $1`

const getByIDSQL = `
SELECT ` + topicColumns + `
FROM topics
WHERE id = $1`

const upsertSQL = `
INSERT INTO topics (id, slug, title, locale, tags, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (slug) DO UPDATE
SET title = EXCLUDED.title,
    locale = EXCLUDED.locale,
    tags = EXCLUDED.tags,
    updated_at = now()
RETURNING ` + topicColumns

const insertSQL = `
INSERT INTO topics (id, slug, title, locale, tags, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
RETURNING ` + topicColumns

const updateTagsSQL = `
UPDATE topics SET tags = $2, updated_at = now() WHERE id = $1`

const deleteBySlugSQL = `
DELETE FROM topics WHERE slug = $1`

const primaryQuestionSQL = `
SELECT id, topic_id, text, is_primary, created_at
FROM questions
WHERE topic_id = $1 AND is_primary`

const deleteQuestionsSQL = `
DELETE FROM questions WHERE topic_id = $1`

const insertQuestionSQL = `
INSERT INTO questions (id, topic_id, text, is_primary, created_at)
VALUES ($1, $2, $3, $4, now())`

const getArticleSQL = `
SELECT id, topic_id, content, status, created_at, updated_at
FROM articles
WHERE topic_id = $1`

const deleteArticleSQL = `
DELETE FROM articles WHERE topic_id = $1`

const insertArticleSQL = `
INSERT INTO articles (id, topic_id, content, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())`

const setArticleStatusSQL = `
UPDATE articles
SET status = $2, updated_at = now()
WHERE topic_id = (SELECT id FROM topics WHERE slug = $1)`

const listFAQItemsSQL = `
SELECT id, topic_id, question, answer, ord, position, created_at
FROM faq_items
WHERE topic_id = $1
ORDER BY ord, position`

const deleteFAQItemsSQL = `
DELETE FROM faq_items WHERE topic_id = $1`

const insertFAQItemSQL = `
INSERT INTO faq_items (id, topic_id, question, answer, ord, created_at)
VALUES ($1, $2, $3, $4, $5, now())`

// ---------------------------------------------------------------------------
// Topic root
// ---------------------------------------------------------------------------

// GetBySlug returns a topic by its business key.
// Returns domain.ErrNotFound if no topic has the slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Topic, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var t domain.Topic
	err := q.QueryRow(ctx, getBySlugSQL, slug).
		Scan(&t.ID, &t.Slug, &t.Title, &t.Locale, &t.Tags, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "topic", slug)
	}
	return &t, nil
}

// GetByID returns a topic by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var t domain.Topic
	err := q.QueryRow(ctx, getByIDSQL, id).
		Scan(&t.ID, &t.Slug, &t.Title, &t.Locale, &t.Tags, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "topic", id.String())
	}
	return &t, nil
}

// Upsert inserts the topic or, when the slug already exists, updates the
// existing row's title, locale and tags in place. The stored row is returned,
// so on conflict the caller gets the original ID and CreatedAt.
func (r *Repo) Upsert(ctx context.Context, topic *domain.Topic) (*domain.Topic, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var t domain.Topic
	err := q.QueryRow(ctx, upsertSQL,
		topic.ID, topic.Slug, topic.Title, topic.Locale, tagsOrEmpty(topic.Tags),
	).Scan(&t.ID, &t.Slug, &t.Title, &t.Locale, &t.Tags, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "topic", topic.Slug)
	}
	return &t, nil
}

// Create inserts the topic and fails with domain.ErrAlreadyExists when the
// slug is taken. Used by create-mode imports, where a clash is an error
// rather than an update.
func (r *Repo) Create(ctx context.Context, topic *domain.Topic) (*domain.Topic, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var t domain.Topic
	err := q.QueryRow(ctx, insertSQL,
		topic.ID, topic.Slug, topic.Title, topic.Locale, tagsOrEmpty(topic.Tags),
	).Scan(&t.ID, &t.Slug, &t.Title, &t.Locale, &t.Tags, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "topic", topic.Slug)
	}
	return &t, nil
}

// UpdateTags replaces the topic's tag list.
func (r *Repo) UpdateTags(ctx context.Context, topicID uuid.UUID, tags []string) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, updateTagsSQL, topicID, tagsOrEmpty(tags))
	if err != nil {
		return postgres.MapError(err, "topic", topicID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("topic %s: %w", topicID, domain.ErrNotFound)
	}
	return nil
}

// DeleteBySlug removes the topic and, via ON DELETE CASCADE, all its children.
// Deleting an absent slug is not an error; the caller decides whether absence
// matters.
func (r *Repo) DeleteBySlug(ctx context.Context, slug string) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, deleteBySlugSQL, slug)
	if err != nil {
		return false, postgres.MapError(err, "topic", slug)
	}
	return tag.RowsAffected() > 0, nil
}

// ---------------------------------------------------------------------------
// Aggregate read
// ---------------------------------------------------------------------------

// GetAggregate returns the topic with its primary question, article and FAQ
// items. Child pointers are nil (and FAQItems empty) for a cleared topic.
func (r *Repo) GetAggregate(ctx context.Context, slug string) (*domain.TopicAggregate, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	topic, err := r.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	agg := domain.TopicAggregate{Topic: *topic}

	var question domain.Question
	err = q.QueryRow(ctx, primaryQuestionSQL, topic.ID).
		Scan(&question.ID, &question.TopicID, &question.Text, &question.IsPrimary, &question.CreatedAt)
	switch {
	case err == nil:
		agg.PrimaryQuestion = &question
	case errors.Is(err, pgx.ErrNoRows):
		// cleared topics have no primary question
	default:
		return nil, postgres.MapError(err, "question", slug)
	}

	var article domain.Article
	var status string
	err = q.QueryRow(ctx, getArticleSQL, topic.ID).
		Scan(&article.ID, &article.TopicID, &article.Content, &status, &article.CreatedAt, &article.UpdatedAt)
	switch {
	case err == nil:
		article.Status = domain.ArticleStatus(status)
		agg.Article = &article
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, postgres.MapError(err, "article", slug)
	}

	rows, err := q.Query(ctx, listFAQItemsSQL, topic.ID)
	if err != nil {
		return nil, postgres.MapError(err, "faq_item", slug)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.FAQItem
		if err := rows.Scan(&item.ID, &item.TopicID, &item.Question, &item.Answer,
			&item.Order, &item.Position, &item.CreatedAt); err != nil {
			return nil, postgres.MapError(err, "faq_item", slug)
		}
		agg.FAQItems = append(agg.FAQItems, item)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "faq_item", slug)
	}

	return &agg, nil
}

// ---------------------------------------------------------------------------
// Child replacement (full-replace semantics inside the ingest transaction)
// ---------------------------------------------------------------------------

// ReplaceQuestion removes all of the topic's questions and, when question is
// non-nil, inserts it as the primary one.
func (r *Repo) ReplaceQuestion(ctx context.Context, topicID uuid.UUID, question *domain.Question) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, deleteQuestionsSQL, topicID); err != nil {
		return postgres.MapError(err, "question", topicID.String())
	}
	if question == nil {
		return nil
	}

	id := question.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	if _, err := q.Exec(ctx, insertQuestionSQL, id, topicID, question.Text, true); err != nil {
		return postgres.MapError(err, "question", topicID.String())
	}
	return nil
}

// ReplaceArticle removes the topic's article and, when article is non-nil,
// inserts the new one.
func (r *Repo) ReplaceArticle(ctx context.Context, topicID uuid.UUID, article *domain.Article) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, deleteArticleSQL, topicID); err != nil {
		return postgres.MapError(err, "article", topicID.String())
	}
	if article == nil {
		return nil
	}

	id := article.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	if _, err := q.Exec(ctx, insertArticleSQL, id, topicID, article.Content, string(article.Status)); err != nil {
		return postgres.MapError(err, "article", topicID.String())
	}
	return nil
}

// ReplaceFAQItems removes the topic's FAQ items and inserts the given ones in
// order. Position values come from the insert sequence, preserving input
// order as the tie-break for equal Order values.
func (r *Repo) ReplaceFAQItems(ctx context.Context, topicID uuid.UUID, items []domain.FAQItem) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, deleteFAQItemsSQL, topicID); err != nil {
		return postgres.MapError(err, "faq_item", topicID.String())
	}

	for _, item := range items {
		id := item.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := q.Exec(ctx, insertFAQItemSQL, id, topicID, item.Question, item.Answer, item.Order); err != nil {
			return postgres.MapError(err, "faq_item", topicID.String())
		}
	}
	return nil
}

// SetArticleStatus updates the publication status of the topic's article.
// Returns domain.ErrNotFound when the topic has no article (including when
// the topic itself is absent).
func (r *Repo) SetArticleStatus(ctx context.Context, slug string, status domain.ArticleStatus) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, setArticleStatusSQL, slug, string(status))
	if err != nil {
		return postgres.MapError(err, "article", slug)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("article %s: %w", slug, domain.ErrNotFound)
	}
	return nil
}

// tagsOrEmpty normalizes a nil tag slice to an empty array so the column
// never stores NULL.
func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
