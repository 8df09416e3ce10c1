package domain

import (
	"time"

	"github.com/google/uuid"
)

// Topic is the root of a content aggregate. Slug is the immutable business key;
// all writes go through the ingestion service as a full-replace upsert.
type Topic struct {
	ID        uuid.UUID
	Slug      string
	Title     string
	Locale    string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Question belongs to exactly one topic. At most one question per topic
// has IsPrimary set; that question is the topic's displayed question.
type Question struct {
	ID        uuid.UUID
	TopicID   uuid.UUID
	Text      string
	IsPrimary bool
	CreatedAt time.Time
}

// Article is a topic's body text. A topic has at most one article.
type Article struct {
	ID        uuid.UUID
	TopicID   uuid.UUID
	Content   string
	Status    ArticleStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FAQItem is one entry of a topic's FAQ list. Ordering is by ascending Order,
// ties broken by Position (insertion order). Order values need not be contiguous.
type FAQItem struct {
	ID        uuid.UUID
	TopicID   uuid.UUID
	Question  string
	Answer    string
	Order     int
	Position  int
	CreatedAt time.Time
}

// TopicAggregate is the topic plus its owned children, treated as one unit
// of consistency. PrimaryQuestion and Article are nil when the topic has
// been cleared (the soft-delete placeholder state).
type TopicAggregate struct {
	Topic           Topic
	PrimaryQuestion *Question
	Article         *Article
	FAQItems        []FAQItem
}

// IsCleared reports whether the aggregate is an empty placeholder:
// no primary question, no article, no FAQ items.
func (a *TopicAggregate) IsCleared() bool {
	return a.PrimaryQuestion == nil && a.Article == nil && len(a.FAQItems) == 0
}

// IngestJob records one ingestion attempt. Rows are never mutated after
// being written.
type IngestJob struct {
	ID          uuid.UUID
	TopicSlug   string
	Outcome     JobOutcome
	ErrorDetail *string
	CreatedAt   time.Time
}

// AuditEntry is one append-only audit log record. ActorID is the webhook
// api-key id or the operator user id; EntityID is a slug or a UUID string
// depending on EntityType.
type AuditEntry struct {
	ID         uuid.UUID
	ActorID    string
	Action     AuditAction
	EntityType EntityType
	EntityID   *string
	Details    map[string]any
	IPAddress  *string
	UserAgent  *string
	CreatedAt  time.Time
}

// AuditFilter narrows audit log queries. Nil fields match everything.
type AuditFilter struct {
	ActorID    *string
	Action     *AuditAction
	EntityType *EntityType
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}
