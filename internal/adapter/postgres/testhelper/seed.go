package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedTopic creates a topic row with a unique slug and no children.
// Returns a filled domain.Topic.
func SeedTopic(t *testing.T, pool *pgxpool.Pool) domain.Topic {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	topic := domain.Topic{
		ID:        uuid.New(),
		Slug:      "topic-" + suffix,
		Title:     "Topic " + suffix,
		Locale:    "en",
		Tags:      []string{"seeded"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO topics (id, slug, title, locale, tags, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		topic.ID, topic.Slug, topic.Title, topic.Locale, topic.Tags, topic.CreatedAt, topic.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTopic insert topic: %v", err)
	}

	return topic
}

// SeedAggregate creates a topic with a primary question, a published article
// and two FAQ items. Returns the fully populated aggregate.
func SeedAggregate(t *testing.T, pool *pgxpool.Pool) domain.TopicAggregate {
	t.Helper()
	ctx := context.Background()

	topic := SeedTopic(t, pool)
	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)

	question := domain.Question{
		ID:        uuid.New(),
		TopicID:   topic.ID,
		Text:      "What is " + suffix + "?",
		IsPrimary: true,
	}
	_, err := pool.Exec(ctx,
		`INSERT INTO questions (id, topic_id, text, is_primary) VALUES ($1, $2, $3, $4)`,
		question.ID, question.TopicID, question.Text, question.IsPrimary,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAggregate insert question: %v", err)
	}

	article := domain.Article{
		ID:        uuid.New(),
		TopicID:   topic.ID,
		Content:   "Article body " + suffix,
		Status:    domain.ArticleStatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO articles (id, topic_id, content, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		article.ID, article.TopicID, article.Content, string(article.Status), article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAggregate insert article: %v", err)
	}

	items := make([]domain.FAQItem, 2)
	for i := range items {
		item := domain.FAQItem{
			ID:        uuid.New(),
			TopicID:   topic.ID,
			Question:  "FAQ question " + suffix + "-" + string(rune('A'+i)),
			Answer:    "FAQ answer " + suffix + "-" + string(rune('A'+i)),
			Order:     i,
			CreatedAt: now,
		}
		_, err := pool.Exec(ctx,
			`INSERT INTO faq_items (id, topic_id, question, answer, ord, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.TopicID, item.Question, item.Answer, item.Order, item.CreatedAt,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedAggregate insert faq_item[%d]: %v", i, err)
		}
		items[i] = item
	}

	return domain.TopicAggregate{
		Topic:           topic,
		PrimaryQuestion: &question,
		Article:         &article,
		FAQItems:        items,
	}
}
