package ingest

import (
	"strconv"
	"strings"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

// QuestionInput is the topic's primary question.
type QuestionInput struct {
	Text string
}

// ArticleInput is the topic's body text and publication status.
type ArticleInput struct {
	Content string
	Status  string
}

// FAQItemInput is one FAQ entry. Order need not be contiguous; ties keep
// input order.
type FAQItemInput struct {
	Question string
	Answer   string
	Order    int
}

// IngestInput is the full topic aggregate as delivered by the webhook.
// Nil Question/Article and an empty FAQItems list clear the corresponding
// children (delete via empty payload).
type IngestInput struct {
	Slug     string
	Title    string
	Locale   string
	Tags     []string
	Question *QuestionInput
	Article  *ArticleInput
	FAQItems []FAQItemInput
}

// Validate checks all fields and collects all errors.
func (i IngestInput) Validate() error {
	var errs []domain.FieldError

	if !domain.ValidSlug(i.Slug) {
		errs = append(errs, domain.FieldError{Field: "slug", Message: "must be lowercase alphanumeric with single hyphens"})
	}
	if strings.TrimSpace(i.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if strings.TrimSpace(i.Locale) == "" {
		errs = append(errs, domain.FieldError{Field: "locale", Message: "required"})
	}

	if i.Question != nil && strings.TrimSpace(i.Question.Text) == "" {
		errs = append(errs, domain.FieldError{Field: "mainQuestion.text", Message: "required"})
	}

	if i.Article != nil {
		if strings.TrimSpace(i.Article.Content) == "" {
			errs = append(errs, domain.FieldError{Field: "article.content", Message: "required"})
		}
		if !domain.ArticleStatus(i.Article.Status).IsValid() {
			errs = append(errs, domain.FieldError{Field: "article.status", Message: "must be DRAFT or PUBLISHED"})
		}
	}

	for idx, item := range i.FAQItems {
		prefix := "faqItems[" + strconv.Itoa(idx) + "]."
		if strings.TrimSpace(item.Question) == "" {
			errs = append(errs, domain.FieldError{Field: prefix + "question", Message: "required"})
		}
		if strings.TrimSpace(item.Answer) == "" {
			errs = append(errs, domain.FieldError{Field: prefix + "answer", Message: "required"})
		}
		if item.Order < 0 {
			errs = append(errs, domain.FieldError{Field: prefix + "order", Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// isEmpty reports whether the payload carries no content, which means the
// ingest clears the topic's children.
func (i IngestInput) isEmpty() bool {
	return i.Question == nil && i.Article == nil && len(i.FAQItems) == 0
}
