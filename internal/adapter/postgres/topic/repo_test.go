package topic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/mlevkov/faqpress-backend/internal/adapter/postgres/testutil"
	"github.com/mlevkov/faqpress-backend/internal/domain"
)

var topicCols = []string{"id", "slug", "title", "locale", "tags", "created_at", "updated_at"}

var pgconnUniqueViolation = pgconn.PgError{Code: "23505", Message: "duplicate key"}

func TestRepo_GetBySlug(t *testing.T) {
	topicID := uuid.New()
	now := time.Now()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
		check   func(t *testing.T, got *domain.Topic)
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(topicCols).
					AddRow(topicID, "how-to-pay", "How to pay", "en", []string{"billing"}, now, now)
				mock.ExpectQuery(`SELECT`).
					WithArgs("how-to-pay").
					WillReturnRows(rows)
			},
			check: func(t *testing.T, got *domain.Topic) {
				if got.ID != topicID {
					t.Errorf("GetBySlug() id = %v, want %v", got.ID, topicID)
				}
				if got.Title != "How to pay" {
					t.Errorf("GetBySlug() title = %q, want %q", got.Title, "How to pay")
				}
				if len(got.Tags) != 1 || got.Tags[0] != "billing" {
					t.Errorf("GetBySlug() tags = %v, want [billing]", got.Tags)
				}
			},
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT`).
					WithArgs("how-to-pay").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier, mock := testutil.NewMockQuerier(t)
			repo := New(querier)
			tt.setup(mock)

			got, err := repo.GetBySlug(context.Background(), "how-to-pay")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GetBySlug() error = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("GetBySlug() unexpected error: %v", err)
				}
				tt.check(t, got)
			}

			testutil.ExpectationsWereMet(t, mock)
		})
	}
}

func TestRepo_Upsert_ReturnsStoredRow(t *testing.T) {
	storedID := uuid.New()
	inputID := uuid.New()
	created := time.Now().Add(-time.Hour)
	updated := time.Now()

	querier, mock := testutil.NewMockQuerier(t)
	repo := New(querier)

	// On slug conflict the database keeps the original ID and CreatedAt.
	rows := pgxmock.NewRows(topicCols).
		AddRow(storedID, "how-to-pay", "New title", "en", []string{}, created, updated)
	mock.ExpectQuery(`INSERT INTO topics`).
		WithArgs(inputID, "how-to-pay", "New title", "en", []string{}).
		WillReturnRows(rows)

	got, err := repo.Upsert(context.Background(), &domain.Topic{
		ID:     inputID,
		Slug:   "how-to-pay",
		Title:  "New title",
		Locale: "en",
	})
	if err != nil {
		t.Fatalf("Upsert() unexpected error: %v", err)
	}
	if got.ID != storedID {
		t.Errorf("Upsert() id = %v, want stored id %v", got.ID, storedID)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("Upsert() created_at = %v, want %v", got.CreatedAt, created)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_Create_SlugTaken(t *testing.T) {
	querier, mock := testutil.NewMockQuerier(t)
	repo := New(querier)

	mock.ExpectQuery(`INSERT INTO topics`).
		WithArgs(pgxmock.AnyArg(), "how-to-pay", "How to pay", "en", []string{}).
		WillReturnError(&pgconnUniqueViolation)

	_, err := repo.Create(context.Background(), &domain.Topic{
		ID:     uuid.New(),
		Slug:   "how-to-pay",
		Title:  "How to pay",
		Locale: "en",
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("Create() error = %v, want ErrAlreadyExists", err)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_DeleteBySlug(t *testing.T) {
	tests := []struct {
		name        string
		result      pgconn.CommandTag
		wantDeleted bool
	}{
		{"existing topic", pgxmock.NewResult("DELETE", 1), true},
		{"absent topic", pgxmock.NewResult("DELETE", 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier, mock := testutil.NewMockQuerier(t)
			repo := New(querier)

			mock.ExpectExec(`DELETE FROM topics`).
				WithArgs("old-topic").
				WillReturnResult(tt.result)

			deleted, err := repo.DeleteBySlug(context.Background(), "old-topic")
			if err != nil {
				t.Fatalf("DeleteBySlug() unexpected error: %v", err)
			}
			if deleted != tt.wantDeleted {
				t.Errorf("DeleteBySlug() = %v, want %v", deleted, tt.wantDeleted)
			}

			testutil.ExpectationsWereMet(t, mock)
		})
	}
}

func TestRepo_ReplaceFAQItems_DeleteThenInsertInOrder(t *testing.T) {
	topicID := uuid.New()
	querier, mock := testutil.NewMockQuerier(t)
	repo := New(querier)

	mock.ExpectExec(`DELETE FROM faq_items`).
		WithArgs(topicID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`INSERT INTO faq_items`).
		WithArgs(pgxmock.AnyArg(), topicID, "Q1", "A1", 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO faq_items`).
		WithArgs(pgxmock.AnyArg(), topicID, "Q2", "A2", 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.ReplaceFAQItems(context.Background(), topicID, []domain.FAQItem{
		{Question: "Q1", Answer: "A1", Order: 0},
		{Question: "Q2", Answer: "A2", Order: 0},
	})
	if err != nil {
		t.Fatalf("ReplaceFAQItems() unexpected error: %v", err)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_ReplaceQuestion_NilClearsOnly(t *testing.T) {
	topicID := uuid.New()
	querier, mock := testutil.NewMockQuerier(t)
	repo := New(querier)

	mock.ExpectExec(`DELETE FROM questions`).
		WithArgs(topicID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.ReplaceQuestion(context.Background(), topicID, nil); err != nil {
		t.Fatalf("ReplaceQuestion(nil) unexpected error: %v", err)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_SetArticleStatus_NoArticle(t *testing.T) {
	querier, mock := testutil.NewMockQuerier(t)
	repo := New(querier)

	mock.ExpectExec(`UPDATE articles`).
		WithArgs("no-article", "PUBLISHED").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetArticleStatus(context.Background(), "no-article", domain.ArticleStatusPublished)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("SetArticleStatus() error = %v, want ErrNotFound", err)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_GetAggregate_ClearedTopic(t *testing.T) {
	topicID := uuid.New()
	now := time.Now()

	querier, mock := testutil.NewMockQuerier(t)
	repo := New(querier)

	mock.ExpectQuery(`SELECT`).
		WithArgs("cleared-topic").
		WillReturnRows(pgxmock.NewRows(topicCols).
			AddRow(topicID, "cleared-topic", "Cleared", "en", []string{}, now, now))
	mock.ExpectQuery(`SELECT`).
		WithArgs(topicID).
		WillReturnError(pgx.ErrNoRows) // no primary question
	mock.ExpectQuery(`SELECT`).
		WithArgs(topicID).
		WillReturnError(pgx.ErrNoRows) // no article
	mock.ExpectQuery(`SELECT`).
		WithArgs(topicID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "topic_id", "question", "answer", "ord", "position", "created_at"}))

	agg, err := repo.GetAggregate(context.Background(), "cleared-topic")
	if err != nil {
		t.Fatalf("GetAggregate() unexpected error: %v", err)
	}
	if !agg.IsCleared() {
		t.Error("GetAggregate() aggregate should report cleared")
	}

	testutil.ExpectationsWereMet(t, mock)
}
