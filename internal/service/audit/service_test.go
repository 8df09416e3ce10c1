package audit

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

type repoMock struct {
	CreateFunc func(ctx context.Context, entry *domain.AuditEntry) error
	ListFunc   func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error)
	PurgeFunc  func(ctx context.Context, before time.Time) (int64, error)

	entries []domain.AuditEntry
}

func (m *repoMock) Create(ctx context.Context, entry *domain.AuditEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *repoMock) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	if m.ListFunc == nil {
		panic("repoMock.ListFunc is nil")
	}
	return m.ListFunc(ctx, filter)
}

func (m *repoMock) Purge(ctx context.Context, before time.Time) (int64, error) {
	if m.PurgeFunc == nil {
		panic("repoMock.PurgeFunc is nil")
	}
	return m.PurgeFunc(ctx, before)
}

func newTestService(repo *repoMock) *Service {
	return NewService(slog.Default(), repo, 0, 0)
}

func sampleEntry() domain.AuditEntry {
	slug := "faq-1"
	return domain.AuditEntry{
		ActorID:    "operator-1",
		Action:     domain.AuditActionIngest,
		EntityType: domain.EntityTypeTopic,
		EntityID:   &slug,
		Details:    map[string]any{"cleared": false},
	}
}

func TestLog_Appends(t *testing.T) {
	t.Parallel()

	repo := &repoMock{}
	svc := newTestService(repo)

	if err := svc.Log(context.Background(), sampleEntry()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	if repo.entries[0].ID == uuid.Nil {
		t.Error("entry should be assigned an id")
	}
}

func TestLog_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*domain.AuditEntry)
	}{
		{"missing actor", func(e *domain.AuditEntry) { e.ActorID = "" }},
		{"unknown action", func(e *domain.AuditEntry) { e.Action = "SHRED" }},
		{"unknown entity type", func(e *domain.AuditEntry) { e.EntityType = "COMMENT" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &repoMock{}
			svc := newTestService(repo)

			entry := sampleEntry()
			tt.mutate(&entry)

			err := svc.Log(context.Background(), entry)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
			if len(repo.entries) != 0 {
				t.Error("invalid entry must not be stored")
			}
		})
	}
}

func TestList_DefaultsAndCaps(t *testing.T) {
	t.Parallel()

	var gotFilter domain.AuditFilter
	repo := &repoMock{
		ListFunc: func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
			gotFilter = filter
			return []domain.AuditEntry{}, nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.List(context.Background(), domain.AuditFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFilter.Limit != defaultListLimit {
		t.Errorf("default limit = %d, want %d", gotFilter.Limit, defaultListLimit)
	}

	if _, err := svc.List(context.Background(), domain.AuditFilter{Limit: 9999, Offset: -3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFilter.Limit != maxListLimit {
		t.Errorf("capped limit = %d, want %d", gotFilter.Limit, maxListLimit)
	}
	if gotFilter.Offset != 0 {
		t.Errorf("offset = %d, want 0", gotFilter.Offset)
	}
}

func TestList_InvertedDateRange(t *testing.T) {
	t.Parallel()

	svc := newTestService(&repoMock{})

	from := time.Now()
	to := from.Add(-time.Hour)
	_, err := svc.List(context.Background(), domain.AuditFilter{From: &from, To: &to})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestExportCSV_WritesHeaderAndRows(t *testing.T) {
	t.Parallel()

	slug := "faq-1"
	ip := "203.0.113.9"
	stored := []domain.AuditEntry{
		{
			ID:         uuid.New(),
			ActorID:    "operator-1",
			Action:     domain.AuditActionIngest,
			EntityType: domain.EntityTypeTopic,
			EntityID:   &slug,
			Details:    map[string]any{"cleared": true},
			IPAddress:  &ip,
			CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	served := false
	repo := &repoMock{
		ListFunc: func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
			if served {
				return nil, nil
			}
			served = true
			return stored, nil
		},
	}
	svc := newTestService(repo)

	var buf bytes.Buffer
	n, err := svc.ExportCSV(context.Background(), &buf, domain.AuditFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("rows written = %d, want 1", n)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header + 1 row", len(records))
	}
	if records[0][0] != "id" || records[0][8] != "created_at" {
		t.Errorf("unexpected header: %v", records[0])
	}
	row := records[1]
	if row[1] != "operator-1" || row[2] != "INGEST" || row[4] != "faq-1" {
		t.Errorf("unexpected row: %v", row)
	}
	if row[5] != `{"cleared":true}` {
		t.Errorf("details = %q", row[5])
	}
	if row[8] != "2025-06-01T12:00:00Z" {
		t.Errorf("created_at = %q", row[8])
	}
}

func TestExportCSV_CapsRows(t *testing.T) {
	t.Parallel()

	entry := sampleEntry()
	repo := &repoMock{
		ListFunc: func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
			page := make([]domain.AuditEntry, filter.Limit)
			for i := range page {
				page[i] = entry
			}
			return page, nil
		},
	}
	svc := NewService(slog.Default(), repo, 0, 7)

	var buf bytes.Buffer
	n, err := svc.ExportCSV(context.Background(), &buf, domain.AuditFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("rows written = %d, want 7", n)
	}
}

func TestExportCSV_PinsWindowAcrossPages(t *testing.T) {
	t.Parallel()

	// Entries appended while an export pages through the log must not
	// shift rows between pages, so every List call has to carry the same
	// upper bound fixed at the start of the export.
	entry := sampleEntry()
	var bounds []*time.Time
	repo := &repoMock{
		ListFunc: func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
			bounds = append(bounds, filter.To)
			page := make([]domain.AuditEntry, filter.Limit)
			for i := range page {
				page[i] = entry
			}
			return page, nil
		},
	}
	svc := NewService(slog.Default(), repo, 0, 2*maxListLimit)

	start := time.Now()
	var buf bytes.Buffer
	if _, err := svc.ExportCSV(context.Background(), &buf, domain.AuditFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bounds) < 2 {
		t.Fatalf("pages = %d, want at least 2", len(bounds))
	}
	if bounds[0] == nil {
		t.Fatal("window end should be pinned when the caller leaves it open")
	}
	if bounds[0].Before(start) || bounds[0].After(time.Now()) {
		t.Errorf("window end = %v, want pinned near export start", bounds[0])
	}
	for i, to := range bounds[1:] {
		if to == nil || !to.Equal(*bounds[0]) {
			t.Errorf("page %d bound = %v, want %v", i+1, to, bounds[0])
		}
	}
}

func TestExportCSV_KeepsCallerWindow(t *testing.T) {
	t.Parallel()

	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var gotTo *time.Time
	repo := &repoMock{
		ListFunc: func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
			gotTo = filter.To
			return nil, nil
		},
	}
	svc := newTestService(repo)

	var buf bytes.Buffer
	if _, err := svc.ExportCSV(context.Background(), &buf, domain.AuditFilter{To: &to}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTo == nil || !gotTo.Equal(to) {
		t.Errorf("window end = %v, want the caller's %v", gotTo, to)
	}
}

func TestPurge_UsesRetentionHorizon(t *testing.T) {
	t.Parallel()

	var gotBefore time.Time
	repo := &repoMock{
		PurgeFunc: func(ctx context.Context, before time.Time) (int64, error) {
			gotBefore = before
			return 42, nil
		},
	}
	svc := NewService(slog.Default(), repo, 30*24*time.Hour, 0)

	deleted, err := svc.Purge(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 42 {
		t.Errorf("deleted = %d, want 42", deleted)
	}

	wantBefore := time.Now().UTC().Add(-30 * 24 * time.Hour)
	if diff := gotBefore.Sub(wantBefore); diff < -time.Minute || diff > time.Minute {
		t.Errorf("horizon = %v, want about %v", gotBefore, wantBefore)
	}
}
