package audit

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

var exportHeader = []string{
	"id", "actor_id", "action", "entity_type", "entity_id",
	"details", "ip_address", "user_agent", "created_at",
}

// ExportCSV streams matching entries to w as CSV, newest first, capped at
// the configured maximum row count. Returns the number of rows written.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, filter domain.AuditFilter) (int, error) {
	if err := validateFilter(filter); err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	// Pin the window end before paging. The repo's To bound is exclusive,
	// so rows appended while the export runs fall outside the window and
	// cannot shift entries across offset pages.
	if filter.To == nil {
		now := time.Now().UTC()
		filter.To = &now
	}

	written := 0
	filter.Limit = maxListLimit
	for written < s.exportMaxRows {
		if remaining := s.exportMaxRows - written; remaining < filter.Limit {
			filter.Limit = remaining
		}

		entries, err := s.repo.List(ctx, filter)
		if err != nil {
			return written, err
		}
		if len(entries) == 0 {
			break
		}

		for _, e := range entries {
			if err := cw.Write(exportRow(e)); err != nil {
				return written, fmt.Errorf("write csv row: %w", err)
			}
			written++
		}
		filter.Offset += len(entries)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, fmt.Errorf("flush csv: %w", err)
	}
	return written, nil
}

func exportRow(e domain.AuditEntry) []string {
	details := ""
	if len(e.Details) > 0 {
		if raw, err := json.Marshal(e.Details); err == nil {
			details = string(raw)
		}
	}
	return []string{
		e.ID.String(),
		e.ActorID,
		e.Action.String(),
		e.EntityType.String(),
		strDeref(e.EntityID),
		details,
		strDeref(e.IPAddress),
		strDeref(e.UserAgent),
		e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ExportFilename suggests a timestamped attachment name for a CSV download.
func ExportFilename(now time.Time) string {
	return "audit-export-" + strconv.FormatInt(now.Unix(), 10) + ".csv"
}
