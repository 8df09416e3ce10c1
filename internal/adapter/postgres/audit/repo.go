// Package audit implements the append-only audit log repository.
// Entries are written inside the mutation's transaction and never updated;
// the only delete path is retention purging.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mlevkov/faqpress-backend/internal/adapter/postgres"
	"github.com/mlevkov/faqpress-backend/internal/domain"
)

// psql builds queries with PostgreSQL $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const insertSQL = `
INSERT INTO audit_log (id, actor_id, action, entity_type, entity_id, details, ip_address, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
RETURNING created_at`

const purgeSQL = `
DELETE FROM audit_log WHERE created_at < $1`

// Create appends one audit entry. Inside RunInTx the entry commits or rolls
// back together with the mutation it records.
func (r *Repo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	err = q.QueryRow(ctx, insertSQL,
		entry.ID, entry.ActorID, string(entry.Action), string(entry.EntityType),
		entry.EntityID, detailsJSON, entry.IPAddress, entry.UserAgent,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "audit_entry", entry.ActorID)
	}
	return nil
}

// List returns audit entries matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query := psql.
		Select("id", "actor_id", "action", "entity_type", "entity_id", "details", "ip_address", "user_agent", "created_at").
		From("audit_log").
		OrderBy("created_at DESC")

	if filter.ActorID != nil {
		query = query.Where(squirrel.Eq{"actor_id": *filter.ActorID})
	}
	if filter.Action != nil {
		query = query.Where(squirrel.Eq{"action": string(*filter.Action)})
	}
	if filter.EntityType != nil {
		query = query.Where(squirrel.Eq{"entity_type": string(*filter.EntityType)})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"created_at": *filter.To})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.AuditEntry{}
	for rows.Next() {
		var e domain.AuditEntry
		var action, entityType string
		var detailsJSON []byte
		if err := rows.Scan(&e.ID, &e.ActorID, &action, &entityType, &e.EntityID,
			&detailsJSON, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Action = domain.AuditAction(action)
		e.EntityType = domain.EntityType(entityType)
		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &e.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	return entries, nil
}

// Purge removes entries older than before and returns how many were deleted.
func (r *Repo) Purge(ctx context.Context, before time.Time) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, purgeSQL, before)
	if err != nil {
		return 0, fmt.Errorf("purge audit entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
