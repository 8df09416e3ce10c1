package domain

// ArticleStatus represents the publication state of a topic's article.
// Only PUBLISHED articles are publicly visible.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "DRAFT"
	ArticleStatusPublished ArticleStatus = "PUBLISHED"
)

func (s ArticleStatus) String() string { return string(s) }

func (s ArticleStatus) IsValid() bool {
	switch s {
	case ArticleStatusDraft, ArticleStatusPublished:
		return true
	}
	return false
}

// JobOutcome represents the terminal state of an ingestion attempt.
type JobOutcome string

const (
	JobOutcomeSuccess JobOutcome = "SUCCESS"
	JobOutcomeFailure JobOutcome = "FAILURE"
)

func (o JobOutcome) String() string { return string(o) }

func (o JobOutcome) IsValid() bool {
	switch o {
	case JobOutcomeSuccess, JobOutcomeFailure:
		return true
	}
	return false
}

// AuditAction represents the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionIngest      AuditAction = "INGEST"
	AuditActionDelete      AuditAction = "DELETE"
	AuditActionBulkUpdate  AuditAction = "BULK_UPDATE"
	AuditActionBulkDelete  AuditAction = "BULK_DELETE"
	AuditActionImport      AuditAction = "IMPORT"
	AuditActionRevalidate  AuditAction = "REVALIDATE"
	AuditActionAuthFailure AuditAction = "AUTH_FAILURE"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionIngest, AuditActionDelete, AuditActionBulkUpdate,
		AuditActionBulkDelete, AuditActionImport, AuditActionRevalidate,
		AuditActionAuthFailure:
		return true
	}
	return false
}

// EntityType identifies the kind of entity an audit record refers to.
type EntityType string

const (
	EntityTypeTopic    EntityType = "TOPIC"
	EntityTypeCacheTag EntityType = "CACHE_TAG"
	EntityTypeWebhook  EntityType = "WEBHOOK"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeTopic, EntityTypeCacheTag, EntityTypeWebhook:
		return true
	}
	return false
}

// ImportMode controls how a bulk import treats existing slugs.
type ImportMode string

const (
	ImportModeCreate ImportMode = "create"
	ImportModeUpsert ImportMode = "upsert"
)

func (m ImportMode) String() string { return string(m) }

func (m ImportMode) IsValid() bool {
	switch m {
	case ImportModeCreate, ImportModeUpsert:
		return true
	}
	return false
}

// Role represents the authorization level of an operator account.
type Role string

const (
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleEditor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
