package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Webhook    WebhookConfig    `yaml:"webhook"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Revalidate RevalidateConfig `yaml:"revalidate"`
	Audit      AuditConfig      `yaml:"audit"`
	Bulk       BulkConfig       `yaml:"bulk"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Auth       AuthConfig       `yaml:"auth"`
	CORS       CORSConfig       `yaml:"cors"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// WebhookConfig holds the shared secrets for HMAC request authentication.
// SecretsRaw is a comma-separated list of api-key:secret pairs so collaborator
// credentials can be rotated independently.
type WebhookConfig struct {
	SecretsRaw string        `yaml:"secrets"  env:"WEBHOOK_SECRETS"  env-required:"true"`
	MaxSkew    time.Duration `yaml:"max_skew" env:"WEBHOOK_MAX_SKEW" env-default:"5m"`

	// Secrets is parsed from SecretsRaw during validation.
	Secrets map[string]string `yaml:"-" env:"-"`
}

// RateLimitConfig holds per-class rate limit settings and sweeper tuning.
type RateLimitConfig struct {
	UploadMax     float64       `yaml:"upload_max"     env:"RATELIMIT_UPLOAD_MAX"     env-default:"10"`
	UploadWindow  time.Duration `yaml:"upload_window"  env:"RATELIMIT_UPLOAD_WINDOW"  env-default:"1m"`
	GeneralMax    float64       `yaml:"general_max"    env:"RATELIMIT_GENERAL_MAX"    env-default:"100"`
	GeneralWindow time.Duration `yaml:"general_window" env:"RATELIMIT_GENERAL_WINDOW" env-default:"1m"`
	StrictMax     float64       `yaml:"strict_max"     env:"RATELIMIT_STRICT_MAX"     env-default:"3"`
	StrictWindow  time.Duration `yaml:"strict_window"  env:"RATELIMIT_STRICT_WINDOW"  env-default:"5m"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"RATELIMIT_SWEEP_INTERVAL" env-default:"1h"`
	BucketMaxIdle time.Duration `yaml:"bucket_max_idle" env:"RATELIMIT_BUCKET_MAX_IDLE" env-default:"24h"`
}

// RevalidateConfig holds settings for the cache invalidation push client.
type RevalidateConfig struct {
	Endpoint   string        `yaml:"endpoint"    env:"REVALIDATE_ENDPOINT"    env-required:"true"`
	Token      string        `yaml:"token"       env:"REVALIDATE_TOKEN"       env-required:"true"`
	Timeout    time.Duration `yaml:"timeout"     env:"REVALIDATE_TIMEOUT"     env-default:"5s"`
	MaxRetries uint64        `yaml:"max_retries" env:"REVALIDATE_MAX_RETRIES" env-default:"3"`
}

// AuditConfig holds audit trail retention and export settings.
type AuditConfig struct {
	RetentionDays int `yaml:"retention_days"  env:"AUDIT_RETENTION_DAYS"  env-default:"365"`
	ExportMaxRows int `yaml:"export_max_rows" env:"AUDIT_EXPORT_MAX_ROWS" env-default:"10000"`
}

// BulkConfig holds batch operation limits.
type BulkConfig struct {
	MaxItems int `yaml:"max_items" env:"BULK_MAX_ITEMS" env-default:"100"`
}

// IngestConfig holds content ingestion settings.
type IngestConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"INGEST_TIMEOUT" env-default:"10s"`
}

// AuthConfig holds bearer token settings for operator endpoints.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"faqpress"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// CORSConfig holds CORS settings for the admin frontend.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Retention returns the audit retention horizon as a duration.
func (c AuditConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}
