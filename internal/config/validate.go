package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	secrets, err := ParseWebhookSecrets(c.Webhook.SecretsRaw)
	if err != nil {
		return fmt.Errorf("webhook.secrets: %w", err)
	}
	c.Webhook.Secrets = secrets

	if c.Webhook.MaxSkew <= 0 {
		return fmt.Errorf("webhook.max_skew must be > 0 (got %v)", c.Webhook.MaxSkew)
	}

	if err := c.RateLimit.validate(); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}

	if c.Audit.RetentionDays <= 0 {
		return fmt.Errorf("audit.retention_days must be > 0 (got %d)", c.Audit.RetentionDays)
	}
	if c.Audit.ExportMaxRows <= 0 {
		return fmt.Errorf("audit.export_max_rows must be > 0 (got %d)", c.Audit.ExportMaxRows)
	}
	if c.Bulk.MaxItems <= 0 {
		return fmt.Errorf("bulk.max_items must be > 0 (got %d)", c.Bulk.MaxItems)
	}

	return nil
}

func (r *RateLimitConfig) validate() error {
	classes := []struct {
		name   string
		max    float64
		window float64
	}{
		{"upload", r.UploadMax, r.UploadWindow.Seconds()},
		{"general", r.GeneralMax, r.GeneralWindow.Seconds()},
		{"strict", r.StrictMax, r.StrictWindow.Seconds()},
	}
	for _, c := range classes {
		if c.max < 1 {
			return fmt.Errorf("%s_max must be >= 1 (got %v)", c.name, c.max)
		}
		if c.window <= 0 {
			return fmt.Errorf("%s_window must be > 0", c.name)
		}
	}
	return nil
}

// ParseWebhookSecrets parses a comma-separated list of api-key:secret pairs
// (e.g. "site-1:abc,site-2:def") into a map. Every key and secret must be
// non-empty.
func ParseWebhookSecrets(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("at least one api-key:secret pair is required")
	}

	secrets := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, secret, ok := strings.Cut(pair, ":")
		if !ok || key == "" || secret == "" {
			return nil, fmt.Errorf("malformed pair %q, want key:secret", pair)
		}
		if _, dup := secrets[key]; dup {
			return nil, fmt.Errorf("duplicate api key %q", key)
		}
		secrets[key] = secret
	}
	if len(secrets) == 0 {
		return nil, fmt.Errorf("at least one api-key:secret pair is required")
	}
	return secrets, nil
}
