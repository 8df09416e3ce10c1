// Package revalidate pushes cache-tag invalidations to the site frontend.
// The frontend owns the tag-keyed read cache; this client only signals
// which tags went stale. It is always called after the data transaction
// has committed, never before.
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config holds the revalidation endpoint settings.
type Config struct {
	Endpoint    string
	BearerToken string
	Timeout     time.Duration
	MaxRetries  uint64
}

// Client invalidates cache tags over HTTP. Failures are retryable and
// non-fatal: the caller logs and continues, relying on cache TTLs as a
// backstop.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client.
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "revalidate"),
	}
}

type invalidateRequest struct {
	Tags []string `json:"tags"`
}

// Invalidate signals the frontend that the given tags are stale. Retries
// transient failures with exponential backoff; a 4xx response is treated
// as permanent (misconfiguration) and not retried.
func (c *Client) Invalidate(ctx context.Context, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	payload, err := json.Marshal(invalidateRequest{Tags: tags})
	if err != nil {
		return fmt.Errorf("revalidate: marshal request: %w", err)
	}

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.BearerToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}
		defer func() {
			io.Copy(io.Discard, resp.Body) //nolint:errcheck
			resp.Body.Close()
		}()

		switch {
		case resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		default:
			return fmt.Errorf("status %d", resp.StatusCode)
		}
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.MaxRetries),
		ctx,
	)

	if err := backoff.Retry(op, bo); err != nil {
		return fmt.Errorf("revalidate: invalidate %v: %w", tags, err)
	}

	c.log.DebugContext(ctx, "tags invalidated", slog.Any("tags", tags))
	return nil
}
