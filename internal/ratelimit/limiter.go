// Package ratelimit implements token-bucket admission control keyed by
// (client identifier, endpoint class). Capacity refills continuously at
// MaxTokens per Window; each admitted request consumes one token.
package ratelimit

import (
	"sync"
	"time"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

// Class describes the bucket parameters of one endpoint class.
type Class struct {
	Name      string
	MaxTokens float64
	Window    time.Duration
}

// Default endpoint classes.
var (
	ClassAuth    = Class{Name: "auth", MaxTokens: 5, Window: 15 * time.Minute}
	ClassUpload  = Class{Name: "upload", MaxTokens: 10, Window: time.Minute}
	ClassGeneral = Class{Name: "general", MaxTokens: 100, Window: time.Minute}
	ClassStrict  = Class{Name: "strict", MaxTokens: 3, Window: 5 * time.Minute}
)

// Limiter applies token-bucket math over a Store. One Limiter serves all
// endpoint classes; buckets are keyed by class name plus client identifier.
type Limiter struct {
	mu    sync.Mutex // serializes read-modify-write of a bucket
	store Store
	stop  chan struct{}
	now   func() time.Time
}

// NewLimiter creates a Limiter over the given store.
func NewLimiter(store Store) *Limiter {
	return &Limiter{
		store: store,
		stop:  make(chan struct{}),
		now:   time.Now,
	}
}

// Allow admits or rejects one request for the client under the class.
// On rejection the returned error is a *domain.RateLimitError carrying
// how long the client must wait for one token.
func (l *Limiter) Allow(clientID string, class Class) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := class.Name + ":" + clientID
	now := l.now()
	refillPerSec := class.MaxTokens / class.Window.Seconds()

	b, ok := l.store.Get(key)
	if !ok {
		b = Bucket{Tokens: class.MaxTokens, LastRefill: now}
	} else {
		elapsed := now.Sub(b.LastRefill).Seconds()
		b.Tokens += elapsed * refillPerSec
		if b.Tokens > class.MaxTokens {
			b.Tokens = class.MaxTokens
		}
		b.LastRefill = now
	}

	if b.Tokens >= 1 {
		b.Tokens--
		l.store.Put(key, b)
		return nil
	}

	l.store.Put(key, b)
	wait := time.Duration((1 - b.Tokens) / refillPerSec * float64(time.Second))
	return &domain.RateLimitError{RetryAfter: wait}
}

// StartSweeper launches a background goroutine that periodically removes
// buckets untouched for maxIdle, bounding memory. Call Stop on shutdown.
func (l *Limiter) StartSweeper(interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-l.stop:
				return
			case <-ticker.C:
				l.store.DeleteIdle(l.now().Add(-maxIdle))
			}
		}
	}()
}

// Stop terminates the sweeper goroutine.
func (l *Limiter) Stop() {
	close(l.stop)
}
