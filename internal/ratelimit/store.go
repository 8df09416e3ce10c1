package ratelimit

import (
	"sync"
	"time"
)

// Bucket is the refillable token state for one (client, class) pair.
type Bucket struct {
	Tokens     float64
	LastRefill time.Time
}

// Store holds buckets by key. The in-memory implementation below is the
// default; a shared/distributed store can be swapped in without touching
// the token math in Limiter.
type Store interface {
	Get(key string) (Bucket, bool)
	Put(key string, b Bucket)
	// DeleteIdle removes buckets whose last refill is before cutoff and
	// returns how many were removed.
	DeleteIdle(cutoff time.Time) int
}

// MemoryStore is a process-local bucket store. State is lost on restart,
// which resets all limits; in a multi-instance deployment each instance
// counts independently.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]Bucket
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]Bucket)}
}

func (s *MemoryStore) Get(key string) (Bucket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[key]
	return b, ok
}

func (s *MemoryStore) Put(key string, b Bucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[key] = b
}

func (s *MemoryStore) DeleteIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, b := range s.buckets {
		if b.LastRefill.Before(cutoff) {
			delete(s.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored buckets.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
