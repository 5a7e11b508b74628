// Package cache is the short-lived result store keyed by identified subject,
// avoiding repeated evidence fetches for the same painting.
package cache

import (
	"sync"
	"time"

	"github.com/sabitsky/hearitage/internal/model"
	"github.com/sabitsky/hearitage/internal/textnorm"
)

// DefaultTTL is applied when the configured TTL is non-positive.
const DefaultTTL = 6 * time.Hour

type entry struct {
	result   model.VerificationResult
	storedAt time.Time
}

// ResultCache stores verification results under normalized "title|creator"
// keys. Expired entries are treated as absent and lazily overwritten rather
// than eagerly evicted. Constructed once at process start and handed to the
// pipeline by reference.
type ResultCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// New creates a result cache with the given TTL.
func New(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// WithNow sets the clock, for testing.
func (c *ResultCache) WithNow(now func() time.Time) *ResultCache {
	c.now = now
	return c
}

// Get returns the cached verification result for a subject, if present and
// fresh.
func (c *ResultCache) Get(title, creator string) (model.VerificationResult, bool) {
	key := textnorm.CacheKey(title, creator)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		return model.VerificationResult{}, false
	}
	return e.result, true
}

// Put stores the verification result for a subject, overwriting any prior
// entry.
func (c *ResultCache) Put(title, creator string, result model.VerificationResult) {
	key := textnorm.CacheKey(title, creator)

	c.mu.Lock()
	c.entries[key] = entry{result: result, storedAt: c.now()}
	c.mu.Unlock()
}

// Len counts stored entries, fresh or expired.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
