// Package cache keeps categorized item snapshots for a bounded time window so
// several readers can be served from one retrieval cycle. Entries are
// copied on the way in and out; callers can never reach the stored records.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/deusflow/digest/internal/news"
)

// DefaultTTL is the snapshot window used when none is configured.
const DefaultTTL = 30 * time.Minute

type entry struct {
	items     []news.Categorized
	storedAt  time.Time
	expiresAt time.Time
}

// Cache stores categorized snapshots by key.
type Cache struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

// New returns a Cache whose entries live for ttl.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		items: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Set stores a copy of items under key and drops expired entries.
func (c *Cache) Set(key string, items []news.Categorized) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.cleanup(now)
	c.items[key] = entry{
		items:     cloneAll(items),
		storedAt:  now,
		expiresAt: now.Add(c.ttl),
	}
}

// Get returns a copy of the snapshot under key and the time it was stored.
func (c *Cache) Get(key string) ([]news.Categorized, time.Time, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists || !c.now().Before(item.expiresAt) {
		return nil, time.Time{}, false
	}
	return cloneAll(item.items), item.storedAt, true
}

// Invalidate drops every snapshot.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
}

// Len returns the number of live snapshots.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	n := 0
	for _, item := range c.items {
		if now.Before(item.expiresAt) {
			n++
		}
	}
	return n
}

// GenerateKey derives a stable key from parts, e.g. the configured feed URLs.
func GenerateKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) cleanup(now time.Time) {
	for key, item := range c.items {
		if !now.Before(item.expiresAt) {
			delete(c.items, key)
		}
	}
}

func cloneAll(items []news.Categorized) []news.Categorized {
	if items == nil {
		return nil
	}
	out := make([]news.Categorized, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
