// Package cache keeps recently loaded datasets in memory for a fixed time.
package cache

import (
	"sync"
	"time"

	"acju-prayer-times/internal/model"
)

// Entry is a cached document with the time it was loaded.
type Entry struct {
	Document  model.Document
	FetchedAt time.Time
}

// Cache maps a store key to its last loaded document.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates a cache whose entries expire after ttl. A zero ttl disables
// caching.
func New(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now, entries: make(map[string]Entry)}
}

// Get returns the document cached under key if it has not expired.
func (c *Cache) Get(key string) (model.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.FetchedAt) >= c.ttl {
		return model.Document{}, false
	}
	return entry.Document, true
}

// Set stores a document under key.
func (c *Cache) Set(key string, doc model.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{Document: doc, FetchedAt: c.now()}
}
