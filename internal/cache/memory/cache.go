package memory

import (
	"context"
	"sync"
	"time"

	"shortlink/internal/cache"
	"shortlink/internal/domain"
)

const defaultCleanupInterval = time.Minute

type entry struct {
	record    domain.URLRecord
	expiresAt time.Time
}

// Cache implements cache.URLCache using an in-memory map with per-entry TTLs
type Cache struct {
	data     map[string]entry
	mutex    sync.RWMutex
	stopChan chan struct{}
	stopOnce sync.Once
}

// New creates a new in-memory cache and starts its expiry janitor
func New() *Cache {
	c := &Cache{
		data:     make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	go c.janitor(defaultCleanupInterval)
	return c
}

// Get retrieves a cached record by short code. Entries past their TTL are
// treated as absent and removed lazily.
func (c *Cache) Get(ctx context.Context, code string) (*domain.URLRecord, bool) {
	c.mutex.RLock()
	e, exists := c.data[code]
	c.mutex.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		c.mutex.Lock()
		delete(c.data, code)
		c.mutex.Unlock()
		return nil, false
	}

	// Return a copy to prevent external modification
	record := e.record
	return &record, true
}

// Set stores a record with the given TTL
func (c *Cache) Set(ctx context.Context, code string, record *domain.URLRecord, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[code] = entry{
		record:    *record,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a cached record
func (c *Cache) Delete(ctx context.Context, code string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, code)
	return nil
}

// Len returns the number of entries currently held, including any not yet
// collected by the janitor
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.data)
}

// Close stops the expiry janitor
func (c *Cache) Close() error {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
	return nil
}

// janitor periodically evicts expired entries
func (c *Cache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Cache) evictExpired() {
	now := time.Now()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	for code, e := range c.data {
		if now.After(e.expiresAt) {
			delete(c.data, code)
		}
	}
}

// Ensure Cache implements the interface
var _ cache.URLCache = (*Cache)(nil)
