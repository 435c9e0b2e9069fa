package cache

import (
	"context"
	"time"

	"shortlink/internal/domain"
)

// URLCache defines the interface for caching URL records. The cache is a
// latency optimization only: a miss (or a failing backend) always falls back
// to the durable store, so implementations report errors on the read path as
// misses rather than failing the caller.
type URLCache interface {
	// Get retrieves a cached record by short code
	Get(ctx context.Context, code string) (*domain.URLRecord, bool)

	// Set stores a record with the given TTL
	Set(ctx context.Context, code string, record *domain.URLRecord, ttl time.Duration) error

	// Delete removes a cached record
	Delete(ctx context.Context, code string) error

	// Close closes the cache connection (if applicable)
	Close() error
}
