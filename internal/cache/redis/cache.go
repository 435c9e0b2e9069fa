package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"shortlink/internal/cache"
	"shortlink/internal/domain"
)

// keyPrefix namespaces URL entries within the Redis keyspace
const keyPrefix = "url:"

// Cache implements cache.URLCache backed by Redis
type Cache struct {
	client *redis.Client
}

// New creates a new Redis cache and verifies connectivity
func New(addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &Cache{client: client}, nil
}

// Get retrieves a cached record by short code. Backend errors are logged and
// reported as misses so the caller falls through to the durable store.
func (c *Cache) Get(ctx context.Context, code string) (*domain.URLRecord, bool) {
	data, err := c.client.Get(ctx, keyPrefix+code).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[ERROR] Redis get failed for %s: %v", code, err)
		}
		return nil, false
	}

	var record domain.URLRecord
	if err := json.Unmarshal(data, &record); err != nil {
		log.Printf("[ERROR] Failed to decode cached record for %s: %v", code, err)
		// Drop the poisoned entry so the next miss repopulates it
		if err := c.Delete(ctx, code); err != nil {
			log.Printf("[ERROR] Failed to drop bad cache entry for %s: %v", code, err)
		}
		return nil, false
	}

	return &record, true
}

// Set stores a record with the given TTL
func (c *Cache) Set(ctx context.Context, code string, record *domain.URLRecord, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record for cache: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+code, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache record: %w", err)
	}

	return nil
}

// Delete removes a cached record
func (c *Cache) Delete(ctx context.Context, code string) error {
	if err := c.client.Del(ctx, keyPrefix+code).Err(); err != nil {
		return fmt.Errorf("failed to delete cached record: %w", err)
	}
	return nil
}

// Close closes the cache connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ensure Cache implements the interface
var _ cache.URLCache = (*Cache)(nil)
