package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"shortlink/internal/cache"
	"shortlink/internal/clicks"
	"shortlink/internal/domain"
	"shortlink/internal/events"
	"shortlink/internal/repository"
	"shortlink/internal/shortener"
)

// Options holds the policy knobs for the shortener service
type Options struct {
	BaseURL           string        // public base URL for building short URLs
	ExpirationHorizon time.Duration // lifetime of new records
	CacheTTLCeiling   time.Duration // upper bound for any cache entry TTL
	InsertRetries     int           // attempts before giving up on code collisions
}

// urlShortener implements URLShortener. Reads follow the cache-aside
// pattern: the cache is consulted first and repopulated from the store on a
// miss. The store stays authoritative; the cache only buys latency.
type urlShortener struct {
	repo      repository.URLRepository
	cache     cache.URLCache
	generator shortener.Generator
	recorder  clicks.Recorder
	publisher events.Publisher // nil when event propagation is disabled
	opts      Options
}

// NewURLShortener creates a new URL shortener service. publisher may be nil.
func NewURLShortener(repo repository.URLRepository, cache cache.URLCache, generator shortener.Generator, recorder clicks.Recorder, publisher events.Publisher, opts Options) URLShortener {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	return &urlShortener{
		repo:      repo,
		cache:     cache,
		generator: generator,
		recorder:  recorder,
		publisher: publisher,
		opts:      opts,
	}
}

// Create creates a short URL for the given long URL
func (s *urlShortener) Create(ctx context.Context, longURL string) (*domain.URLRecord, error) {
	if err := validateLongURL(longURL); err != nil {
		return nil, err
	}

	// Idempotent create: an existing live record for the same long URL is
	// reused instead of minting a second code.
	existing, err := s.repo.FindByLongURL(ctx, longURL)
	if err == nil && !existing.Expired(time.Now()) {
		s.populateCache(ctx, existing)
		return s.withShortURL(existing), nil
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up existing URL: %w", err)
	}

	record, err := s.insertWithRetries(ctx, longURL)
	if err != nil {
		return nil, err
	}

	s.populateCache(ctx, record)
	s.publishCreated(ctx, record)
	urlsCreated.Inc()

	return s.withShortURL(record), nil
}

// insertWithRetries mints codes until the store accepts one. Collisions are
// retried a bounded number of times; exhausting them means the code space is
// too small for the write volume, which is a configuration error worth
// failing loudly on.
func (s *urlShortener) insertWithRetries(ctx context.Context, longURL string) (*domain.URLRecord, error) {
	now := time.Now().UTC()

	for attempt := 0; attempt < s.opts.InsertRetries; attempt++ {
		code, err := s.generator.GenerateCode(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate short code: %w", err)
		}

		record := &domain.URLRecord{
			Code:      code,
			LongURL:   longURL,
			Clicks:    0,
			CreatedAt: now,
			ExpiresAt: now.Add(s.opts.ExpirationHorizon),
		}

		err = s.repo.Insert(ctx, record)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, domain.ErrCodeConflict) {
			return nil, fmt.Errorf("failed to create URL: %w", err)
		}

		log.Printf("Warning: short code collision on %q, regenerating (attempt %d/%d)", code, attempt+1, s.opts.InsertRetries)
	}

	return nil, fmt.Errorf("exhausted %d attempts to allocate a unique short code; code length is likely too small for the current volume", s.opts.InsertRetries)
}

// Resolve returns the long URL for a short code
func (s *urlShortener) Resolve(ctx context.Context, code string) (string, error) {
	// Cache entries are written with a TTL no longer than the record's
	// remaining lifetime, so presence implies freshness.
	if record, ok := s.cache.Get(ctx, code); ok {
		cacheHits.Inc()
		resolvesTotal.WithLabelValues("hit").Inc()
		s.recorder.Record(code)
		return record.LongURL, nil
	}
	cacheMisses.Inc()

	record, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			resolvesTotal.WithLabelValues("not_found").Inc()
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("failed to look up short code: %w", err)
	}

	if record.Expired(time.Now()) {
		s.purge(ctx, code)
		resolvesTotal.WithLabelValues("expired").Inc()
		return "", domain.ErrNotFound
	}

	s.populateCache(ctx, record)
	resolvesTotal.WithLabelValues("miss").Inc()
	s.recorder.Record(code)

	return record.LongURL, nil
}

// Analytics retrieves the authoritative record for a short code
func (s *urlShortener) Analytics(ctx context.Context, code string) (*domain.URLRecord, error) {
	record, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up short code: %w", err)
	}

	if record.Expired(time.Now()) {
		s.purge(ctx, code)
		return nil, domain.ErrNotFound
	}

	return s.withShortURL(record), nil
}

// List retrieves all live records
func (s *urlShortener) List(ctx context.Context) ([]*domain.URLRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}

	now := time.Now()
	live := make([]*domain.URLRecord, 0, len(records))
	for _, record := range records {
		if record.Expired(now) {
			continue
		}
		live = append(live, s.withShortURL(record))
	}

	return live, nil
}

// Delete removes a short URL from both store and cache
func (s *urlShortener) Delete(ctx context.Context, code string) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to delete URL: %w", err)
	}

	if err := s.cache.Delete(ctx, code); err != nil {
		log.Printf("Warning: failed to invalidate cache for %s: %v", code, err)
	}

	return nil
}

// Close closes the service and its dependencies
func (s *urlShortener) Close() error {
	if err := s.recorder.Close(); err != nil {
		return fmt.Errorf("failed to close click recorder: %w", err)
	}
	if err := s.generator.Close(); err != nil {
		return fmt.Errorf("failed to close generator: %w", err)
	}
	if err := s.cache.Close(); err != nil {
		return fmt.Errorf("failed to close cache: %w", err)
	}
	if err := s.repo.Close(); err != nil {
		return fmt.Errorf("failed to close repository: %w", err)
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return fmt.Errorf("failed to close event publisher: %w", err)
		}
	}
	return nil
}

// purge removes an expired record from the store and cache together
func (s *urlShortener) purge(ctx context.Context, code string) {
	if err := s.repo.Delete(ctx, code); err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Printf("Warning: failed to purge expired record %s: %v", code, err)
	}
	if err := s.cache.Delete(ctx, code); err != nil {
		log.Printf("Warning: failed to invalidate cache for expired record %s: %v", code, err)
	}
}

// populateCache writes the record into the cache with a TTL capped by both
// the record's remaining lifetime and the configured ceiling. Cache failures
// are logged, never surfaced.
func (s *urlShortener) populateCache(ctx context.Context, record *domain.URLRecord) {
	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return
	}
	if ttl > s.opts.CacheTTLCeiling {
		ttl = s.opts.CacheTTLCeiling
	}

	if err := s.cache.Set(ctx, record.Code, record, ttl); err != nil {
		log.Printf("Warning: failed to cache entry %s: %v", record.Code, err)
	}
}

// publishCreated fans the new record out to replicas, best effort
func (s *urlShortener) publishCreated(ctx context.Context, record *domain.URLRecord) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, events.FromRecord(record)); err != nil {
		log.Printf("Warning: failed to publish creation event for %s: %v", record.Code, err)
	}
}

// withShortURL returns a copy of the record with the derived short URL set
func (s *urlShortener) withShortURL(record *domain.URLRecord) *domain.URLRecord {
	out := *record
	out.ShortURL = s.opts.BaseURL + "/" + record.Code
	return &out
}

// validateLongURL accepts absolute HTTP and HTTPS URLs only
func validateLongURL(longURL string) error {
	parsed, err := url.ParseRequestURI(longURL)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: only HTTP and HTTPS are supported", domain.ErrInvalidURL)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%w: missing host", domain.ErrInvalidURL)
	}

	return nil
}

// Ensure urlShortener implements URLShortener interface
var _ URLShortener = (*urlShortener)(nil)
