package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"shortlink/internal/domain"
)

// URLCache is a mock implementation of cache.URLCache
type URLCache struct {
	mock.Mock
}

// Get retrieves a cached record by short code
func (m *URLCache) Get(ctx context.Context, code string) (*domain.URLRecord, bool) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.URLRecord), args.Bool(1)
}

// Set stores a record with the given TTL
func (m *URLCache) Set(ctx context.Context, code string, record *domain.URLRecord, ttl time.Duration) error {
	args := m.Called(ctx, code, record, ttl)
	return args.Error(0)
}

// Delete removes a cached record
func (m *URLCache) Delete(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// Close closes the cache connection (if applicable)
func (m *URLCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
