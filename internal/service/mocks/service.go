package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"shortlink/internal/domain"
)

// URLShortener is a mock implementation of service.URLShortener
type URLShortener struct {
	mock.Mock
}

// Create creates a short URL for the given long URL
func (m *URLShortener) Create(ctx context.Context, longURL string) (*domain.URLRecord, error) {
	args := m.Called(ctx, longURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLRecord), args.Error(1)
}

// Resolve returns the long URL for a short code
func (m *URLShortener) Resolve(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

// Analytics retrieves the authoritative record for a short code
func (m *URLShortener) Analytics(ctx context.Context, code string) (*domain.URLRecord, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLRecord), args.Error(1)
}

// List retrieves all live records
func (m *URLShortener) List(ctx context.Context) ([]*domain.URLRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.URLRecord), args.Error(1)
}

// Delete removes a short URL from both store and cache
func (m *URLShortener) Delete(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// Close closes the service and its dependencies
func (m *URLShortener) Close() error {
	args := m.Called()
	return args.Error(0)
}
