package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"shortlink/internal/domain"
)

// URLRepository is a mock implementation of repository.URLRepository
type URLRepository struct {
	mock.Mock
}

// Insert stores a new record
func (m *URLRepository) Insert(ctx context.Context, record *domain.URLRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// FindByCode retrieves a record by its short code
func (m *URLRepository) FindByCode(ctx context.Context, code string) (*domain.URLRecord, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLRecord), args.Error(1)
}

// FindByLongURL retrieves a record by its long URL
func (m *URLRepository) FindByLongURL(ctx context.Context, longURL string) (*domain.URLRecord, error) {
	args := m.Called(ctx, longURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLRecord), args.Error(1)
}

// List retrieves all records ordered by creation date (desc)
func (m *URLRepository) List(ctx context.Context) ([]*domain.URLRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.URLRecord), args.Error(1)
}

// IncrementClicks atomically increments the click counter for a code
func (m *URLRepository) IncrementClicks(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// Upsert inserts or replaces the redirect-relevant fields of a record
func (m *URLRepository) Upsert(ctx context.Context, record *domain.URLRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// Delete removes a record by its short code
func (m *URLRepository) Delete(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// Close closes the repository connection
func (m *URLRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}
