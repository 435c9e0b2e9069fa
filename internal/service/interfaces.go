package service

import (
	"context"

	"shortlink/internal/domain"
)

// URLShortener defines the interface for URL shortening operations
type URLShortener interface {
	// Create creates a short URL for the given long URL, reusing any live
	// record that already maps it (idempotent create)
	Create(ctx context.Context, longURL string) (*domain.URLRecord, error)

	// Resolve returns the long URL for a short code and schedules click
	// accounting asynchronously
	Resolve(ctx context.Context, code string) (string, error)

	// Analytics retrieves the authoritative record for a short code
	Analytics(ctx context.Context, code string) (*domain.URLRecord, error)

	// List retrieves all live records
	List(ctx context.Context) ([]*domain.URLRecord, error)

	// Delete removes a short URL from both store and cache
	Delete(ctx context.Context, code string) error

	// Close closes the service and its dependencies
	Close() error
}
