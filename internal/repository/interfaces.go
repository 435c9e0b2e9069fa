package repository

import (
	"context"

	"shortlink/internal/domain"
)

// URLRepository defines the interface for URL data operations. The store is
// the single source of truth for records and click counts.
type URLRepository interface {
	// Insert stores a new record. Returns domain.ErrCodeConflict when the
	// code is already taken (uniqueness is enforced by the store).
	Insert(ctx context.Context, record *domain.URLRecord) error

	// FindByCode retrieves a record by its short code. Returns
	// domain.ErrNotFound when no record exists.
	FindByCode(ctx context.Context, code string) (*domain.URLRecord, error)

	// FindByLongURL retrieves a record by its long URL. Returns
	// domain.ErrNotFound when no record exists.
	FindByLongURL(ctx context.Context, longURL string) (*domain.URLRecord, error)

	// List retrieves all records ordered by creation date (desc)
	List(ctx context.Context) ([]*domain.URLRecord, error)

	// IncrementClicks atomically increments the click counter for a code.
	// Returns domain.ErrNotFound when no record exists.
	IncrementClicks(ctx context.Context, code string) error

	// Upsert inserts or replaces the redirect-relevant fields of a record.
	// Used by replica instances applying creation events.
	Upsert(ctx context.Context, record *domain.URLRecord) error

	// Delete removes a record by its short code. Returns
	// domain.ErrNotFound when no record exists.
	Delete(ctx context.Context, code string) error

	// Close closes the repository connection
	Close() error
}
