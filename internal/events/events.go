package events

import (
	"context"
	"time"

	"shortlink/internal/domain"
)

// URLCreated is the creation event fanned out to redirect-serving replicas.
// It carries only redirect-relevant fields; click counts are local to each
// instance's store.
type URLCreated struct {
	Code      string    `json:"code"`
	LongURL   string    `json:"longUrl"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// FromRecord builds the event for a newly created record
func FromRecord(record *domain.URLRecord) *URLCreated {
	return &URLCreated{
		Code:      record.Code,
		LongURL:   record.LongURL,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}
}

// Record converts the event back into a record for the local store. Clicks
// start at zero; counters are never replicated.
func (e *URLCreated) Record() *domain.URLRecord {
	return &domain.URLRecord{
		Code:      e.Code,
		LongURL:   e.LongURL,
		CreatedAt: e.CreatedAt,
		ExpiresAt: e.ExpiresAt,
	}
}

// Publisher publishes creation events. Delivery is best-effort at-most-once:
// a lost event only costs a replica a store round trip on its next miss.
type Publisher interface {
	// Publish sends a creation event
	Publish(ctx context.Context, event *URLCreated) error

	// Close closes the underlying connection
	Close() error
}
