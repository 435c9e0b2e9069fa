package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"shortlink/internal/repository"
)

// upsertTimeout bounds each replica write against the local store
const upsertTimeout = 5 * time.Second

// Replicator applies creation events to a local read-optimized store. It is
// an optimization for redirect-serving instances; the resolve path never
// depends on it for correctness.
type Replicator struct {
	repo repository.URLRepository
}

// NewReplicator creates a replicator writing into the given repository
func NewReplicator(repo repository.URLRepository) *Replicator {
	return &Replicator{repo: repo}
}

// Handle decodes a raw event payload and upserts the record locally.
// Malformed or already-expired events are logged and skipped.
func (r *Replicator) Handle(data []byte) {
	var event URLCreated
	if err := json.Unmarshal(data, &event); err != nil {
		log.Printf("[ERROR] Failed to decode creation event: %v", err)
		return
	}

	if event.Code == "" || event.LongURL == "" {
		log.Printf("[ERROR] Ignoring incomplete creation event: %+v", event)
		return
	}

	if !time.Now().Before(event.ExpiresAt) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), upsertTimeout)
	defer cancel()

	if err := r.repo.Upsert(ctx, event.Record()); err != nil {
		log.Printf("[ERROR] Failed to apply creation event for %s: %v", event.Code, err)
	}
}

// Start subscribes the replicator to the bus
func (r *Replicator) Start(bus *Bus) error {
	_, err := bus.Subscribe(r.Handle)
	return err
}
