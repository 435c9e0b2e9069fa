package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Bus implements Publisher over a NATS subject and exposes the matching
// subscribe side for replica instances.
type Bus struct {
	conn    *nats.Conn
	subject string
}

// Connect establishes a NATS connection for the given subject
func Connect(url, subject string) (*Bus, error) {
	conn, err := nats.Connect(
		url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.PingInterval(20*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	return &Bus{conn: conn, subject: subject}, nil
}

// Publish sends a creation event
func (b *Bus) Publish(ctx context.Context, event *URLCreated) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := b.conn.Publish(b.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Subscribe registers a handler for raw event payloads on the bus subject
func (b *Bus) Subscribe(handler func(data []byte)) (*nats.Subscription, error) {
	sub, err := b.conn.Subscribe(b.subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.subject, err)
	}

	return sub, nil
}

// Close drains and closes the underlying connection. Safe to call more than
// once.
func (b *Bus) Close() error {
	if b.conn.IsClosed() {
		return nil
	}
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}

// Ensure Bus implements the interface
var _ Publisher = (*Bus)(nil)
