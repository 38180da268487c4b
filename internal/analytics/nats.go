package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is the subject prefix events are published under; the
// event name is appended.
const DefaultSubject = "closet.analytics"

// NATS publishes events as JSON to "<subject>.<event name>".
type NATS struct {
	conn    *nats.Conn
	subject string
}

// NewNATS connects to a NATS server.
func NewNATS(natsURL, subject string) (*NATS, error) {
	conn, err := nats.Connect(natsURL, nats.Name("closet-analytics"))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATS{conn: conn, subject: subject}, nil
}

// Subject returns the subject an event is published to.
func (n *NATS) Subject(e Event) string {
	return n.subject + "." + string(e.Name)
}

// Track implements Sink. Publishing is buffered by the client, so this
// doesn't block on the network.
func (n *NATS) Track(_ context.Context, e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Warn("encoding analytics event", "event", e.Name, "error", err)
		return
	}
	if err := n.conn.Publish(n.Subject(e), data); err != nil {
		slog.Warn("nats event dropped", "event", e.Name, "event_id", e.ID, "error", err)
	}
}

// Close flushes pending events and closes the connection.
func (n *NATS) Close() error {
	return n.conn.Drain()
}
