package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// natsPublisher is the subset of *nats.Conn used by NATSAdapter.
type natsPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSAdapter publishes batches to a NATS subject. The endpoint passed to
// Send overrides the default subject when non-empty.
type NATSAdapter struct {
	conn    natsPublisher
	subject string
}

// Ensure NATSAdapter implements SinkAdapter interface
var _ SinkAdapter = (*NATSAdapter)(nil)

// NewNATSAdapter connects to url and publishes to subject.
func NewNATSAdapter(url, subject string) (*NATSAdapter, error) {
	if subject == "" {
		return nil, fmt.Errorf("nats subject is required")
	}
	conn, err := nats.Connect(url, nats.Name("ripple-ama"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSAdapter{conn: conn, subject: subject}, nil
}

// Send publishes the batch as a JSON message. Headers are carried as NATS headers.
func (n *NATSAdapter) Send(ctx context.Context, endpoint string, batch *Batch, headers map[string]string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}

	subject := n.subject
	if endpoint != "" {
		subject = endpoint
	}

	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		msg.Header.Set(key, value)
	}

	if err := n.conn.PublishMsg(msg); err != nil {
		return nil, fmt.Errorf("failed to publish batch: %w", err)
	}
	return &Response{OK: true, Status: 200}, nil
}

// Close drains the underlying connection when it is a *nats.Conn.
func (n *NATSAdapter) Close() error {
	if conn, ok := n.conn.(*nats.Conn); ok {
		return conn.Drain()
	}
	return nil
}
