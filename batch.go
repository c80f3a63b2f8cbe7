package ama

import (
	"time"

	"github.com/Tap30/ripple-ama/adapters"
)

const (
	// TimestampLayout is the ISO-8601 layout of every wire timestamp.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
	maxSessionIDLen = 50
)

// BuildBatch snapshots the rider's buffer and converts it into a wire batch
// stamped with the current time. The batch may have no events.
func BuildBatch(r *Rider) (*Batch, error) {
	return buildBatch(r, r.Events(), r.now())
}

// buildBatch stamps events with one shared stop time.
func buildBatch(r *Rider, events []BufferedEvent, stop time.Time) (*Batch, error) {
	cc, err := r.clientContext.Encode()
	if err != nil {
		return nil, err
	}

	duration := stop.Sub(r.start).Milliseconds()
	if duration < 0 {
		duration = 0
	}
	session := adapters.Session{
		ID:             truncateSessionID(r.sessionID),
		StartTimestamp: formatTimestamp(r.start),
		StopTimestamp:  formatTimestamp(stop),
		Duration:       duration,
	}

	wire := make([]WireEvent, 0, len(events))
	for _, e := range events {
		attrs := e.Attributes
		if attrs == nil {
			attrs = map[string]any{}
		}
		wire = append(wire, WireEvent{
			EventType:  e.EventType,
			Timestamp:  session.StopTimestamp,
			Attributes: attrs,
			Session:    session,
			Version:    adapters.WireVersion,
			Metrics:    map[string]float64{},
		})
	}
	return &Batch{ClientContext: cc, Events: wire}, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// truncateSessionID keeps the last 50 characters of id.
func truncateSessionID(id string) string {
	runes := []rune(id)
	if len(runes) <= maxSessionIDLen {
		return id
	}
	return string(runes[len(runes)-maxSessionIDLen:])
}
