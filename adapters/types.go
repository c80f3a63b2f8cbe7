package adapters

// WireVersion is the event schema version stamped on every wire event.
const WireVersion = "v2.0"

// Batch is the payload submitted to the analytics sink on every flush.
type Batch struct {
	ClientContext string      `json:"clientContext"`
	Events        []WireEvent `json:"events"`
}

// WireEvent represents a single buffered event in its wire format.
type WireEvent struct {
	EventType  string             `json:"eventType"`
	Timestamp  string             `json:"timestamp"`
	Attributes map[string]any     `json:"attributes"`
	Session    Session            `json:"session"`
	Version    string             `json:"version"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Session carries the session bookkeeping shared by all events of a batch.
type Session struct {
	ID             string `json:"id"`
	StartTimestamp string `json:"startTimestamp"`
	StopTimestamp  string `json:"stopTimestamp"`
	Duration       int64  `json:"duration"`
}

// Len returns the number of events in the batch. It is safe on a nil batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Events)
}
