package adapters

import "context"

// Response represents the outcome reported by a sink.
type Response struct {
	OK     bool
	Status int
	Data   any
}

// SinkAdapter is an interface for delivering batches to an analytics sink.
// Implement this interface to use custom transports.
type SinkAdapter interface {
	// Send submits a batch to the specified endpoint.
	//
	// Parameters:
	//   - ctx: Controls cancellation of the underlying call
	//   - endpoint: The sink endpoint (URL, subject or topic depending on the transport)
	//   - batch: The batch to submit
	//   - headers: Optional custom headers to merge with defaults
	//
	// Returns the sink response, or an error when nothing usable came back.
	Send(ctx context.Context, endpoint string, batch *Batch, headers map[string]string) (*Response, error)
}
