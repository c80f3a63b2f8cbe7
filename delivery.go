package ama

// Result is the outcome of one flush. Failures are carried in Err and never
// returned to the conversation.
type Result struct {
	// BatchID identifies the flush in logs. Empty when nothing was built.
	BatchID string
	// Events is the number of events in the batch.
	Events     int
	Suppressed bool
	Response   *Response
	// Err is a *TransportError when submission failed.
	Err error
}

// Sent reports whether a non-empty batch was accepted by the sink.
func (r Result) Sent() bool {
	return !r.Suppressed && r.Err == nil && r.Events > 0
}

// Delivery is a pending flush. Hosts that want the outcome wait on it before
// finalizing the reply; others may drop it.
type Delivery struct {
	done   chan struct{}
	result Result
}

func newDelivery() *Delivery {
	return &Delivery{done: make(chan struct{})}
}

// resolvedDelivery returns an already completed delivery.
func resolvedDelivery(result Result) *Delivery {
	d := newDelivery()
	d.resolve(result)
	return d
}

func (d *Delivery) resolve(result Result) {
	d.result = result
	close(d.done)
}

// Done is closed once the outcome is available.
func (d *Delivery) Done() <-chan struct{} {
	return d.done
}

// Wait blocks until the flush completes and returns its outcome.
func (d *Delivery) Wait() Result {
	if d == nil {
		return Result{}
	}
	<-d.done
	return d.result
}
