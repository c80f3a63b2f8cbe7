// Package hosttest provides a minimal conversation host that raises the
// recorder's lifecycle hooks in the order a voice framework does.
package hosttest

import (
	"context"

	ama "github.com/Tap30/ripple-ama"
)

// Handler runs the state handler of a request and returns its transition.
type Handler func(ctx context.Context, req *ama.Request) (*ama.Transition, error)

// Reply returns a Handler that always transitions to `to` with `reply`.
func Reply(to, reply string) Handler {
	return func(context.Context, *ama.Request) (*ama.Transition, error) {
		return &ama.Transition{To: to, Reply: reply}, nil
	}
}

// Outcome collects what happened while dispatching one request.
type Outcome struct {
	Transition *ama.Transition
	Err        error
	Deliveries []*ama.Delivery
}

// Wait blocks on every delivery and returns their results in hook order.
func (o Outcome) Wait() []ama.Result {
	results := make([]ama.Result, 0, len(o.Deliveries))
	for _, d := range o.Deliveries {
		results = append(results, d.Wait())
	}
	return results
}

// Host records the hooks registered on it.
type Host struct {
	requestStarted     []func(context.Context, *ama.Request)
	sessionStarted     []func(context.Context, *ama.Request) *ama.Delivery
	beforeStateChanged []func(context.Context, *ama.Request, string)
	intentDispatch     []func(context.Context, *ama.Request) *ama.Delivery
	beforeReplySent    []func(context.Context, *ama.Request, *ama.Transition) *ama.Delivery
	sessionEnded       []func(context.Context, *ama.Request) *ama.Delivery
	unhandledError     []func(context.Context, *ama.Request, error) *ama.Delivery
}

var _ ama.Host = (*Host)(nil)

func New() *Host {
	return &Host{}
}

func (h *Host) OnRequestStarted(fn func(context.Context, *ama.Request)) {
	h.requestStarted = append(h.requestStarted, fn)
}

func (h *Host) OnSessionStarted(fn func(context.Context, *ama.Request) *ama.Delivery) {
	h.sessionStarted = append(h.sessionStarted, fn)
}

func (h *Host) OnBeforeStateChanged(fn func(context.Context, *ama.Request, string)) {
	h.beforeStateChanged = append(h.beforeStateChanged, fn)
}

func (h *Host) OnIntentDispatch(fn func(context.Context, *ama.Request) *ama.Delivery) {
	h.intentDispatch = append(h.intentDispatch, fn)
}

func (h *Host) OnBeforeReplySent(fn func(context.Context, *ama.Request, *ama.Transition) *ama.Delivery) {
	h.beforeReplySent = append(h.beforeReplySent, fn)
}

func (h *Host) OnSessionEnded(fn func(context.Context, *ama.Request) *ama.Delivery) {
	h.sessionEnded = append(h.sessionEnded, fn)
}

func (h *Host) OnUnhandledError(fn func(context.Context, *ama.Request, error) *ama.Delivery) {
	h.unhandledError = append(h.unhandledError, fn)
}

// Registered reports whether any hook has been attached.
func (h *Host) Registered() bool {
	return len(h.requestStarted)+len(h.sessionStarted)+len(h.beforeStateChanged)+
		len(h.intentDispatch)+len(h.beforeReplySent)+len(h.sessionEnded)+len(h.unhandledError) > 0
}

// Dispatch processes one request. A SessionEndedRequest only raises the
// session hooks; other requests enter req.State, dispatch the intent, run
// handler and then raise either the error or the reply hook.
func (h *Host) Dispatch(ctx context.Context, req *ama.Request, handler Handler) Outcome {
	var out Outcome

	for _, fn := range h.requestStarted {
		fn(ctx, req)
	}
	if req.NewSession {
		for _, fn := range h.sessionStarted {
			out.Deliveries = append(out.Deliveries, fn(ctx, req))
		}
	}

	if req.Type == ama.SessionEndedRequest {
		for _, fn := range h.sessionEnded {
			out.Deliveries = append(out.Deliveries, fn(ctx, req))
		}
		return out
	}

	state := req.State
	if state == "" {
		state = ama.DefaultInitialState
	}
	for _, fn := range h.beforeStateChanged {
		fn(ctx, req, state)
	}
	for _, fn := range h.intentDispatch {
		out.Deliveries = append(out.Deliveries, fn(ctx, req))
	}

	if handler != nil {
		out.Transition, out.Err = handler(ctx, req)
	}
	if out.Err != nil {
		for _, fn := range h.unhandledError {
			out.Deliveries = append(out.Deliveries, fn(ctx, req, out.Err))
		}
		return out
	}

	for _, fn := range h.beforeReplySent {
		out.Deliveries = append(out.Deliveries, fn(ctx, req, out.Transition))
	}
	return out
}
