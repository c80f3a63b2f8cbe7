package ama

import (
	"sync"
	"time"

	"github.com/Tap30/ripple-ama/metrics"
)

// Rider is the per-request event recorder. It is created when a request
// starts and lives until the request completes. Handlers reach it through
// Request.AMA.
type Rider struct {
	sessionID     string
	userID        string
	start         time.Time
	clientContext ClientContext

	variables *Variables

	mu    sync.Mutex
	state string

	// ignored is set by Ignore and never cleared. inEntry follows the
	// current state.
	ignored bool
	inEntry bool
	events  *Queue

	now      func() time.Time
	isEntry  func(string) bool
	logger   LoggerAdapter
	recorder metrics.Recorder
}

type riderDeps struct {
	now      func() time.Time
	isEntry  func(string) bool
	logger   LoggerAdapter
	recorder metrics.Recorder
}

func newRider(sessionID string, req *Request, template ClientContext, deps riderDeps) *Rider {
	r := &Rider{
		sessionID:     sessionID,
		userID:        req.UserID,
		start:         deps.now(),
		clientContext: template.WithRequest(req.UserID, req.Locale),
		variables:     NewVariables(),
		state:         req.State,
		events:        NewQueue(),
		now:           deps.now,
		isEntry:       deps.isEntry,
		logger:        deps.logger,
		recorder:      deps.recorder,
	}
	r.inEntry = r.isEntry(req.State)
	return r
}

// Variables returns the staging map merged into the attributes of the
// request's Transition event.
func (r *Rider) Variables() *Variables {
	return r.variables
}

// SessionID returns the host session id the rider was created for.
func (r *Rider) SessionID() string {
	return r.sessionID
}

// UserID returns the id of the user who made the request.
func (r *Rider) UserID() string {
	return r.userID
}

// StartTimestamp returns the instant the rider was created.
func (r *Rider) StartTimestamp() time.Time {
	return r.start
}

// ClientContext returns the per-request client context.
func (r *Rider) ClientContext() ClientContext {
	return r.clientContext
}

// State returns the last state the request entered.
func (r *Rider) State() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Ignore suppresses the Transition event for the rest of the request.
// Explicitly logged events are unaffected.
func (r *Rider) Ignore() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ignored = true
}

// Ignored reports whether the Transition event is suppressed, either by
// Ignore or because the request is in the initial state.
func (r *Rider) Ignored() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ignored || r.inEntry
}

// LogEvent buffers one event. A Scalar is recorded as a "Custom" event keyed
// by name; a Structured is recorded with name as its event type.
func (r *Rider) LogEvent(name string, value Value) {
	if value == nil {
		value = Structured{}
	}
	r.append(value.bufferedEvent(name))
}

// LogEventAny is LogEvent for dynamically typed values. Strings and string
// keyed maps are accepted; anything else is recorded with empty attributes
// and logged as malformed.
func (r *Rider) LogEventAny(name string, value any) {
	v, err := valueOf(name, value)
	if err != nil {
		r.logger.Warn("%v", err)
	}
	r.LogEvent(name, v)
}

// Events returns a snapshot of the buffered events in insertion order.
func (r *Rider) Events() []BufferedEvent {
	return r.events.ToSlice()
}

// Len returns the number of buffered events.
func (r *Rider) Len() int {
	return r.events.Len()
}

func (r *Rider) append(event BufferedEvent) {
	r.events.Enqueue(event)
	r.recorder.IncEventRecorded(event.EventType)
	r.logger.Debug("Recorded %q event for session %s", event.EventType, r.sessionID)
}

// enterState records the state the handler is about to run in. Transitions
// out of the initial state are not logged; an explicit Ignore still holds.
func (r *Rider) enterState(state string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	r.inEntry = r.isEntry(state)
}

// recordTransition buffers the Transition event for t unless suppressed.
func (r *Rider) recordTransition(eventType string, t *Transition) bool {
	if t == nil {
		return false
	}

	r.mu.Lock()
	ignored, state := r.ignored || r.inEntry, r.state
	r.mu.Unlock()
	if ignored {
		return false
	}

	attrs := r.variables.GetAll()
	if attrs == nil {
		attrs = make(map[string]any, 3)
	}
	if t.Reply != "" {
		attrs["reply"] = t.Reply
	}
	attrs["state"] = state
	attrs["to"] = t.To

	r.append(BufferedEvent{EventType: eventType, Attributes: attrs})
	return true
}

// drain returns the buffered events, emptying the buffer when clear is set.
func (r *Rider) drain(clear bool) []BufferedEvent {
	return r.events.Drain(clear)
}
