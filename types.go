package ama

import (
	"github.com/Tap30/ripple-ama/adapters"
)

// Re-export adapter types for convenience
type (
	Batch          = adapters.Batch
	WireEvent      = adapters.WireEvent
	WireSession    = adapters.Session
	Response       = adapters.Response
	SinkAdapter    = adapters.SinkAdapter
	StorageAdapter = adapters.StorageAdapter
	LoggerAdapter  = adapters.LoggerAdapter
	LogLevel       = adapters.LogLevel
)

// Request types raised by the host framework.
const (
	LaunchRequest       = "LaunchRequest"
	IntentRequest       = "IntentRequest"
	SessionEndedRequest = "SessionEndedRequest"
)

// Event types produced by the recorder itself.
const (
	EventTypeCustom         = "Custom"
	EventTypeTransition     = "Transition"
	EventTypeIntentRequest  = "IntentRequest"
	EventTypeSessionStarted = "Session started"
	EventTypeSessionEnded   = "Session ended"
)

// LaunchIntent is the intent name recorded for a LaunchRequest.
const LaunchIntent = "LaunchIntent"

// SessionEndedReasonError marks a session that ended because of an error.
const SessionEndedReasonError = "ERROR"

// Request is the host framework's view of one inbound request. The host owns
// it; OnRequestStarted attaches a fresh Rider to AMA.
type Request struct {
	Type       string
	SessionID  string
	NewSession bool
	UserID     string
	Locale     string
	// Intent is the dispatched intent name for IntentRequest.
	Intent string
	// State is the conversational state the request starts in.
	State string
	// Reason and Error describe a SessionEndedRequest.
	Reason string
	Error  *RequestError

	AMA *Rider
}

// RequestError is the error object carried by a SessionEndedRequest.
type RequestError struct {
	Type    string
	Message string
}

// Transition is the outcome of a state handler.
type Transition struct {
	To    string
	Reply string
}

// BufferedEvent is one event held by a Rider until flush.
type BufferedEvent struct {
	EventType  string
	Attributes map[string]any
}
