package metrics

import "time"

// FlushOutcome enumerates how a flush attempt ended.
type FlushOutcome string

const (
	OutcomeSent       FlushOutcome = "sent"
	OutcomeFailed     FlushOutcome = "failed"
	OutcomeSuppressed FlushOutcome = "suppressed"
	OutcomeEmpty      FlushOutcome = "empty"
)

// Recorder defines observability hooks for event recording and flushing.
// Implementations must be safe for concurrent use.
type Recorder interface {
	IncEventRecorded(eventType string)
	IncFlushOutcome(outcome FlushOutcome)
	ObserveBatchSize(events int)
	ObserveSubmitDuration(d time.Duration, success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncEventRecorded(string)                   {}
func (NoopRecorder) IncFlushOutcome(FlushOutcome)              {}
func (NoopRecorder) ObserveBatchSize(int)                      {}
func (NoopRecorder) ObserveSubmitDuration(time.Duration, bool) {}
