package ama

import (
	"errors"
	"fmt"
)

// ErrMissingAppID is wrapped by the ConfigurationError returned when appId is empty.
var ErrMissingAppID = errors.New("appId is required in the config file")

// ErrSuppressed is returned by Transport.Submit when the suppression policy
// blocks the batch. Nothing reaches the sink.
var ErrSuppressed = errors.New("ama: sending suppressed")

// ErrClosed is reported by deliveries requested after Plugin.Close.
var ErrClosed = errors.New("ama: plugin closed")

// ConfigurationError reports an invalid or missing setting. It is fatal at setup.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("ama: invalid configuration %q: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TransportError reports a failed submission. Status is zero when no
// response was received.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("ama: submit failed with status %d: %v", e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("ama: submit failed with status %d", e.Status)
	default:
		return fmt.Sprintf("ama: submit failed: %v", e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Temporary reports whether resubmitting the same batch later may succeed.
// 4xx statuses are permanent.
func (e *TransportError) Temporary() bool {
	return e.Status == 0 || e.Status >= 500
}

// MalformedEventError describes a LogEvent value of an unsupported shape.
// It is logged, never returned to the caller.
type MalformedEventError struct {
	Name string
	Kind string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("ama: event %q has unsupported value of kind %s, recorded with empty attributes", e.Name, e.Kind)
}
