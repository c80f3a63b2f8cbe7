package ama

import (
	"time"

	"github.com/Tap30/ripple-ama/adapters"
	"github.com/Tap30/ripple-ama/metrics"
)

// Option customizes a Plugin.
type Option func(*Plugin)

// WithSink replaces the default HTTP sink.
func WithSink(sink SinkAdapter) Option {
	return func(p *Plugin) {
		p.sink = sink
	}
}

// WithStorage replaces the spool selected by Config.Spool.
func WithStorage(storage StorageAdapter) Option {
	return func(p *Plugin) {
		p.storage = storage
	}
}

// WithLogger sets a custom logger adapter.
func WithLogger(logger LoggerAdapter) Option {
	return func(p *Plugin) {
		p.logger = logger
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(p *Plugin) {
		p.recorder = recorder
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Plugin) {
		p.now = now
	}
}

// WithEntryState overrides the predicate deciding which states are exempt
// from Transition events. By default only Config.InitialState is.
func WithEntryState(isEntry func(state string) bool) Option {
	return func(p *Plugin) {
		p.isEntry = isEntry
	}
}

func noopLogger() LoggerAdapter {
	return adapters.NewNoOpLoggerAdapter()
}

func defaultLogger(verbose bool) LoggerAdapter {
	if verbose {
		return adapters.NewPrintLoggerAdapter(adapters.LogLevelDebug)
	}
	return adapters.NewPrintLoggerAdapter(adapters.LogLevelWarn)
}
