package ama

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tap30/ripple-ama/adapters"
	"github.com/Tap30/ripple-ama/metrics"
)

// Plugin records analytics events for every request of a host and flushes
// them at terminal callbacks. One Plugin serves all concurrent requests;
// per-request state lives in the Rider attached to each Request.
type Plugin struct {
	config        Config
	clientContext ClientContext
	policy        *SuppressionPolicy
	transport     *Transport

	sink     SinkAdapter
	storage  StorageAdapter
	logger   LoggerAdapter
	recorder metrics.Recorder
	now      func() time.Time
	isEntry  func(string) bool

	ownsStorage bool

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// New validates cfg and builds a Plugin. A *ConfigurationError is returned
// when cfg is unusable.
func New(cfg Config, opts ...Option) (*Plugin, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Plugin{config: cfg}
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = defaultLogger(cfg.EnableVerboseLogging)
	}
	if p.recorder == nil {
		p.recorder = metrics.NoopRecorder{}
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.isEntry == nil {
		initial := cfg.InitialState
		p.isEntry = func(state string) bool { return state == initial }
	}
	if p.sink == nil {
		p.sink = adapters.NewNetHTTPAdapter(
			adapters.WithTimeout(cfg.Timeout),
			adapters.WithGzip(cfg.Compress),
		)
	}
	if cfg.Retry.MaxRetries > 0 {
		p.sink = adapters.NewRetryingAdapter(p.sink, adapters.RetryPolicy{
			MaxRetries:      cfg.Retry.MaxRetries,
			InitialInterval: cfg.Retry.InitialInterval,
			MaxInterval:     cfg.Retry.MaxInterval,
		}, p.logger)
	}
	if p.storage == nil {
		storage, err := openSpool(cfg.Spool)
		if err != nil {
			return nil, &ConfigurationError{Field: "spool.path", Err: err}
		}
		p.storage = storage
		p.ownsStorage = true
	}

	p.clientContext = NewClientContext(cfg)
	p.policy = NewSuppressionPolicy(cfg)
	p.transport = NewTransport(TransportConfig{
		Endpoint: cfg.Endpoint,
		Headers:  cfg.headers(),
		Policy:   p.policy,
	}, p.sink, p.storage, p.logger, p.recorder)

	p.logger.Debug("AMA recorder ready for app %s, sending to %s", cfg.AppID, cfg.Endpoint)
	return p, nil
}

func openSpool(cfg SpoolConfig) (StorageAdapter, error) {
	switch cfg.Driver {
	case SpoolFile:
		return adapters.NewFileStorageAdapter(cfg.Path), nil
	case SpoolSQLite:
		return adapters.NewSQLiteStorageAdapter(cfg.Path)
	default:
		return adapters.NewNoOpStorageAdapter(), nil
	}
}

// Config returns the effective configuration.
func (p *Plugin) Config() Config {
	return p.config
}

// Transport returns the transport used for every flush.
func (p *Plugin) Transport() *Transport {
	return p.transport
}

// NewRider creates the rider for req without attaching it.
func (p *Plugin) NewRider(req *Request) *Rider {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
		p.logger.Debug("Request has no session id, using %s", sessionID)
	}
	return newRider(sessionID, req, p.clientContext, riderDeps{
		now:      p.now,
		isEntry:  p.isEntry,
		logger:   p.logger,
		recorder: p.recorder,
	})
}

// rider returns the request's rider, creating it if the host skipped
// RequestStarted.
func (p *Plugin) rider(req *Request) *Rider {
	if req.AMA == nil {
		p.logger.Warn("No rider attached to %s, creating one", req.Type)
		req.AMA = p.NewRider(req)
	}
	return req.AMA
}

// RequestStarted attaches a fresh Rider to req.
func (p *Plugin) RequestStarted(_ context.Context, req *Request) {
	req.AMA = p.NewRider(req)
}

// SessionStarted records a "Session started" event and flushes.
func (p *Plugin) SessionStarted(ctx context.Context, req *Request) *Delivery {
	r := p.rider(req)
	r.append(BufferedEvent{EventType: EventTypeSessionStarted, Attributes: map[string]any{}})
	return p.flush(ctx, r)
}

// BeforeStateChanged tracks the state the handler runs in.
func (p *Plugin) BeforeStateChanged(_ context.Context, req *Request, state string) {
	p.rider(req).enterState(state)
}

// IntentDispatched records an IntentRequest event and flushes. A
// LaunchRequest is recorded as LaunchIntent.
func (p *Plugin) IntentDispatched(ctx context.Context, req *Request) *Delivery {
	intent := req.Intent
	if req.Type == LaunchRequest && intent == "" {
		intent = LaunchIntent
	}
	r := p.rider(req)
	r.append(BufferedEvent{
		EventType:  EventTypeIntentRequest,
		Attributes: map[string]any{"intent": intent},
	})
	return p.flush(ctx, r)
}

// BeforeReplySent records the Transition event and flushes. Nothing is
// flushed when there is no transition or the rider is ignored.
func (p *Plugin) BeforeReplySent(ctx context.Context, req *Request, t *Transition) *Delivery {
	eventType := EventTypeTransition
	if p.config.LegacyTransitionEvent {
		eventType = EventTypeCustom
	}
	r := p.rider(req)
	if !r.recordTransition(eventType, t) {
		return resolvedDelivery(Result{})
	}
	return p.flush(ctx, r)
}

// SessionEnded records the end of the session and flushes. Requests other
// than SessionEndedRequest are ignored.
func (p *Plugin) SessionEnded(ctx context.Context, req *Request) *Delivery {
	if req.Type != SessionEndedRequest {
		return resolvedDelivery(Result{})
	}

	r := p.rider(req)
	if req.Reason == SessionEndedReasonError {
		message := ""
		if req.Error != nil {
			message = req.Error.Message
		}
		r.append(BufferedEvent{
			EventType:  EventTypeCustom,
			Attributes: map[string]any{"Error": message},
		})
	} else {
		r.append(BufferedEvent{EventType: EventTypeSessionEnded, Attributes: map[string]any{}})
	}
	return p.flush(ctx, r)
}

// UnhandledError records a Custom {Error: message} event and flushes.
func (p *Plugin) UnhandledError(ctx context.Context, req *Request, err error) *Delivery {
	message := "unknown error"
	if err != nil {
		message = err.Error()
	}
	r := p.rider(req)
	r.append(BufferedEvent{
		EventType:  EventTypeCustom,
		Attributes: map[string]any{"Error": message},
	})
	return p.flush(ctx, r)
}

// Flush sends the current buffer of req's rider.
func (p *Plugin) Flush(ctx context.Context, req *Request) *Delivery {
	return p.flush(ctx, p.rider(req))
}

// flush snapshots the buffer now and submits it in the background. The
// submit outlives cancellation of ctx so hosts may drop the Delivery once
// the reply is written.
func (p *Plugin) flush(ctx context.Context, r *Rider) *Delivery {
	if !p.policy.ShouldSend(r.UserID()) {
		p.logger.Debug("Sending suppressed for user %s", r.UserID())
		p.recorder.IncFlushOutcome(metrics.OutcomeSuppressed)
		return resolvedDelivery(Result{Suppressed: true})
	}

	events := r.drain(p.config.ClearOnFlush)
	if len(events) == 0 {
		p.recorder.IncFlushOutcome(metrics.OutcomeEmpty)
		return resolvedDelivery(Result{})
	}

	batchID := uuid.NewString()
	batch, err := buildBatch(r, events, p.now())
	if err != nil {
		p.logger.Error("Failed to build batch %s: %v", batchID, err)
		p.recorder.IncFlushOutcome(metrics.OutcomeFailed)
		return resolvedDelivery(Result{
			BatchID: batchID,
			Events:  len(events),
			Err:     &TransportError{Err: fmt.Errorf("build batch: %w", err)},
		})
	}

	p.logger.Debug("Flushing batch %s with %d events for session %s", batchID, batch.Len(), r.SessionID())
	p.recorder.ObserveBatchSize(batch.Len())

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("Plugin closed, dropping batch %s", batchID)
		p.recorder.IncFlushOutcome(metrics.OutcomeFailed)
		return resolvedDelivery(Result{BatchID: batchID, Events: batch.Len(), Err: ErrClosed})
	}
	p.inflight.Add(1)
	p.mu.Unlock()

	d := newDelivery()
	submitCtx := context.WithoutCancel(ctx)
	userID := r.UserID()
	go func() {
		defer p.inflight.Done()
		resp, err := p.transport.Submit(submitCtx, userID, batch)
		result := Result{BatchID: batchID, Events: batch.Len(), Response: resp}
		switch {
		case errors.Is(err, ErrSuppressed):
			result.Suppressed = true
			p.recorder.IncFlushOutcome(metrics.OutcomeSuppressed)
		case err != nil:
			result.Err = err
			p.recorder.IncFlushOutcome(metrics.OutcomeFailed)
		default:
			p.recorder.IncFlushOutcome(metrics.OutcomeSent)
		}
		d.resolve(result)
	}()
	return d
}

// Redeliver resubmits spooled batches once each.
func (p *Plugin) Redeliver(ctx context.Context) (int, error) {
	return p.transport.Redeliver(ctx)
}

// Close waits for in-flight deliveries and closes the spool opened from
// Config.Spool. Adapters passed as options are left open. Flushes requested
// after Close resolve with ErrClosed.
func (p *Plugin) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.inflight.Wait()

	if c, ok := p.storage.(io.Closer); ok && p.ownsStorage {
		return c.Close()
	}
	return nil
}
