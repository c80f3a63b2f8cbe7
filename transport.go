package ama

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Tap30/ripple-ama/adapters"
	"github.com/Tap30/ripple-ama/metrics"
)

// TransportConfig holds the destination of every submitted batch and the
// policy gating it. A nil Policy sends everything.
type TransportConfig struct {
	Endpoint string
	Headers  map[string]string
	Policy   *SuppressionPolicy
}

// Transport submits batches to a SinkAdapter exactly once. Temporary
// failures are spooled to the StorageAdapter for a later Redeliver.
type Transport struct {
	config   TransportConfig
	sink     SinkAdapter
	storage  StorageAdapter
	logger   LoggerAdapter
	recorder metrics.Recorder
	spoolMu  sync.Mutex
}

// NewTransport wires a sink and a spool. The storage, logger and recorder
// default to no-ops when nil.
func NewTransport(config TransportConfig, sink SinkAdapter, storage StorageAdapter, logger LoggerAdapter, recorder metrics.Recorder) *Transport {
	if storage == nil {
		storage = adapters.NewNoOpStorageAdapter()
	}
	if logger == nil {
		logger = noopLogger()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Transport{
		config:   config,
		sink:     sink,
		storage:  storage,
		logger:   logger,
		recorder: recorder,
	}
}

// Submit sends the batch of userID once. ErrSuppressed is returned without
// contacting the sink when the policy blocks userID; any other failure is a
// *TransportError.
func (t *Transport) Submit(ctx context.Context, userID string, batch *Batch) (*Response, error) {
	if !t.config.Policy.ShouldSend(userID) {
		t.logger.Debug("Sending suppressed for user %s", userID)
		return nil, ErrSuppressed
	}

	resp, terr := t.send(ctx, batch)
	if terr == nil {
		t.logger.Debug("Successfully sent batch of %d events", batch.Len())
		return resp, nil
	}

	if terr.Temporary() {
		t.logger.Error("Failed to send batch of %d events, spooling: %v", batch.Len(), terr)
		if err := t.spool(batch); err != nil {
			t.logger.Error("Failed to spool batch: %v", err)
		}
	} else {
		t.logger.Warn("Batch of %d events rejected, dropping: %v", batch.Len(), terr)
	}
	return resp, terr
}

func (t *Transport) send(ctx context.Context, batch *Batch) (*Response, *TransportError) {
	start := time.Now()
	resp, err := t.sink.Send(ctx, t.config.Endpoint, batch, t.config.Headers)

	var terr *TransportError
	switch {
	case err != nil:
		terr = &TransportError{Err: err}
		if resp != nil {
			terr.Status = resp.Status
		}
	case resp == nil:
		terr = &TransportError{Err: errors.New("sink returned no response")}
	case !resp.OK:
		terr = &TransportError{Status: resp.Status}
	}
	t.recorder.ObserveSubmitDuration(time.Since(start), terr == nil)
	return resp, terr
}

// spool appends batch to the persisted backlog.
func (t *Transport) spool(batch *Batch) error {
	t.spoolMu.Lock()
	defer t.spoolMu.Unlock()

	backlog, err := t.storage.Load()
	if err != nil {
		return fmt.Errorf("load spool: %w", err)
	}
	return t.storage.Save(append(backlog, *batch))
}

// Redeliver resubmits every spooled batch once. Batches that fail
// temporarily stay spooled; rejected ones and those of ignored users are
// dropped. Nothing is sent while sending is suppressed for everyone. It
// returns the number of batches delivered.
func (t *Transport) Redeliver(ctx context.Context) (int, error) {
	if t.config.Policy.SuppressesAll() {
		t.logger.Debug("Sending suppressed, leaving spool untouched")
		return 0, nil
	}

	t.spoolMu.Lock()
	defer t.spoolMu.Unlock()

	backlog, err := t.storage.Load()
	if err != nil {
		return 0, fmt.Errorf("load spool: %w", err)
	}
	if len(backlog) == 0 {
		return 0, nil
	}

	t.logger.Info("Redelivering %d spooled batches", len(backlog))

	var (
		delivered int
		keep      []Batch
		errs      []error
	)
	for i := range backlog {
		batch := &backlog[i]
		if ctx.Err() != nil {
			keep = append(keep, backlog[i:]...)
			errs = append(errs, ctx.Err())
			break
		}
		if !t.shouldRedeliver(batch) {
			continue
		}
		_, terr := t.send(ctx, batch)
		switch {
		case terr == nil:
			delivered++
		case terr.Temporary():
			keep = append(keep, *batch)
			errs = append(errs, terr)
		default:
			t.logger.Warn("Spooled batch rejected, dropping: %v", terr)
			errs = append(errs, terr)
		}
	}

	if len(keep) == 0 {
		err = t.storage.Clear()
	} else {
		err = t.storage.Save(keep)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("update spool: %w", err))
	}
	return delivered, errors.Join(errs...)
}

// shouldRedeliver applies the policy to the client id carried by batch.
func (t *Transport) shouldRedeliver(batch *Batch) bool {
	cc, err := DecodeClientContext(batch.ClientContext)
	if err != nil || t.config.Policy.ShouldSend(cc.Client.ClientID) {
		return true
	}
	t.logger.Debug("Dropping spooled batch of ignored user %s", cc.Client.ClientID)
	return false
}
