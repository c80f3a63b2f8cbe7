package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy controls how RetryingAdapter backs off between attempts.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy returns 3 retries starting at 1s and capped at 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialInterval: time.Second, MaxInterval: 30 * time.Second}
}

// RetryingAdapter wraps a SinkAdapter and retries network errors and 5xx
// responses with exponential backoff and jitter. 4xx responses are returned
// immediately since resending the same batch cannot succeed.
type RetryingAdapter struct {
	inner  SinkAdapter
	policy RetryPolicy
	logger LoggerAdapter
}

// Ensure RetryingAdapter implements SinkAdapter interface
var _ SinkAdapter = (*RetryingAdapter)(nil)

// NewRetryingAdapter wraps inner. Zero policy fields fall back to DefaultRetryPolicy.
func NewRetryingAdapter(inner SinkAdapter, policy RetryPolicy, logger LoggerAdapter) *RetryingAdapter {
	def := DefaultRetryPolicy()
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = def.InitialInterval
	}
	if policy.MaxInterval <= 0 {
		policy.MaxInterval = def.MaxInterval
	}
	if policy.InitialInterval > policy.MaxInterval {
		policy.InitialInterval = policy.MaxInterval
	}
	if logger == nil {
		logger = NewNoOpLoggerAdapter()
	}
	return &RetryingAdapter{inner: inner, policy: policy, logger: logger}
}

type retryableStatus struct {
	status int
}

func (e *retryableStatus) Error() string {
	return fmt.Sprintf("sink responded with status %d", e.status)
}

// Send submits the batch, retrying transient failures according to the policy.
func (a *RetryingAdapter) Send(ctx context.Context, endpoint string, batch *Batch, headers map[string]string) (*Response, error) {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = a.policy.InitialInterval
	expo.MaxInterval = a.policy.MaxInterval
	expo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(a.policy.MaxRetries)), ctx)

	attempt := 0
	var resp *Response
	op := func() error {
		attempt++
		a.logger.Debug("Sending batch, attempt %d/%d", attempt, a.policy.MaxRetries+1)

		r, err := a.inner.Send(ctx, endpoint, batch, headers)
		resp = r
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if r != nil && r.Status >= 500 {
			return &retryableStatus{status: r.Status}
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		a.logger.Warn("Sink attempt %d failed (%v), retrying in %v", attempt, err, wait)
	}

	err := backoff.RetryNotify(op, policy, notify)
	var rs *retryableStatus
	if errors.As(err, &rs) {
		a.logger.Error("Sink kept failing with status %d after %d attempts", rs.status, attempt)
		return resp, nil
	}
	return resp, err
}
