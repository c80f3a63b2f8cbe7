package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSink struct {
	calls     int
	responses []*Response
	errs      []error
}

func (s *scriptedSink) Send(ctx context.Context, endpoint string, batch *Batch, headers map[string]string) (*Response, error) {
	i := s.calls
	s.calls++
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], s.errs[i]
}

func fastPolicy(retries int) RetryPolicy {
	return RetryPolicy{MaxRetries: retries, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestRetryingAdapter(t *testing.T) {
	t.Run("should not retry on success", func(t *testing.T) {
		sink := &scriptedSink{responses: []*Response{{OK: true, Status: 200}}, errs: []error{nil}}
		adapter := NewRetryingAdapter(sink, fastPolicy(3), nil)

		resp, err := adapter.Send(context.Background(), "http://test.com", testBatch(), nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Status)
		assert.Equal(t, 1, sink.calls)
	})

	t.Run("should retry network errors until success", func(t *testing.T) {
		sink := &scriptedSink{
			responses: []*Response{nil, nil, {OK: true, Status: 200}},
			errs:      []error{errors.New("dial"), errors.New("dial"), nil},
		}
		adapter := NewRetryingAdapter(sink, fastPolicy(3), NewNoOpLoggerAdapter())

		resp, err := adapter.Send(context.Background(), "http://test.com", testBatch(), nil)
		require.NoError(t, err)
		assert.True(t, resp.OK)
		assert.Equal(t, 3, sink.calls)
	})

	t.Run("should return last network error when retries are exhausted", func(t *testing.T) {
		sink := &scriptedSink{responses: []*Response{nil}, errs: []error{errors.New("dial")}}
		adapter := NewRetryingAdapter(sink, fastPolicy(2), nil)

		_, err := adapter.Send(context.Background(), "http://test.com", testBatch(), nil)
		require.EqualError(t, err, "dial")
		assert.Equal(t, 3, sink.calls)
	})

	t.Run("should retry 5xx and surface the final status", func(t *testing.T) {
		sink := &scriptedSink{responses: []*Response{{Status: 503}}, errs: []error{nil}}
		adapter := NewRetryingAdapter(sink, fastPolicy(1), nil)

		resp, err := adapter.Send(context.Background(), "http://test.com", testBatch(), nil)
		require.NoError(t, err)
		assert.Equal(t, 503, resp.Status)
		assert.Equal(t, 2, sink.calls)
	})

	t.Run("should not retry 4xx", func(t *testing.T) {
		sink := &scriptedSink{responses: []*Response{{Status: 400}}, errs: []error{nil}}
		adapter := NewRetryingAdapter(sink, fastPolicy(3), nil)

		resp, err := adapter.Send(context.Background(), "http://test.com", testBatch(), nil)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.Status)
		assert.Equal(t, 1, sink.calls)
	})

	t.Run("should stop when the context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		sink := &scriptedSink{responses: []*Response{nil}, errs: []error{context.Canceled}}
		adapter := NewRetryingAdapter(sink, fastPolicy(5), nil)

		_, err := adapter.Send(ctx, "http://test.com", testBatch(), nil)
		require.Error(t, err)
		assert.Equal(t, 1, sink.calls)
	})
}

func TestNewRetryingAdapter_Defaults(t *testing.T) {
	adapter := NewRetryingAdapter(&scriptedSink{}, RetryPolicy{MaxRetries: -1, InitialInterval: time.Minute}, nil)
	assert.Equal(t, 0, adapter.policy.MaxRetries)
	assert.Equal(t, 30*time.Second, adapter.policy.MaxInterval)
	assert.Equal(t, 30*time.Second, adapter.policy.InitialInterval)
}
