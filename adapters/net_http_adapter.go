package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// NetHTTPAdapter is the standard sink adapter implementation using net/http package.
// Batches are sent with PUT as a JSON document.
type NetHTTPAdapter struct {
	client   *http.Client
	compress bool
}

// Ensure NetHTTPAdapter implements SinkAdapter interface
var _ SinkAdapter = (*NetHTTPAdapter)(nil)

// NetHTTPOption customizes a NetHTTPAdapter.
type NetHTTPOption func(*NetHTTPAdapter)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(client *http.Client) NetHTTPOption {
	return func(h *NetHTTPAdapter) {
		if client != nil {
			h.client = client
		}
	}
}

// WithTimeout sets the timeout of the underlying http.Client. Zero means no timeout.
func WithTimeout(timeout time.Duration) NetHTTPOption {
	return func(h *NetHTTPAdapter) {
		h.client.Timeout = timeout
	}
}

// WithGzip enables gzip compression of request bodies.
func WithGzip(enabled bool) NetHTTPOption {
	return func(h *NetHTTPAdapter) {
		h.compress = enabled
	}
}

// NewNetHTTPAdapter creates a new NetHTTPAdapter instance.
func NewNetHTTPAdapter(opts ...NetHTTPOption) *NetHTTPAdapter {
	h := &NetHTTPAdapter{
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Send sends the batch to the specified endpoint with the given headers.
// Non-2xx statuses are reported through the response, not as errors.
func (h *NetHTTPAdapter) Send(ctx context.Context, endpoint string, batch *Batch, headers map[string]string) (*Response, error) {
	jsonData, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}

	body := jsonData
	if h.compress {
		if body, err = gzipBytes(jsonData); err != nil {
			return nil, fmt.Errorf("failed to compress batch: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if h.compress {
		req.Header.Set("Content-Encoding", "gzip")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	result := &Response{
		Status: resp.StatusCode,
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return result, nil
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return result, fmt.Errorf("malformed response: %w", err)
		}
		result.Data = data
		return result, nil
	}
	result.Data = string(raw)
	return result, nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
