package adapters

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger := NewSlogLoggerAdapter(base)

	logger.Debug("hidden %d", 1)
	logger.Info("sent batch of %d events", 2)
	logger.Error("sink failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `msg="sent batch of 2 events"`)
	assert.Contains(t, out, "component=ama")
	assert.Contains(t, out, "level=ERROR")
}

func TestSlogLoggerAdapter_DefaultLogger(t *testing.T) {
	logger := NewSlogLoggerAdapter(nil)
	var _ LoggerAdapter = logger
	logger.Warn("no panic with default logger")
}
