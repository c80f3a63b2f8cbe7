package adapters

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogLoggerAdapter forwards messages to a *slog.Logger. The printf-style
// message is formatted before being handed to slog, and the component
// attribute is attached to every record.
type SlogLoggerAdapter struct {
	logger *slog.Logger
}

// NewSlogLoggerAdapter wraps logger; nil uses slog.Default().
func NewSlogLoggerAdapter(logger *slog.Logger) *SlogLoggerAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLoggerAdapter{logger: logger.With(slog.String("component", "ama"))}
}

func (s *SlogLoggerAdapter) log(level slog.Level, message string, args []any) {
	ctx := context.Background()
	if !s.logger.Enabled(ctx, level) {
		return
	}
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	s.logger.Log(ctx, level, message)
}

func (s *SlogLoggerAdapter) Debug(message string, args ...any) {
	s.log(slog.LevelDebug, message, args)
}

func (s *SlogLoggerAdapter) Info(message string, args ...any) {
	s.log(slog.LevelInfo, message, args)
}

func (s *SlogLoggerAdapter) Warn(message string, args ...any) {
	s.log(slog.LevelWarn, message, args)
}

func (s *SlogLoggerAdapter) Error(message string, args ...any) {
	s.log(slog.LevelError, message, args)
}
