package telemetry

import (
	"context"
	"log/slog"
)

// Logger writes events as structured log lines.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

func (l *Logger) Record(ctx context.Context, e Event) {
	attrs := []any{
		"event", e.Name,
		"attempt_id", e.AttemptID,
		"client_id", e.ClientID,
		"view", e.View,
	}
	if e.RequestID != "" {
		attrs = append(attrs, "request_id", e.RequestID)
	}
	for k, v := range e.Tags {
		attrs = append(attrs, "tag_"+k, v)
	}
	l.logger.InfoContext(ctx, "telemetry event", attrs...)
}
