package audit

import (
	"go.uber.org/zap"
)

// LogWriter is a fallback EventWriter for local development.
// It logs events as structured JSON to stdout via zap.
type LogWriter struct {
	logger *zap.Logger
}

// NewLogWriter creates a LogWriter that outputs events to the given logger.
func NewLogWriter(logger *zap.Logger) *LogWriter {
	return &LogWriter{logger: logger}
}

func (w *LogWriter) Write(event *Event) {
	w.logger.Info("guardrail_event_record",
		zap.Time("timestamp", event.Timestamp),
		zap.String("event_type", event.EventType),
		zap.String("rule", event.Rule),
		zap.String("content_preview", event.ContentPreview),
		zap.Any("details", event.Details),
	)
}

func (w *LogWriter) Close() {}
