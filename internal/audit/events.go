package audit

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Event types emitted by the guardrail pipeline. Types carrying the
// "BLOCKED" marker denote decisions that suppressed content.
const (
	EventInputBlocked  = "INPUT_BLOCKED"
	EventInputWarning  = "INPUT_WARNING"
	EventInputPassed   = "INPUT_PASSED"
	EventOutputBlocked = "OUTPUT_BLOCKED"
	EventOutputWarning = "OUTPUT_WARNING"
	EventOutputPassed  = "OUTPUT_PASSED"
)

// ContentPreviewLength is the max chars persisted from triggering content.
// Full PII-bearing text is never written to the audit trail.
const ContentPreviewLength = 100

// Event is a single guardrail decision record. Immutable once written;
// consumers must tolerate unknown future fields.
type Event struct {
	Timestamp      time.Time      `json:"timestamp"`
	EventType      string         `json:"event_type"`
	Rule           string         `json:"rule"`
	ContentPreview string         `json:"content_preview"`
	Details        map[string]any `json:"details"`
}

// EventWriter persists guardrail events to a durable append-only sink.
// Write() must NEVER block the caller.
type EventWriter interface {
	Write(event *Event)
	Close()
}

// TruncateContent returns the first maxLen characters (runes) of content for
// preview storage. It never splits a multi-byte UTF-8 character.
func TruncateContent(content string, maxLen int) string {
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	return string(runes[:maxLen])
}

// Logger builds events and routes them to the durable sink, mirroring each
// one to the process log at a severity derived from the event type.
type Logger struct {
	writer EventWriter
	zlog   *zap.Logger
}

// NewLogger creates an audit logger writing to the given sink.
func NewLogger(writer EventWriter, zlog *zap.Logger) *Logger {
	return &Logger{writer: writer, zlog: zlog}
}

// LogEvent records one guardrail decision. Fire-and-forget: a failing sink
// never aborts the decision already made. BLOCKED events log at warn,
// WARNING events at info, everything else at debug — advisory routing for
// downstream log filtering.
func (l *Logger) LogEvent(eventType, rule, content string, details map[string]any) {
	event := &Event{
		Timestamp:      time.Now().UTC(),
		EventType:      eventType,
		Rule:           rule,
		ContentPreview: TruncateContent(content, ContentPreviewLength),
		Details:        details,
	}

	switch {
	case strings.Contains(eventType, "BLOCKED"):
		l.zlog.Warn("guardrail_event",
			zap.String("event_type", eventType),
			zap.String("rule", rule),
			zap.String("content_preview", event.ContentPreview),
		)
	case strings.Contains(eventType, "WARNING"):
		l.zlog.Info("guardrail_event",
			zap.String("event_type", eventType),
			zap.String("rule", rule),
			zap.String("content_preview", event.ContentPreview),
		)
	default:
		l.zlog.Debug("guardrail_event",
			zap.String("event_type", eventType),
			zap.String("rule", rule),
		)
	}

	l.writer.Write(event)
}
