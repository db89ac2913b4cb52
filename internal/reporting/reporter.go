// Package reporting forwards server-side errors to an external collector.
package reporting

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Event is a single reported error.
type Event struct {
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Internal   string    `json:"internal,omitempty"`
	Operation  string    `json:"operation,omitempty"`
	Path       string    `json:"path,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Service    string    `json:"service"`
	Env        string    `json:"environment"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Reporter delivers error events. Report must not block the request for long
// and must never fail the caller; delivery problems are logged.
type Reporter interface {
	Report(ctx context.Context, event Event)
	Close() error
}

// LogReporter writes events to the structured log. It is the fallback when no
// broker is configured.
type LogReporter struct {
	log *zap.SugaredLogger
}

// NewLogReporter returns a reporter that logs through log.
func NewLogReporter(log *zap.SugaredLogger) *LogReporter {
	return &LogReporter{log: log}
}

// Report logs the event at error level.
func (r *LogReporter) Report(_ context.Context, e Event) {
	r.log.Errorw("reported error",
		"code", e.Code,
		"message", e.Message,
		"internal", e.Internal,
		"operation", e.Operation,
		"path", e.Path,
		"request_id", e.RequestID,
		"user_id", e.UserID,
	)
}

// Close is a no-op.
func (r *LogReporter) Close() error { return nil }

// Nop discards every event.
type Nop struct{}

// Report does nothing.
func (Nop) Report(context.Context, Event) {}

// Close does nothing.
func (Nop) Close() error { return nil }
