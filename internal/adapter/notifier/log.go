package notifier

import (
	"context"
	"log/slog"

	"pawnshop-ledger/internal/domain/notify"
)

var _ notify.Sink = (*LogSink)(nil)

// LogSink writes notifications to the log. Used when Redis is not configured.
type LogSink struct{ log *slog.Logger }

func NewLogSink(l *slog.Logger) *LogSink { return &LogSink{log: l} }

func (s *LogSink) Notify(ctx context.Context, userID, message string, severity notify.Severity) error {
	s.log.InfoContext(ctx, "notification", "user_id", userID, "severity", string(severity), "message", message)
	return nil
}
