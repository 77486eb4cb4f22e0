package notify

import "context"

type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeveritySuccess Severity = "SUCCESS"
	SeverityWarning Severity = "WARNING"
)

// Sink delivers a user-facing message. Callers never roll back on its error.
type Sink interface {
	Notify(ctx context.Context, userID, message string, severity Severity) error
}

// Message is one queued notification.
type Message struct {
	UserID   string   `json:"user_id"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}
