package notifymock

import (
	"context"
	"sync"

	"pawnshop-ledger/internal/domain/notify"
)

var _ notify.Sink = (*Sink)(nil)

// Sink records deliveries. NotifyFn, when set, decides the result.
type Sink struct {
	NotifyFn func(ctx context.Context, userID, message string, severity notify.Severity) error

	mu   sync.Mutex
	Sent []notify.Message
}

func (s *Sink) Notify(ctx context.Context, userID, message string, severity notify.Severity) error {
	if s.NotifyFn != nil {
		if err := s.NotifyFn(ctx, userID, message, severity); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.Sent = append(s.Sent, notify.Message{UserID: userID, Message: message, Severity: severity})
	s.mu.Unlock()
	return nil
}

func (s *Sink) Messages() []notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Message(nil), s.Sent...)
}
