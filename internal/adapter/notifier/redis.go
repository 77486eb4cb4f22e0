package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pawnshop-ledger/internal/domain/notify"

	"github.com/redis/go-redis/v9"
)

var _ notify.Sink = (*RedisSink)(nil)

// per-user inbox length
const inboxSize = 100

// RedisSink keeps a capped inbox per user and publishes each message on
// a channel for live consumers.
type RedisSink struct {
	rdb     *redis.Client
	channel string
	now     func() time.Time
}

func NewRedisSink(rdb *redis.Client, channel string) *RedisSink {
	return &RedisSink{rdb: rdb, channel: channel, now: func() time.Time { return time.Now().UTC() }}
}

func inboxKey(userID string) string { return "notifications:" + userID }

type envelope struct {
	notify.Message
	SentAt time.Time `json:"sent_at"`
}

func (s *RedisSink) Notify(ctx context.Context, userID, message string, severity notify.Severity) error {
	raw, err := json.Marshal(envelope{
		Message: notify.Message{UserID: userID, Message: message, Severity: severity},
		SentAt:  s.now(),
	})
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, inboxKey(userID), raw)
	pipe.LTrim(ctx, inboxKey(userID), 0, inboxSize-1)
	if s.channel != "" {
		pipe.Publish(ctx, s.channel, raw)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("notify %s: %w", userID, err)
	}
	return nil
}

// Inbox returns up to n queued messages, newest first.
func (s *RedisSink) Inbox(ctx context.Context, userID string, n int64) ([]notify.Message, error) {
	if n <= 0 || n > inboxSize {
		n = inboxSize
	}
	raws, err := s.rdb.LRange(ctx, inboxKey(userID), 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]notify.Message, 0, len(raws))
	for _, r := range raws {
		var e envelope
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			continue
		}
		out = append(out, e.Message)
	}
	return out, nil
}
