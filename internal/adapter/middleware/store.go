package middleware

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Attempts are Redis hashes: state, body digest, then status and body once done.
const (
	fieldState  = "state"
	fieldDigest = "digest"
	fieldCode   = "code"
	fieldBody   = "body"

	statePending = "pending"
	stateDone    = "done"
)

type record struct {
	state  string
	digest string
	code   int
	body   []byte
}

type store struct{ rdb redis.Cmdable }

// claim marks the attempt pending. It reports false when another attempt
// already holds the key.
func (s store) claim(ctx context.Context, key, digest string, hold time.Duration) (bool, error) {
	won, err := s.rdb.HSetNX(ctx, key, fieldState, statePending).Result()
	if err != nil || !won {
		return false, err
	}
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, fieldDigest, digest)
	pipe.Expire(ctx, key, hold)
	if _, err := pipe.Exec(ctx); err != nil {
		_ = s.release(ctx, key)
		return false, err
	}
	return true, nil
}

func (s store) load(ctx context.Context, key string) (record, error) {
	m, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return record{}, err
	}
	if len(m) == 0 {
		return record{}, redis.Nil
	}
	r := record{state: m[fieldState], digest: m[fieldDigest], body: []byte(m[fieldBody])}
	if c, ok := m[fieldCode]; ok {
		if r.code, err = strconv.Atoi(c); err != nil {
			return record{}, errors.New("corrupt idempotency record " + key)
		}
	}
	return r, nil
}

func (s store) finish(ctx context.Context, key string, code int, body []byte, ttl time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, fieldState, stateDone, fieldCode, code, fieldBody, body)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s store) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
