package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pawnshop-ledger/internal/config"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects to the Redis that backs idempotency keys and
// notification inboxes. An empty REDIS_ADDR disables Redis and yields nil.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	r := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}
	slog.Info("redis: connected", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return r, nil
}
