package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// how long a pending attempt blocks retries if the process dies mid-request
	pendingTTL = 60 * time.Second
	// allowed client/server clock difference on Ax-Request-At
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

// capture tees the handler's response so it can be stored for replay.
type capture struct {
	http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (c *capture) WriteHeader(code int) { c.code = code; c.ResponseWriter.WriteHeader(code) }

func (c *capture) Write(b []byte) (int, error) {
	c.buf.Write(b)
	return c.ResponseWriter.Write(b)
}

// IdempotencyMiddleware makes mutating ledger calls safe to retry. A retry
// with the same request id, user, route and body gets the stored response;
// a different body is a conflict. Server errors are not stored.
func IdempotencyMiddleware(rdb redis.Cmdable, ttl time.Duration) echo.MiddlewareFunc {
	st := store{rdb: rdb}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			s, err := parseStamp(req.Header.Get(HeaderRequestID), req.Header.Get(HeaderRequestAt),
				req.Header.Get(HeaderUserID), time.Now().UTC(), maxClockSkew)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			sum := digest(body)
			key := s.key(req.Method, c.Path())

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()
			won, err := st.claim(ctx, key, sum, pendingTTL)
			if err != nil {
				slog.WarnContext(ctx, "idempotency: claim", "key", key, "err", err)
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !won {
				return replay(ctx, c, st, key, sum)
			}

			w := &capture{ResponseWriter: c.Response().Writer, code: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			// detached: the client may already be gone
			bg, cancelBg := context.WithTimeout(context.Background(), storeTimeout)
			defer cancelBg()
			if w.code >= http.StatusInternalServerError {
				if err := st.release(bg, key); err != nil {
					slog.Warn("idempotency: release", "key", key, "err", err)
				}
				return nil
			}
			if err := st.finish(bg, key, w.code, w.buf.Bytes(), ttl); err != nil {
				slog.Warn("idempotency: store response", "key", key, "err", err)
			}
			return nil
		}
	}
}

func replay(ctx context.Context, c echo.Context, st store, key, sum string) error {
	rec, err := st.load(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "idempotency: load", "key", key, "err", err)
		return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
	}
	if rec.digest != "" && rec.digest != sum {
		return c.JSON(http.StatusConflict, map[string]string{"error": HeaderRequestID + " reused with different body"})
	}
	if rec.state != stateDone || rec.code == 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
	}
	c.Response().Header().Set(HeaderReplayed, "true")
	return c.Blob(rec.code, echo.MIMEApplicationJSON, rec.body)
}
