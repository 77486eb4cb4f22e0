package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"
	HeaderUserID    = "Ax-User-Id"
	// set on responses served from the store
	HeaderReplayed = "Ax-Idempotent-Replay"
)

var (
	reUUID  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
	reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
)

// stamp identifies one client attempt.
type stamp struct {
	requestID string
	userID    string
	at        time.Time
}

func parseStamp(id, at, user string, now time.Time, skew time.Duration) (stamp, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	switch {
	case id == "":
		return stamp{}, errors.New("missing " + HeaderRequestID)
	case !reUUID.MatchString(id) && !reHex32.MatchString(id):
		return stamp{}, errors.New("invalid " + HeaderRequestID + " format")
	}
	t, err := parseRequestAt(at)
	if err != nil {
		return stamp{}, err
	}
	if t.Before(now.Add(-skew)) || t.After(now.Add(skew)) {
		return stamp{}, errors.New(HeaderRequestAt + " too skewed")
	}
	user = strings.TrimSpace(user)
	switch {
	case user == "":
		return stamp{}, errors.New("missing " + HeaderUserID)
	case !reHex32.MatchString(user):
		return stamp{}, errors.New("invalid " + HeaderUserID)
	}
	return stamp{requestID: id, userID: user, at: t}, nil
}

// parseRequestAt takes epoch seconds, epoch milliseconds, or RFC3339 with
// an explicit zone. Zone-less timestamps are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}

// key scopes an attempt to route and user so two users can reuse an id.
func (s stamp) key(method, route string) string {
	return "idemp:pawnshop:" + s.userID + ":" + strings.ToLower(method) + ":" + route + ":" + s.requestID
}

func digest(b []byte) string { sum := sha256.Sum256(b); return hex.EncodeToString(sum[:]) }
