package middleware

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestParseRequestAt(t *testing.T) {
	ref := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{"epoch seconds", strconv.FormatInt(ref.Unix(), 10), ref, true},
		{"epoch millis", strconv.FormatInt(ref.UnixMilli(), 10), ref, true},
		{"rfc3339 zulu", "2025-06-01T09:00:00Z", ref, true},
		{"rfc3339 offset", "2025-06-01T16:00:00+07:00", ref, true},
		{"rfc3339 nano", "2025-06-01T09:00:00.000000000Z", ref, true},
		{"empty", "  ", time.Time{}, false},
		{"no zone", "2025-06-01T09:00:00", time.Time{}, false},
		{"garbage", "tomorrow", time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseRequestAt(tc.in)
			if tc.ok != (err == nil) {
				t.Fatalf("parseRequestAt(%q) err = %v, want ok=%v", tc.in, err, tc.ok)
			}
			if tc.ok && !got.Equal(tc.want) {
				t.Fatalf("parseRequestAt(%q) = %v, want %v", tc.in, got, tc.want)
			}
			if tc.ok && got.Location() != time.UTC {
				t.Fatalf("expected UTC, got %v", got.Location())
			}
		})
	}
}

func TestParseStamp(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	at := now.Format(time.RFC3339)
	id := strings.Repeat("a", 32)
	user := strings.Repeat("b", 32)

	cases := []struct {
		name           string
		id, at, user   string
		wantErrContain string
	}{
		{"hex id", id, at, user, ""},
		{"uuid id upper", "3F2504E0-4F89-41D3-9A0C-0305E82C3301", at, user, ""},
		{"missing id", "", at, user, "missing Ax-Request-Id"},
		{"bad id", "NOT-VALID", at, user, "invalid Ax-Request-Id"},
		{"bad time", id, "not-a-time", user, "Ax-Request-At"},
		{"too old", id, now.Add(-maxClockSkew - time.Minute).Format(time.RFC3339), user, "too skewed"},
		{"too new", id, now.Add(maxClockSkew + time.Minute).Format(time.RFC3339), user, "too skewed"},
		{"missing user", id, at, "", "missing Ax-User-Id"},
		{"bad user", id, at, "not32hex", "invalid Ax-User-Id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := parseStamp(tc.id, tc.at, tc.user, now, maxClockSkew)
			if tc.wantErrContain == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if s.userID != user || s.requestID != strings.ToLower(strings.TrimSpace(tc.id)) {
					t.Fatalf("unexpected stamp %+v", s)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErrContain) {
				t.Fatalf("err = %v, want containing %q", err, tc.wantErrContain)
			}
		})
	}
}

func TestStampKey_ScopesUserAndRoute(t *testing.T) {
	a := stamp{requestID: strings.Repeat("a", 32), userID: strings.Repeat("b", 32)}
	b := stamp{requestID: a.requestID, userID: strings.Repeat("c", 32)}

	k := a.key("POST", "/v1/wallet/cash-in")
	if !strings.HasPrefix(k, "idemp:pawnshop:"+a.userID+":post:/v1/wallet/cash-in:") {
		t.Fatalf("unexpected key %q", k)
	}
	if k == b.key("POST", "/v1/wallet/cash-in") {
		t.Fatal("different users must not share a key")
	}
	if k == a.key("POST", "/v1/wallet/cash-out") {
		t.Fatal("different routes must not share a key")
	}
}

func TestDigest(t *testing.T) {
	if digest([]byte(`{"amount":"1"}`)) == digest([]byte(`{"amount":"2"}`)) {
		t.Fatal("distinct bodies must hash differently")
	}
	if len(digest(nil)) != 64 {
		t.Fatal("digest must be hex sha256")
	}
}
