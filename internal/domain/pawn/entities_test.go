package pawn

import (
	"errors"
	"testing"
	"time"

	"pawnshop-ledger/internal/domain/errs"

	"github.com/shopspring/decimal"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusOfferMade, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusAccepted, false},
		{StatusOfferMade, StatusAccepted, true},
		{StatusOfferMade, StatusRejected, true},
		{StatusAccepted, StatusPawned, true},
		{StatusAccepted, StatusRejected, false},
		{StatusPawned, StatusRedeemed, true},
		{StatusPawned, StatusForfeited, true},
		{StatusRedeemed, StatusPending, true},
		{StatusRejected, StatusPending, false},
		{StatusForfeited, StatusPending, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestMoveTo(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &PawnRequest{PawnID: "p1", Status: StatusOfferMade}
	if err := p.MoveTo(StatusAccepted, now); err != nil {
		t.Fatalf("MoveTo: %v", err)
	}
	if p.Status != StatusAccepted || !p.StatusUpdatedAt.Equal(now) {
		t.Fatalf("unexpected state %+v", p)
	}
	if err := p.MoveTo(StatusRedeemed, now); !errors.Is(err, errs.ErrBadRequest) {
		t.Fatalf("want ErrBadRequest, got %v", err)
	}
	if p.Status != StatusAccepted {
		t.Fatalf("failed transition must not change status")
	}
}

func TestOutstandingAndOffered(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusOfferMade, StatusAccepted} {
		if !s.IsOutstanding() {
			t.Fatalf("%s should be outstanding", s)
		}
	}
	for _, s := range []Status{StatusRejected, StatusPawned, StatusRedeemed, StatusForfeited} {
		if s.IsOutstanding() {
			t.Fatalf("%s should not be outstanding", s)
		}
	}

	p := &PawnRequest{}
	if _, ok := p.Offered(); ok {
		t.Fatalf("no offer yet")
	}
	p.OfferedAmount = decimal.NewNullDecimal(decimal.NewFromInt(500))
	if v, ok := p.Offered(); !ok || !v.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("Offered = %s, %v", v, ok)
	}
}
