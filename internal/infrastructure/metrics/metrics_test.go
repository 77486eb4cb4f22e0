package metrics

import (
	"errors"
	"testing"

	"pawnshop-ledger/internal/domain/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestOutcome(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{errs.BadRequest("x"), "bad_request"},
		{errs.NotFound("x"), "not_found"},
		{errs.Unauthorized("x"), "unauthorized"},
		{errs.InvalidAmount("x"), "invalid_amount"},
		{errs.NewInsufficientFunds(errs.SubjectWallet, decimal.Zero, decimal.NewFromInt(1)), "insufficient_funds"},
		{errors.New("db gone"), "error"},
	}
	for _, c := range cases {
		if got := Outcome(c.err); got != c.want {
			t.Errorf("Outcome(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestLedger_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Transition("fund", nil)
	m.Transition("fund", nil)
	m.Transition("fund", errs.NewInsufficientFunds(errs.SubjectCapital, decimal.Zero, decimal.NewFromInt(5)))
	m.Capital(decimal.RequireFromString("1025.50"))
	m.Redeemed(decimal.NewFromInt(525))
	m.Redeemed(decimal.NewFromInt(100))

	if got := testutil.ToFloat64(m.transitions.WithLabelValues("fund", "ok")); got != 2 {
		t.Fatalf("fund/ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.transitions.WithLabelValues("fund", "insufficient_funds")); got != 1 {
		t.Fatalf("fund/insufficient_funds = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.capital); got != 1025.5 {
		t.Fatalf("capital = %v", got)
	}
	if got := testutil.ToFloat64(m.redeemed); got != 625 {
		t.Fatalf("redeemed = %v", got)
	}
	if n, err := testutil.GatherAndCount(reg); err != nil || n != 4 {
		t.Fatalf("gathered %d series, err %v", n, err)
	}
}
