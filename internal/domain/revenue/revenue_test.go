package revenue

import (
	"math/rand"
	"testing"

	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/money"
	"pawnshop-ledger/internal/domain/txlog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	base   = decimal.NewFromInt(1000)
	markup = decimal.RequireFromString("1.05")
)

func entry(a txlog.Action, amt decimal.Decimal) txlog.Entry {
	return txlog.Entry{Action: a, Amount: decimal.NewNullDecimal(amt)}
}

// book mirrors what the engine writes for each lifecycle step.
type book struct {
	loans   []loan.Loan
	entries []txlog.Entry
}

func (b *book) fund(i int, principal decimal.Decimal, rate int) {
	l := &b.loans[i]
	l.Principal, l.InterestRate, l.Penalty, l.Status = principal, rate, decimal.Zero, loan.StatusActive
	b.entries = append(b.entries, entry(txlog.ActionLoanCreated, principal))
}

func (b *book) redeem(i int) {
	l := &b.loans[i]
	total := l.TotalRedeemAmount()
	l.Realized = l.Realized.Add(total.Sub(l.Principal))
	l.Status = loan.StatusPaid
	b.entries = append(b.entries,
		entry(txlog.ActionLoanPaid, total),
		entry(txlog.ActionInterestEarned, total.Sub(l.Principal)),
	)
}

func (b *book) forfeit(i int) {
	l := &b.loans[i]
	l.Status = loan.StatusDefaulted
	b.entries = append(b.entries, entry(txlog.ActionLoanForfeited, money.ScaleBy(l.Principal, markup)))
}

func TestExample_FundRedeemForfeit(t *testing.T) {
	b := &book{loans: make([]loan.Loan, 2)}

	b.fund(0, decimal.NewFromInt(500), 5)
	require.True(t, Reconstruct(base, b.entries).Equal(decimal.NewFromInt(500)))

	b.redeem(0)
	r := NewReport(base, markup, b.entries, b.loans)
	assert.True(t, r.Capital.Equal(decimal.NewFromInt(1025)), "capital %s", r.Capital)
	assert.True(t, r.Accumulated.Equal(decimal.NewFromInt(1025)), "accumulated %s", r.Accumulated)
	// 525 redeemed plus the 500 that never left
	assert.True(t, r.GrossRedeemed.Add(decimal.NewFromInt(500)).Equal(r.Capital))
	assert.True(t, r.Consistent)

	b.fund(1, decimal.NewFromInt(200), 5)
	onLoan := Reconstruct(base, b.entries)
	b.forfeit(1)
	after := Reconstruct(base, b.entries)
	assert.True(t, after.Sub(onLoan).Equal(decimal.NewFromInt(210)), "forfeit delta %s", after.Sub(onLoan))
	assert.True(t, NewReport(base, markup, b.entries, b.loans).Consistent)
}

func TestReconstructAndAccumulateNeverDiverge(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 200; run++ {
		n := 1 + rng.Intn(6)
		b := &book{loans: make([]loan.Loan, n)}
		funded := make([]bool, n)
		for step := 0; step < 30; step++ {
			i := rng.Intn(n)
			l := &b.loans[i]
			switch {
			case !funded[i] || l.Status == loan.StatusPaid:
				cents := int64(100 + rng.Intn(100000))
				b.fund(i, decimal.New(cents, -2), rng.Intn(11))
				funded[i] = true
			case l.Status == loan.StatusActive && rng.Intn(3) == 0:
				l.Penalty = l.Penalty.Add(decimal.New(int64(rng.Intn(5000)), -2))
			case l.Status == loan.StatusActive && rng.Intn(2) == 0:
				b.redeem(i)
			case l.Status == loan.StatusActive:
				b.forfeit(i)
			}
			r := NewReport(base, markup, b.entries, b.loans)
			require.Truef(t, r.Consistent, "run %d step %d: reconstructed %s, accumulated %s",
				run, step, r.Capital, r.Accumulated)
		}
	}
}

func TestAdjustmentsApplyToBoth(t *testing.T) {
	b := &book{loans: make([]loan.Loan, 1)}
	b.fund(0, decimal.NewFromInt(300), 5)
	b.entries = append(b.entries,
		entry(txlog.ActionCapitalAdjustment, decimal.NewFromInt(-100)),
		entry(txlog.ActionCapitalAdjustment, decimal.NewFromInt(40)),
		entry(txlog.ActionCashIn, decimal.NewFromInt(9999)),
	)
	r := NewReport(base, markup, b.entries, b.loans)
	assert.True(t, r.Adjustments.Equal(decimal.NewFromInt(-60)))
	assert.True(t, r.Capital.Equal(decimal.NewFromInt(640)), "capital %s", r.Capital)
	assert.True(t, r.Consistent)
	assert.True(t, r.OutOnLoan.Equal(decimal.NewFromInt(300)))
}

func TestReconstruct_IgnoresMissingAmounts(t *testing.T) {
	entries := []txlog.Entry{{Action: txlog.ActionLoanCreated, Remarks: "Loan of ₱500.00"}}
	assert.True(t, Reconstruct(base, entries).Equal(base))
}
