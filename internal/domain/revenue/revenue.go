// Package revenue computes the shop's available capital two ways.
//
// Reconstruct replays the structured amounts of the transaction log and is
// the figure the engine gates funding on. Accumulate derives the same
// number from the current loan rows. For any history of funding,
// redemption, forfeiture and renewal with a fixed markup the two agree.
package revenue

import (
	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/money"
	"pawnshop-ledger/internal/domain/txlog"

	"github.com/shopspring/decimal"
)

// Reconstruct folds log entries onto base. Remarks are never read.
func Reconstruct(base decimal.Decimal, entries []txlog.Entry) decimal.Decimal {
	capital := base
	for i := range entries {
		e := &entries[i]
		amt := e.AmountOrZero()
		switch e.Action {
		case txlog.ActionLoanCreated:
			capital = capital.Sub(amt)
		case txlog.ActionLoanPaid, txlog.ActionLoanForfeited, txlog.ActionCapitalAdjustment:
			capital = capital.Add(amt)
		}
	}
	return money.Round(capital)
}

// Adjustments sums manual CAPITAL_ADJUSTMENT amounts.
func Adjustments(entries []txlog.Entry) decimal.Decimal {
	sum := decimal.Zero
	for i := range entries {
		if entries[i].Action == txlog.ActionCapitalAdjustment {
			sum = sum.Add(entries[i].AmountOrZero())
		}
	}
	return sum
}

// Accumulation is capital derived from loan state.
type Accumulation struct {
	Capital decimal.Decimal
	// Sum of totalRedeemAmount over loans currently PAID
	GrossRedeemed decimal.Decimal
	OutOnLoan     decimal.Decimal
	Realized      decimal.Decimal
	Forfeited     decimal.Decimal
}

// Accumulate computes
//
//	base - sum(ACTIVE principal) + sum(realized) + sum(DEFAULTED principal*(markup-1)) + adjustments
func Accumulate(base, markup decimal.Decimal, loans []loan.Loan, adjustments decimal.Decimal) Accumulation {
	var a Accumulation
	for i := range loans {
		l := &loans[i]
		a.Realized = a.Realized.Add(l.Realized)
		switch l.Status {
		case loan.StatusActive:
			a.OutOnLoan = a.OutOnLoan.Add(l.Principal)
		case loan.StatusPaid:
			a.GrossRedeemed = a.GrossRedeemed.Add(l.TotalRedeemAmount())
		case loan.StatusDefaulted:
			gain := money.ScaleBy(l.Principal, markup).Sub(l.Principal)
			a.Forfeited = a.Forfeited.Add(gain)
		}
	}
	a.Capital = money.Round(base.Sub(a.OutOnLoan).Add(a.Realized).Add(a.Forfeited).Add(adjustments))
	a.GrossRedeemed = money.Round(a.GrossRedeemed)
	return a
}

// Report is what GetCurrentCapital hands back.
type Report struct {
	Base          decimal.Decimal `json:"base"`
	Capital       decimal.Decimal `json:"capital"`
	Accumulated   decimal.Decimal `json:"accumulated"`
	GrossRedeemed decimal.Decimal `json:"gross_redeemed"`
	OutOnLoan     decimal.Decimal `json:"out_on_loan"`
	Adjustments   decimal.Decimal `json:"adjustments"`
	Consistent    bool            `json:"consistent"`
}

func NewReport(base, markup decimal.Decimal, entries []txlog.Entry, loans []loan.Loan) Report {
	adj := Adjustments(entries)
	acc := Accumulate(base, markup, loans, adj)
	capital := Reconstruct(base, entries)
	return Report{
		Base:          base,
		Capital:       capital,
		Accumulated:   acc.Capital,
		GrossRedeemed: acc.GrossRedeemed,
		OutOnLoan:     money.Round(acc.OutOnLoan),
		Adjustments:   money.Round(adj),
		Consistent:    capital.Equal(acc.Capital),
	}
}
