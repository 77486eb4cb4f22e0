// Package money is the fixed-point arithmetic every ledger figure goes through.
// Amounts carry two decimal places and derived values round half-up.
package money

import (
	"strings"

	"pawnshop-ledger/internal/domain/errs"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

const Scale = 2

var hundred = decimal.NewFromInt(100)

// Round applies the ledger rounding mode (half-up, away from zero on .5).
func Round(a decimal.Decimal) decimal.Decimal { return a.Round(Scale) }

func Add(a, b decimal.Decimal) decimal.Decimal { return Round(a.Add(b)) }

// Sub fails when the result would be negative.
func Sub(a, b decimal.Decimal) (decimal.Decimal, error) {
	out := Round(a.Sub(b))
	if out.IsNegative() {
		return decimal.Zero, errs.InvalidAmount("%s - %s is negative", a.StringFixed(Scale), b.StringFixed(Scale))
	}
	return out, nil
}

// PercentOf returns amount * rate / 100.
func PercentOf(amount decimal.Decimal, rate int) decimal.Decimal {
	return Round(amount.Mul(decimal.NewFromInt(int64(rate))).Div(hundred))
}

// ScaleBy multiplies by a factor such as the forfeiture markup.
func ScaleBy(amount, factor decimal.Decimal) decimal.Decimal { return Round(amount.Mul(factor)) }

func IsPositive(a decimal.Decimal) bool { return a.IsPositive() }

func IsZero(a decimal.Decimal) bool { return a.IsZero() }

// Cmp is -1, 0 or +1.
func Cmp(a, b decimal.Decimal) int { return a.Cmp(b) }

func RequirePositive(field string, a decimal.Decimal) error {
	if !a.IsPositive() {
		return errs.InvalidAmount("%s must be positive, got %s", field, a.StringFixed(Scale))
	}
	return nil
}

// Parse reads a decimal string and rejects more than two fractional digits.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, errs.BadRequest("invalid amount %q", s)
	}
	if !d.Equal(d.Truncate(Scale)) {
		return decimal.Zero, errs.BadRequest("amount %q has more than %d decimal places", s, Scale)
	}
	return d, nil
}

var peso = accounting.Accounting{Symbol: "₱", Precision: Scale, Thousand: ",", Decimal: ".", Format: "%s%v", FormatNegative: "-%s%v"}

// Format renders a peso figure such as ₱12,345.60.
func Format(a decimal.Decimal) string {
	ac := peso
	return ac.FormatMoneyDecimal(Round(a))
}
