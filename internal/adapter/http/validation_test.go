package http

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageFor(t *testing.T, err error, field string) string {
	t.Helper()
	require.Error(t, err)
	for _, fe := range ToFieldErrors(err) {
		if fe.Field == field {
			return fe.Message
		}
	}
	t.Fatalf("no error reported for %q in %v", field, err)
	return ""
}

func TestValidator_IDs(t *testing.T) {
	type redeem struct {
		LoanID string `json:"loan_id" validate:"hex32"`
	}
	cv := NewValidator()
	require.NoError(t, cv.Validate(redeem{LoanID: "0123456789abcdef0123456789abcdef"}))

	for _, bad := range []string{
		"",
		"0123456789ABCDEF0123456789ABCDEF",
		"0123456789abcdef",
		"0123456789abcdef0123456789abcdeg",
		"0123456789abcdef0123456789abcdef0",
	} {
		msg := messageFor(t, cv.Validate(redeem{LoanID: bad}), "loan_id")
		assert.Contains(t, msg, "32-char lowercase hex", bad)
	}
}

func TestValidator_MoneyAmounts(t *testing.T) {
	type cashIn struct {
		Amount decimal.Decimal `json:"amount" validate:"required,gt=0,dec2"`
	}
	cv := NewValidator()

	for _, ok := range []string{"0.01", "0.29", "19.99", "250000"} {
		assert.NoError(t, cv.Validate(cashIn{Amount: decimal.RequireFromString(ok)}), ok)
	}
	for in, want := range map[string]string{
		"0":      "is required",
		"-12.50": "greater than 0",
		"3.005":  "at most 2 decimal places",
	} {
		msg := messageFor(t, cv.Validate(cashIn{Amount: decimal.RequireFromString(in)}), "amount")
		assert.Contains(t, msg, want, in)
	}
}

func TestValidator_UnknownTagAndLength(t *testing.T) {
	type remarks struct {
		Remarks string `json:"remarks" validate:"max=5"`
		Email   string `json:"-" validate:"omitempty,email"`
	}
	cv := NewValidator()
	assert.Equal(t, "must be at most 5 long", messageFor(t, cv.Validate(remarks{Remarks: strings.Repeat("x", 6)}), "remarks"))
	assert.Equal(t, "email validation failed", messageFor(t, cv.Validate(remarks{Email: "nope"}), "Email"))
}

func TestToFieldErrors_ForeignError(t *testing.T) {
	assert.Equal(t, []FieldError{{Field: "_", Message: "boom"}}, ToFieldErrors(errors.New("boom")))
}
