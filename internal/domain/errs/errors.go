// Package errs holds the error kinds shared by every ledger operation.
// Callers branch on kind with errors.Is and read figures with errors.As.
package errs

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kinds. Wrap them, never return them bare from the engine.
var (
	// ErrBadRequest is a precondition, state-machine or validation failure.
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound is an unknown id.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientFunds is a capital or wallet shortfall.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnauthorized is an ownership mismatch.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidAmount is an arithmetic invariant violation. Treated as a bug.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Error is a kinded error with a caller-facing message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func BadRequest(format string, args ...any) error {
	return &Error{Kind: ErrBadRequest, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) error {
	return &Error{Kind: ErrUnauthorized, Msg: fmt.Sprintf(format, args...)}
}

func InvalidAmount(format string, args ...any) error {
	return &Error{Kind: ErrInvalidAmount, Msg: fmt.Sprintf(format, args...)}
}

// Subject of an InsufficientFundsError.
type Subject string

const (
	SubjectCapital Subject = "capital"
	SubjectWallet  Subject = "wallet"
)

// InsufficientFundsError reports the exact figures of a shortfall.
// A wallet shortfall also matches ErrBadRequest so callers that only know
// the "insufficient balance" precondition keep working.
type InsufficientFundsError struct {
	Subject   Subject
	Available decimal.Decimal
	Requested decimal.Decimal
	Shortfall decimal.Decimal
}

// NewInsufficientFunds fills Shortfall from available and requested.
func NewInsufficientFunds(subject Subject, available, requested decimal.Decimal) *InsufficientFundsError {
	short := requested.Sub(available)
	if short.IsNegative() {
		short = decimal.Zero
	}
	return &InsufficientFundsError{
		Subject:   subject,
		Available: available.Round(2),
		Requested: requested.Round(2),
		Shortfall: short.Round(2),
	}
}

func (e *InsufficientFundsError) Error() string {
	if e.Subject == SubjectCapital {
		return fmt.Sprintf("insufficient capital: current %s, required %s, need %s more",
			e.Available.StringFixed(2), e.Requested.StringFixed(2), e.Shortfall.StringFixed(2))
	}
	return fmt.Sprintf("insufficient balance: available %s, requested %s",
		e.Available.StringFixed(2), e.Requested.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrBadRequest && e.Subject == SubjectWallet
}

// Kind returns the matching kind sentinel, or nil for foreign errors.
func Kind(err error) error {
	for _, k := range []error{ErrInsufficientFunds, ErrNotFound, ErrUnauthorized, ErrInvalidAmount, ErrBadRequest} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
