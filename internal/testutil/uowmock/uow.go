package uowmock

import (
	"context"
	"errors"

	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/pawn"
	"pawnshop-ledger/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinPawnTxFn func(ctx context.Context, pawnID string, fn func(r uow.Repos, p *pawn.PawnRequest) error) error
	WithinLoanTxFn func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan, p *pawn.PawnRequest) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinPawnTx(fn func(context.Context, string, func(uow.Repos, *pawn.PawnRequest) error) error) *UoW {
	m.WithinPawnTxFn = fn
	return m
}
func (m *UoW) WithWithinLoanTx(fn func(context.Context, string, func(uow.Repos, *loan.Loan, *pawn.PawnRequest) error) error) *UoW {
	m.WithinLoanTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Over runs every unit of work against repos. The pawn and loan variants
// look their rows up through repos the way the real one does.
func Over(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) },
		WithinPawnTxFn: func(ctx context.Context, pawnID string, fn func(uow.Repos, *pawn.PawnRequest) error) error {
			p, err := repos.Pawns.GetByPawnIDForUpdate(ctx, pawnID)
			if err != nil {
				return err
			}
			return fn(repos, p)
		},
		WithinLoanTxFn: func(ctx context.Context, loanID string, fn func(uow.Repos, *loan.Loan, *pawn.PawnRequest) error) error {
			l, err := repos.Loans.GetByLoanIDForUpdate(ctx, loanID)
			if err != nil {
				return err
			}
			p, err := repos.Pawns.GetByIDForUpdate(ctx, l.PawnRequestID)
			if err != nil {
				return err
			}
			return fn(repos, l, p)
		},
	}
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinPawnTx(ctx context.Context, pawnID string, fn func(r uow.Repos, p *pawn.PawnRequest) error) error {
	if m.WithinPawnTxFn != nil {
		return m.WithinPawnTxFn(ctx, pawnID, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan, p *pawn.PawnRequest) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanID, fn)
	}
	return errUnimplemented
}
