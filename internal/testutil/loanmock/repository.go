package loanmock

import (
	"context"

	domain "pawnshop-ledger/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups report domain.ErrNotFound; unset writes succeed.
type Repo struct {
	CreateFn                      func(ctx context.Context, l *domain.Loan) error
	SaveFn                        func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn                 func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn        func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByPawnRequestIDForUpdateFn func(ctx context.Context, pawnRequestID uint64) (*domain.Loan, error)
	ListByBorrowerIDFn            func(ctx context.Context, borrowerID string) ([]domain.Loan, error)
	ListByStatusFn                func(ctx context.Context, statuses ...domain.Status) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByPawnRequestIDForUpdate(ctx context.Context, pawnRequestID uint64) (*domain.Loan, error) {
	if m.GetByPawnRequestIDForUpdateFn != nil {
		return m.GetByPawnRequestIDForUpdateFn(ctx, pawnRequestID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByBorrowerID(ctx context.Context, borrowerID string) ([]domain.Loan, error) {
	if m.ListByBorrowerIDFn != nil {
		return m.ListByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, nil
}

func (m *Repo) ListByStatus(ctx context.Context, statuses ...domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, statuses...)
	}
	return nil, nil
}
