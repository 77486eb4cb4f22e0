package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error

	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetByPawnRequestIDForUpdate(ctx context.Context, pawnRequestID uint64) (*Loan, error)

	ListByBorrowerID(ctx context.Context, borrowerID string) ([]Loan, error)
	// No statuses lists every loan
	ListByStatus(ctx context.Context, statuses ...Status) ([]Loan, error)
}
