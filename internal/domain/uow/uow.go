package uow

import (
	"context"

	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/pawn"
	"pawnshop-ledger/internal/domain/txlog"
	"pawnshop-ledger/internal/domain/user"
	"pawnshop-ledger/internal/domain/wallet"
)

// Repos bound to one transaction.
type Repos struct {
	Pawns   pawn.Repository
	Loans   loan.Repository
	Wallets wallet.Repository
	Logs    txlog.Repository
	Users   user.Repository
}

// Row locks are always taken in this order: pawn request, loan,
// house wallet, user wallets.
type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the pawn request first, then pass it in
	WithinPawnTx(ctx context.Context, pawnID string, fn func(r Repos, p *pawn.PawnRequest) error) error
	// lock the owning pawn request, then the loan
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan, p *pawn.PawnRequest) error) error
}
