package gormrepo

import (
	"context"

	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/pawn"
	"pawnshop-ledger/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// Repos bound to db outside any transaction, for read paths.
func NewRepos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Pawns:   &PawnRepository{db: db},
		Loans:   &LoanRepository{db: db},
		Wallets: &WalletRepository{db: db},
		Logs:    &TxLogRepository{db: db},
		Users:   &UserRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

func (u *GormUoW) WithinPawnTx(ctx context.Context, pawnID string, fn func(r uow.Repos, p *pawn.PawnRequest) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepos(tx)
		// lock the request row up-front to prevent races
		p, err := r.Pawns.GetByPawnIDForUpdate(ctx, pawnID)
		if err != nil {
			return err
		}
		return fn(r, p)
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan, p *pawn.PawnRequest) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepos(tx)
		// unlocked read only to find the owning request; both rows are then
		// locked request-first and the loan re-read under the lock
		peek, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		p, err := r.Pawns.GetByIDForUpdate(ctx, peek.PawnRequestID)
		if err != nil {
			return err
		}
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l, p)
	})
}
