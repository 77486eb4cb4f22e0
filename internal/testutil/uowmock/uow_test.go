package uowmock

import (
	"context"
	"errors"
	"testing"

	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/pawn"
	"pawnshop-ledger/internal/domain/uow"
	"pawnshop-ledger/internal/testutil/loanmock"
	"pawnshop-ledger/internal/testutil/pawnmock"
)

func TestOver_WithinTx_ForwardsReposAndError(t *testing.T) {
	repos := uow.Repos{Loans: &loanmock.Repo{}, Pawns: &pawnmock.Repo{}}
	rollback := errors.New("insufficient capital")

	err := Over(repos).WithinTx(context.Background(), func(r uow.Repos) error {
		if r.Loans != repos.Loans || r.Pawns != repos.Pawns {
			t.Fatalf("repos not forwarded: %+v", r)
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("want %v, got %v", rollback, err)
	}
}

func TestOver_WithinPawnTx_LocksRequest(t *testing.T) {
	pr := &pawn.PawnRequest{ID: 9, PawnID: "PW-9", Status: pawn.StatusPending}
	var locked string
	m := Over(uow.Repos{Pawns: &pawnmock.Repo{GetByPawnIDForUpdateFn: func(_ context.Context, pawnID string) (*pawn.PawnRequest, error) {
		locked = pawnID
		return pr, nil
	}}})

	err := m.WithinPawnTx(context.Background(), "PW-9", func(_ uow.Repos, p *pawn.PawnRequest) error {
		if p != pr {
			t.Fatalf("row not forwarded: %+v", p)
		}
		return nil
	})
	if err != nil || locked != "PW-9" {
		t.Fatalf("err=%v locked=%q", err, locked)
	}
}

func TestUoW_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{} // no funcs set
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinPawnTx(ctx, "PW-X", func(uow.Repos, *pawn.PawnRequest) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinPawnTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinLoanTx(ctx, "LN-X", func(uow.Repos, *loan.Loan, *pawn.PawnRequest) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinLoanTx default: want errUnimplemented, got %v", err)
	}
}

func TestOver_WithinLoanTx_LocksPawnOfLoan(t *testing.T) {
	ctx := context.Background()
	lk := &loan.Loan{ID: 7, LoanID: "LN-7", PawnRequestID: 3}
	pr := &pawn.PawnRequest{ID: 3, PawnID: "PW-3"}

	repos := uow.Repos{
		Loans: &loanmock.Repo{GetByLoanIDForUpdateFn: func(_ context.Context, loanID string) (*loan.Loan, error) {
			if loanID != "LN-7" {
				t.Fatalf("loanID mismatch, got %s", loanID)
			}
			return lk, nil
		}},
		Pawns: &pawnmock.Repo{GetByIDForUpdateFn: func(_ context.Context, id uint64) (*pawn.PawnRequest, error) {
			if id != 3 {
				t.Fatalf("pawn id mismatch, got %d", id)
			}
			return pr, nil
		}},
	}

	called := false
	err := Over(repos).WithinLoanTx(ctx, "LN-7", func(_ uow.Repos, l *loan.Loan, p *pawn.PawnRequest) error {
		called = true
		if l != lk || p != pr {
			t.Fatalf("WithinLoanTx: rows not forwarded: %+v %+v", l, p)
		}
		return nil
	})
	if err != nil || !called {
		t.Fatalf("WithinLoanTx: err=%v called=%v", err, called)
	}
}

func TestOver_WithinPawnTx_NotFound(t *testing.T) {
	ctx := context.Background()
	m := Over(uow.Repos{Pawns: &pawnmock.Repo{}})
	err := m.WithinPawnTx(ctx, "PW-404", func(uow.Repos, *pawn.PawnRequest) error {
		t.Fatalf("fn must not run")
		return nil
	})
	if !errors.Is(err, pawn.ErrNotFound) {
		t.Fatalf("WithinPawnTx: want ErrNotFound, got %v", err)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	m := New()
	if m.WithinTxFn != nil || m.WithinPawnTxFn != nil || m.WithinLoanTxFn != nil {
		t.Fatalf("New should start with nil funcs")
	}

	m.WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil }).
		WithWithinPawnTx(func(context.Context, string, func(uow.Repos, *pawn.PawnRequest) error) error { return nil }).
		WithWithinLoanTx(func(context.Context, string, func(uow.Repos, *loan.Loan, *pawn.PawnRequest) error) error { return nil })

	if m.WithinTxFn == nil || m.WithinPawnTxFn == nil || m.WithinLoanTxFn == nil {
		t.Fatalf("fluent setters didn't assign funcs")
	}

	// reset clears funcs
	m.Reset()
	if m.WithinTxFn != nil || m.WithinPawnTxFn != nil || m.WithinLoanTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
