package gormrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/pkg/id"

	"github.com/shopspring/decimal"
)

func TestLoanRepository_CreateGetSave(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan(1, id.NewID32(), loan.StatusActive)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if !got.TotalRedeemAmount().Equal(decimal.NewFromInt(525)) {
		t.Fatalf("total = %s", got.TotalRedeemAmount())
	}

	now := time.Now().UTC()
	got.Status, got.RedeemedAt = loan.StatusPaid, &now
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	locked, err := repo.GetByPawnRequestIDForUpdate(ctx, 1)
	if err != nil {
		t.Fatalf("GetByPawnRequestIDForUpdate: %v", err)
	}
	if locked.Status != loan.StatusPaid || locked.RedeemedAt == nil {
		t.Fatalf("save not persisted: %+v", locked)
	}
	if _, err := repo.GetByLoanIDForUpdate(ctx, l.LoanID); err != nil {
		t.Fatalf("GetByLoanIDForUpdate: %v", err)
	}
}

func TestLoanRepository_OneLoanPerPawnRequest(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeLoan(9, id.NewID32(), loan.StatusActive)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, makeLoan(9, id.NewID32(), loan.StatusActive)); err == nil {
		t.Fatalf("expected unique violation on pawn_request_id")
	}
}

func TestLoanRepository_Lists(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	borrower := id.NewID32()

	seed := []*loan.Loan{
		makeLoan(1, borrower, loan.StatusActive),
		makeLoan(2, borrower, loan.StatusPaid),
		makeLoan(3, id.NewID32(), loan.StatusDefaulted),
	}
	for _, l := range seed {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	mine, err := repo.ListByBorrowerID(ctx, borrower)
	if err != nil || len(mine) != 2 {
		t.Fatalf("ListByBorrowerID: %v len=%d", err, len(mine))
	}
	active, err := repo.ListByStatus(ctx, loan.StatusActive)
	if err != nil || len(active) != 1 || active[0].PawnRequestID != 1 {
		t.Fatalf("ListByStatus active: %v %+v", err, active)
	}
	all, err := repo.ListByStatus(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListByStatus all: %v len=%d", err, len(all))
	}

	if _, err := repo.GetByLoanID(ctx, "missing"); !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("want loan.ErrNotFound, got %v", err)
	}
}
