package gormrepo

import (
	"context"
	"testing"

	"pawnshop-ledger/pkg/id"

	"github.com/shopspring/decimal"
)

func TestWalletRepository_LazyCreateAndSave(t *testing.T) {
	db := openTestDB(t)
	repo := NewWalletRepository(db)
	ctx := context.Background()
	user := id.NewID32()

	bal, err := repo.GetBalance(ctx, user)
	if err != nil || !bal.IsZero() {
		t.Fatalf("GetBalance before first touch = %s, %v", bal, err)
	}

	w, err := repo.GetOrCreateForUpdate(ctx, user)
	if err != nil {
		t.Fatalf("GetOrCreateForUpdate: %v", err)
	}
	if w.ID == 0 || !w.Balance.IsZero() {
		t.Fatalf("fresh wallet = %+v", w)
	}

	w.Balance = decimal.RequireFromString("1250.75")
	if err := repo.Save(ctx, w); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, err := repo.GetOrCreateForUpdate(ctx, user)
	if err != nil {
		t.Fatalf("GetOrCreateForUpdate again: %v", err)
	}
	if again.ID != w.ID {
		t.Fatalf("second call created a new wallet: %d vs %d", again.ID, w.ID)
	}
	bal, err = repo.GetBalance(ctx, user)
	if err != nil || !bal.Equal(decimal.RequireFromString("1250.75")) {
		t.Fatalf("GetBalance = %s, %v", bal, err)
	}
}
