package walletmock

import (
	"context"
	"testing"

	domain "pawnshop-ledger/internal/domain/wallet"

	"github.com/shopspring/decimal"
)

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	bal, err := m.GetBalance(ctx, "u1")
	if err != nil || !bal.IsZero() {
		t.Fatalf("GetBalance default: got %s, %v", bal, err)
	}
	w, err := m.GetOrCreateForUpdate(ctx, "u1")
	if err != nil || w.UserID != "u1" || !w.Balance.IsZero() {
		t.Fatalf("GetOrCreateForUpdate default: got %+v, %v", w, err)
	}
	if err := m.Save(ctx, w); err != nil {
		t.Fatalf("Save default: %v", err)
	}
}

func TestRepo_SaveFn_SeesBalance(t *testing.T) {
	ctx := context.Background()
	var saved decimal.Decimal
	m := &Repo{SaveFn: func(_ context.Context, w *domain.Wallet) error {
		saved = w.Balance
		return nil
	}}
	if err := m.Save(ctx, &domain.Wallet{UserID: "u1", Balance: decimal.NewFromInt(7)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !saved.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("Save: want 7, got %s", saved)
	}
}
