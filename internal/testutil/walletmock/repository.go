package walletmock

import (
	"context"

	domain "pawnshop-ledger/internal/domain/wallet"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Without GetOrCreateForUpdateFn it hands out empty wallets.
type Repo struct {
	GetBalanceFn           func(ctx context.Context, userID string) (decimal.Decimal, error)
	GetOrCreateForUpdateFn func(ctx context.Context, userID string) (*domain.Wallet, error)
	SaveFn                 func(ctx context.Context, w *domain.Wallet) error
}

func (m *Repo) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	if m.GetBalanceFn != nil {
		return m.GetBalanceFn(ctx, userID)
	}
	return decimal.Zero, nil
}

func (m *Repo) GetOrCreateForUpdate(ctx context.Context, userID string) (*domain.Wallet, error) {
	if m.GetOrCreateForUpdateFn != nil {
		return m.GetOrCreateForUpdateFn(ctx, userID)
	}
	return &domain.Wallet{UserID: userID, Balance: decimal.Zero}, nil
}

func (m *Repo) Save(ctx context.Context, w *domain.Wallet) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, w)
	}
	return nil
}
