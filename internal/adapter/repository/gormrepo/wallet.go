package gormrepo

import (
	"context"
	"errors"

	walletDomain "pawnshop-ledger/internal/domain/wallet"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository struct{ db *gorm.DB }

func NewWalletRepository(db *gorm.DB) *WalletRepository { return &WalletRepository{db: db} }

func (r *WalletRepository) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var out walletDomain.Wallet
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return decimal.Zero, nil
	case err != nil:
		return decimal.Zero, err
	}
	return out.Balance, nil
}

func (r *WalletRepository) GetOrCreateForUpdate(ctx context.Context, userID string) (*walletDomain.Wallet, error) {
	var out walletDomain.Wallet
	err := r.db.WithContext(ctx).Clauses(forUpdate).Where("user_id = ?", userID).First(&out).Error
	if err == nil {
		return &out, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	// a concurrent creator may win the unique index; lock whichever row exists
	fresh := &walletDomain.Wallet{UserID: userID, Balance: decimal.Zero}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fresh).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Clauses(forUpdate).Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *WalletRepository) Save(ctx context.Context, w *walletDomain.Wallet) error {
	return r.db.WithContext(ctx).Save(w).Error
}
