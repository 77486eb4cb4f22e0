package wallet

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// HouseAccount is the row every capital-moving operation locks first.
// Its balance is never read.
const HouseAccount = "__house__"

// Table: wallets
type Wallet struct {
	ID        uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID    string          `gorm:"column:user_id;size:32;not null;uniqueIndex:ux_wallets_user" json:"user_id"`
	Balance   decimal.Decimal `gorm:"column:balance;type:decimal(18,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string { return "wallets" }

type Repository interface {
	// Zero balance when the user has never been credited
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	// Creates an empty wallet on first touch, then row-locks it
	GetOrCreateForUpdate(ctx context.Context, userID string) (*Wallet, error)
	Save(ctx context.Context, w *Wallet) error
}
