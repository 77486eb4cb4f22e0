package gormrepo

import (
	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/pawn"
	"pawnshop-ledger/internal/domain/txlog"
	"pawnshop-ledger/internal/domain/user"
	"pawnshop-ledger/internal/domain/wallet"

	"gorm.io/gorm"
)

// Models is every table the ledger owns, in creation order.
func Models() []any {
	return []any{&user.User{}, &wallet.Wallet{}, &pawn.PawnRequest{}, &loan.Loan{}, &txlog.Entry{}}
}

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
