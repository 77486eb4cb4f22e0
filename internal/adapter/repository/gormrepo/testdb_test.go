package gormrepo

import (
	"testing"
	"time"

	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/pawn"
	"pawnshop-ledger/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// one connection, or every new conn gets its own empty :memory: db
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func makePawn(owner string, status pawn.Status) *pawn.PawnRequest {
	return &pawn.PawnRequest{
		PawnID:          id.NewID32(),
		OwnerID:         owner,
		ItemName:        "Vintage denim jacket",
		Brand:           "Levi's",
		Condition:       "Good",
		Category:        "Outerwear",
		Photos:          []string{"a.jpg"},
		EstimatedValue:  decimal.NewFromInt(800),
		Status:          status,
		StatusUpdatedAt: time.Now().UTC(),
	}
}

func makeLoan(pawnRequestID uint64, borrower string, status loan.Status) *loan.Loan {
	now := time.Now().UTC()
	return &loan.Loan{
		LoanID:        id.NewID32(),
		PawnRequestID: pawnRequestID,
		BorrowerID:    borrower,
		Principal:     decimal.NewFromInt(500),
		InterestRate:  5,
		Penalty:       decimal.Zero,
		Realized:      decimal.Zero,
		Cycle:         1,
		Status:        status,
		FundedAt:      now,
		DueDate:       now.AddDate(0, 0, 30),
	}
}
