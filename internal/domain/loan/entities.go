package loan

import (
	"time"

	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/domain/money"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusPaid      Status = "PAID"
	StatusDefaulted Status = "DEFAULTED"
)

var ErrNotFound = errs.NotFound("loan not found")

// Table: loans. One row per pawn request, reused across renewal cycles.
type Loan struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID string `gorm:"column:loan_id;size:32;not null;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	// FK to pawn_requests.id (numeric)
	PawnRequestID uint64 `gorm:"column:pawn_request_id;not null;uniqueIndex:ux_loans_pawn_request" json:"-"`
	BorrowerID    string `gorm:"column:borrower_id;size:32;not null;index:idx_loans_borrower" json:"borrower_id"`

	Principal    decimal.Decimal `gorm:"column:principal;type:decimal(18,2);not null" json:"principal"`
	InterestRate int             `gorm:"column:interest_rate;not null" json:"interest_rate"`
	Penalty      decimal.Decimal `gorm:"column:penalty;type:decimal(18,2);not null;default:0" json:"penalty"`
	// Interest and penalties collected over every finished cycle
	Realized decimal.Decimal `gorm:"column:realized;type:decimal(18,2);not null;default:0" json:"-"`
	Cycle    int             `gorm:"column:cycle;not null;default:1" json:"cycle"`

	Status     Status     `gorm:"column:status;size:16;not null;index:idx_loans_status" json:"status"`
	FundedAt   time.Time  `gorm:"column:funded_at" json:"funded_at"`
	DueDate    time.Time  `gorm:"column:due_date;index:idx_loans_status" json:"due_date"`
	RedeemedAt *time.Time `gorm:"column:redeemed_at" json:"redeemed_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Interest for the current cycle.
func (l *Loan) Interest() decimal.Decimal { return money.PercentOf(l.Principal, l.InterestRate) }

// TotalRedeemAmount = principal + interest + penalty.
func (l *Loan) TotalRedeemAmount() decimal.Decimal {
	return money.Add(money.Add(l.Principal, l.Interest()), l.Penalty)
}

func (l *Loan) IsOverdue(now time.Time) bool {
	return l.Status == StatusActive && now.After(l.DueDate)
}

// Activate starts a funding cycle on a new or PAID loan.
func (l *Loan) Activate(principal decimal.Decimal, rate, days int, now time.Time) error {
	if l.ID != 0 && l.Status != StatusPaid {
		return errs.BadRequest("loan %s is %s and cannot be funded again", l.LoanID, l.Status)
	}
	if err := money.RequirePositive("principal", principal); err != nil {
		return err
	}
	if l.ID != 0 {
		l.Cycle++
	} else {
		l.Cycle = 1
	}
	l.Principal = money.Round(principal)
	l.InterestRate = rate
	l.Penalty = decimal.Zero
	l.Status = StatusActive
	l.FundedAt = now
	l.DueDate = now.AddDate(0, 0, days)
	l.RedeemedAt = nil
	return nil
}
