package txlog

import (
	"context"
	"time"

	"pawnshop-ledger/internal/domain/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Action string

const (
	ActionPawnSubmitted    Action = "PAWN_SUBMITTED"
	ActionPawnAssessed     Action = "PAWN_ASSESSED"
	ActionPawnDeclined     Action = "PAWN_DECLINED"
	ActionOfferAccepted    Action = "OFFER_ACCEPTED"
	ActionOfferRejected    Action = "OFFER_REJECTED"
	ActionPawnDeleted      Action = "PAWN_DELETED"
	ActionLoanCreated      Action = "LOAN_CREATED"
	ActionLoanPaid         Action = "LOAN_PAID"
	ActionInterestEarned   Action = "INTEREST_EARNED"
	ActionLoanForfeited    Action = "LOAN_FORFEITED"
	ActionRenewalRequested Action = "LOAN_RENEWAL_REQUESTED"
	ActionPenaltyAssessed  Action = "PENALTY_ASSESSED"
	ActionCashIn           Action = "CASH_IN"
	ActionCashOut          Action = "CASH_OUT"
	// Signed amount: negative moves shop capital into a wallet
	ActionCapitalAdjustment Action = "CAPITAL_ADJUSTMENT"
)

var ErrNotFound = errs.NotFound("transaction log entry not found")

// Table: transaction_logs. Rows are appended and only ever soft-deleted
// by their owner; capital replay reads them unscoped.
type Entry struct {
	ID      uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	EntryID string `gorm:"column:entry_id;size:32;not null;uniqueIndex:ux_transaction_logs_entry_id" json:"entry_id"`
	// History owner
	UserID  string `gorm:"column:user_id;size:32;not null;index:idx_transaction_logs_user" json:"user_id"`
	ActorID string `gorm:"column:actor_id;size:32;not null" json:"actor_id"`
	Action  Action `gorm:"column:action;size:32;not null;index:idx_transaction_logs_action" json:"action"`

	Amount decimal.NullDecimal `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	// Display only
	Remarks   string   `gorm:"column:remarks;type:text" json:"remarks"`
	PawnID    string   `gorm:"column:pawn_id;size:32" json:"pawn_id,omitempty"`
	LoanID    string   `gorm:"column:loan_id;size:32" json:"loan_id,omitempty"`
	Condition string   `gorm:"column:item_condition;size:60" json:"condition,omitempty"`
	Photos    []string `gorm:"column:photos;serializer:json;type:text" json:"photos,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;index:idx_transaction_logs_user" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
	DeletedBy *string        `gorm:"column:deleted_by;size:32" json:"-"`
}

func (Entry) TableName() string { return "transaction_logs" }

// AmountOrZero is the structured amount, zero when absent.
func (e *Entry) AmountOrZero() decimal.Decimal {
	if !e.Amount.Valid {
		return decimal.Zero
	}
	return e.Amount.Decimal
}

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	GetByEntryID(ctx context.Context, entryID string) (*Entry, error)

	// Visible history, newest first. Empty userID lists everyone.
	List(ctx context.Context, userID string) ([]Entry, error)
	// Every entry ever written, hidden ones included, oldest first
	Ledger(ctx context.Context) ([]Entry, error)

	// Hide stamps deleted_at with at; zero rows means not the user's entry
	Hide(ctx context.Context, entryID, userID string, at time.Time) (int64, error)
	HideAll(ctx context.Context, userID string, at time.Time) (int64, error)
}
