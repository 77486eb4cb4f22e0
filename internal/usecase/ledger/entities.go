package ledger

import (
	"time"

	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/pawn"

	"github.com/shopspring/decimal"
)

// Actor is the caller identity, resolved before the engine is invoked.
type Actor struct {
	UserID string
	Admin  bool
}

type Settings struct {
	BaseCapital         decimal.Decimal
	ForfeitMarkup       decimal.Decimal
	DefaultInterestRate int
	DefaultLoanDays     int
	// Window for the dashboard's due-soon counter
	DueSoonDays int
}

func DefaultSettings() Settings {
	return Settings{
		BaseCapital:         decimal.NewFromInt(100000),
		ForfeitMarkup:       decimal.RequireFromString("1.05"),
		DefaultInterestRate: 5,
		DefaultLoanDays:     30,
		DueSoonDays:         3,
	}
}

type SubmitInput struct {
	ItemName       string          `json:"item_name"`
	Brand          string          `json:"brand"`
	Size           string          `json:"size"`
	Condition      string          `json:"condition"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	Photos         []string        `json:"photos"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
}

type AssessInput struct {
	OfferedAmount decimal.Decimal `json:"offered_amount"`
	InterestRate  int             `json:"interest_rate"`
	DurationDays  int             `json:"duration_days"`
	Remarks       string          `json:"remarks"`
}

// FundInput terms override the assessed ones when positive.
type FundInput struct {
	InterestRate int `json:"interest_rate"`
	DurationDays int `json:"duration_days"`
}

type LoanView struct {
	loan.Loan
	PawnID            string          `json:"pawn_id"`
	ItemName          string          `json:"item_name"`
	TotalRedeemAmount decimal.Decimal `json:"total_redeem_amount"`
	Overdue           bool            `json:"overdue"`
}

type WalletView struct {
	UserID  string          `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

type Dashboard struct {
	ActivePawns   int               `json:"active_pawns"`
	DueSoon       int               `json:"due_soon"`
	Overdue       int               `json:"overdue"`
	TotalOwed     decimal.Decimal   `json:"total_owed"`
	WalletBalance decimal.Decimal   `json:"wallet_balance"`
	Outstanding   *pawn.PawnRequest `json:"outstanding_request,omitempty"`
	AsOf          time.Time         `json:"as_of"`
}
