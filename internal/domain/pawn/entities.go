package pawn

import (
	"time"

	"pawnshop-ledger/internal/domain/errs"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusOfferMade Status = "OFFER_MADE"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusPawned    Status = "PAWNED"
	StatusRedeemed  Status = "REDEEMED"
	StatusForfeited Status = "FORFEITED"
)

const MaxPhotos = 2

var ErrNotFound = errs.NotFound("pawn request not found")

// Outstanding statuses block a new submission by the same owner.
var Outstanding = []Status{StatusPending, StatusOfferMade, StatusAccepted}

var transitions = map[Status][]Status{
	StatusPending:   {StatusOfferMade, StatusRejected},
	StatusOfferMade: {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusPawned},
	StatusPawned:    {StatusRedeemed, StatusForfeited},
	StatusRedeemed:  {StatusPending},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s Status) IsOutstanding() bool {
	for _, o := range Outstanding {
		if s == o {
			return true
		}
	}
	return false
}

// Table: pawn_requests
type PawnRequest struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	PawnID  string `gorm:"column:pawn_id;size:32;not null;uniqueIndex:ux_pawn_requests_pawn_id" json:"pawn_id"`
	OwnerID string `gorm:"column:owner_id;size:32;not null;index:idx_pawn_requests_owner_status" json:"owner_id"`

	ItemName    string   `gorm:"column:item_name;size:255;not null" json:"item_name"`
	Brand       string   `gorm:"column:brand;size:120" json:"brand"`
	Size        string   `gorm:"column:size;size:60" json:"size"`
	Condition   string   `gorm:"column:item_condition;size:60" json:"condition"`
	Category    string   `gorm:"column:category;size:120" json:"category"`
	Description string   `gorm:"column:description;type:text" json:"description"`
	Photos      []string `gorm:"column:photos;serializer:json;type:text" json:"photos"`

	EstimatedValue decimal.Decimal     `gorm:"column:estimated_value;type:decimal(18,2);not null" json:"estimated_value"`
	OfferedAmount  decimal.NullDecimal `gorm:"column:offered_amount;type:decimal(18,2)" json:"offered_amount"`
	ProposedRate   int                 `gorm:"column:proposed_rate" json:"proposed_rate"`
	ProposedDays   int                 `gorm:"column:proposed_days" json:"proposed_days"`
	Remarks        string              `gorm:"column:assessment_remarks;type:text" json:"remarks"`

	Status          Status     `gorm:"column:status;size:16;not null;default:'PENDING';index:idx_pawn_requests_owner_status" json:"status"`
	AppraisalDate   *time.Time `gorm:"column:appraisal_date" json:"appraisal_date"`
	AppraisedBy     string     `gorm:"column:appraised_by;size:32" json:"appraised_by"`
	StatusUpdatedAt time.Time  `gorm:"column:status_updated_at" json:"status_updated_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PawnRequest) TableName() string { return "pawn_requests" }

// Offered returns the admin-agreed principal, if any.
func (p *PawnRequest) Offered() (decimal.Decimal, bool) {
	if !p.OfferedAmount.Valid {
		return decimal.Zero, false
	}
	return p.OfferedAmount.Decimal, true
}

// MoveTo applies a transition or reports why it is not allowed.
func (p *PawnRequest) MoveTo(to Status, at time.Time) error {
	if !CanTransition(p.Status, to) {
		return errs.BadRequest("pawn request %s cannot move from %s to %s", p.PawnID, p.Status, to)
	}
	p.Status = to
	p.StatusUpdatedAt = at
	return nil
}
