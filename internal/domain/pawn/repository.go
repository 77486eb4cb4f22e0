package pawn

import "context"

// Filter narrows List. Empty fields match everything.
type Filter struct {
	OwnerID  string
	Statuses []Status
}

type Repository interface {
	Create(ctx context.Context, p *PawnRequest) error
	Save(ctx context.Context, p *PawnRequest) error
	// Hard delete
	Delete(ctx context.Context, p *PawnRequest) error

	GetByPawnID(ctx context.Context, pawnID string) (*PawnRequest, error)
	GetByPawnIDForUpdate(ctx context.Context, pawnID string) (*PawnRequest, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*PawnRequest, error)

	// Latest PENDING/OFFER_MADE/ACCEPTED request of the owner
	GetOutstandingByOwnerID(ctx context.Context, ownerID string) (*PawnRequest, error)

	// Newest first
	List(ctx context.Context, f Filter) ([]PawnRequest, error)
}
