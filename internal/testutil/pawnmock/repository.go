package pawnmock

import (
	"context"

	domain "pawnshop-ledger/internal/domain/pawn"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, p *domain.PawnRequest) error
	SaveFn                    func(ctx context.Context, p *domain.PawnRequest) error
	DeleteFn                  func(ctx context.Context, p *domain.PawnRequest) error
	GetByPawnIDFn             func(ctx context.Context, pawnID string) (*domain.PawnRequest, error)
	GetByPawnIDForUpdateFn    func(ctx context.Context, pawnID string) (*domain.PawnRequest, error)
	GetByIDForUpdateFn        func(ctx context.Context, id uint64) (*domain.PawnRequest, error)
	GetOutstandingByOwnerIDFn func(ctx context.Context, ownerID string) (*domain.PawnRequest, error)
	ListFn                    func(ctx context.Context, f domain.Filter) ([]domain.PawnRequest, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.PawnRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, p *domain.PawnRequest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, p *domain.PawnRequest) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByPawnID(ctx context.Context, pawnID string) (*domain.PawnRequest, error) {
	if m.GetByPawnIDFn != nil {
		return m.GetByPawnIDFn(ctx, pawnID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByPawnIDForUpdate(ctx context.Context, pawnID string) (*domain.PawnRequest, error) {
	if m.GetByPawnIDForUpdateFn != nil {
		return m.GetByPawnIDForUpdateFn(ctx, pawnID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.PawnRequest, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetOutstandingByOwnerID(ctx context.Context, ownerID string) (*domain.PawnRequest, error) {
	if m.GetOutstandingByOwnerIDFn != nil {
		return m.GetOutstandingByOwnerIDFn(ctx, ownerID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.PawnRequest, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}
