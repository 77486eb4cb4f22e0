package gormrepo

import (
	"context"

	pawnDomain "pawnshop-ledger/internal/domain/pawn"

	"gorm.io/gorm"
)

type PawnRepository struct{ db *gorm.DB }

func NewPawnRepository(db *gorm.DB) *PawnRepository { return &PawnRepository{db: db} }

func (r *PawnRepository) Create(ctx context.Context, p *pawnDomain.PawnRequest) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PawnRepository) Save(ctx context.Context, p *pawnDomain.PawnRequest) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PawnRepository) Delete(ctx context.Context, p *pawnDomain.PawnRequest) error {
	res := r.db.WithContext(ctx).Delete(&pawnDomain.PawnRequest{}, p.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pawnDomain.ErrNotFound
	}
	return nil
}

func (r *PawnRepository) GetByPawnID(ctx context.Context, pawnID string) (*pawnDomain.PawnRequest, error) {
	var out pawnDomain.PawnRequest
	if err := r.db.WithContext(ctx).Where("pawn_id = ?", pawnID).First(&out).Error; err != nil {
		return nil, notFound(err, pawnDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *PawnRepository) GetByPawnIDForUpdate(ctx context.Context, pawnID string) (*pawnDomain.PawnRequest, error) {
	var out pawnDomain.PawnRequest
	err := r.db.WithContext(ctx).Clauses(forUpdate).Where("pawn_id = ?", pawnID).First(&out).Error
	if err != nil {
		return nil, notFound(err, pawnDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *PawnRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*pawnDomain.PawnRequest, error) {
	var out pawnDomain.PawnRequest
	if err := r.db.WithContext(ctx).Clauses(forUpdate).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, notFound(err, pawnDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *PawnRepository) GetOutstandingByOwnerID(ctx context.Context, ownerID string) (*pawnDomain.PawnRequest, error) {
	var out pawnDomain.PawnRequest
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status IN ?", ownerID, pawnDomain.Outstanding).
		Order("status_updated_at DESC, id DESC").
		First(&out).Error
	if err != nil {
		return nil, notFound(err, pawnDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *PawnRepository) List(ctx context.Context, f pawnDomain.Filter) ([]pawnDomain.PawnRequest, error) {
	q := r.db.WithContext(ctx).Model(&pawnDomain.PawnRequest{})
	if f.OwnerID != "" {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	var out []pawnDomain.PawnRequest
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}
