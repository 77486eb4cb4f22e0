package gormrepo

import (
	"context"
	"time"

	txlogDomain "pawnshop-ledger/internal/domain/txlog"

	"gorm.io/gorm"
)

type TxLogRepository struct{ db *gorm.DB }

func NewTxLogRepository(db *gorm.DB) *TxLogRepository { return &TxLogRepository{db: db} }

func (r *TxLogRepository) Append(ctx context.Context, e *txlogDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *TxLogRepository) GetByEntryID(ctx context.Context, entryID string) (*txlogDomain.Entry, error) {
	var out txlogDomain.Entry
	if err := r.db.WithContext(ctx).Where("entry_id = ?", entryID).First(&out).Error; err != nil {
		return nil, notFound(err, txlogDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *TxLogRepository) List(ctx context.Context, userID string) ([]txlogDomain.Entry, error) {
	q := r.db.WithContext(ctx).Model(&txlogDomain.Entry{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var out []txlogDomain.Entry
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *TxLogRepository) Ledger(ctx context.Context) ([]txlogDomain.Entry, error) {
	var out []txlogDomain.Entry
	err := r.db.WithContext(ctx).Unscoped().Order("id ASC").Find(&out).Error
	return out, err
}

// Hide soft-deletes one entry of userID. Zero rows means it is not theirs.
func (r *TxLogRepository) Hide(ctx context.Context, entryID, userID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&txlogDomain.Entry{}).
		Where("entry_id = ? AND user_id = ?", entryID, userID).
		Updates(map[string]any{"deleted_at": at, "deleted_by": userID})
	return res.RowsAffected, res.Error
}

func (r *TxLogRepository) HideAll(ctx context.Context, userID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&txlogDomain.Entry{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"deleted_at": at, "deleted_by": userID})
	return res.RowsAffected, res.Error
}
