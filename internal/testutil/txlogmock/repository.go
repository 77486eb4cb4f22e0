package txlogmock

import (
	"context"
	"sync"
	"time"

	domain "pawnshop-ledger/internal/domain/txlog"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Append keeps every entry in Appended unless AppendFn is set, and Ledger
// replays Appended when LedgerFn is unset.
type Repo struct {
	AppendFn       func(ctx context.Context, e *domain.Entry) error
	GetByEntryIDFn func(ctx context.Context, entryID string) (*domain.Entry, error)
	ListFn         func(ctx context.Context, userID string) ([]domain.Entry, error)
	LedgerFn       func(ctx context.Context) ([]domain.Entry, error)
	HideFn         func(ctx context.Context, entryID, userID string, at time.Time) (int64, error)
	HideAllFn      func(ctx context.Context, userID string, at time.Time) (int64, error)

	mu       sync.Mutex
	Appended []domain.Entry
}

func (m *Repo) Append(ctx context.Context, e *domain.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	m.mu.Lock()
	m.Appended = append(m.Appended, *e)
	m.mu.Unlock()
	return nil
}

func (m *Repo) GetByEntryID(ctx context.Context, entryID string) (*domain.Entry, error) {
	if m.GetByEntryIDFn != nil {
		return m.GetByEntryIDFn(ctx, entryID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) List(ctx context.Context, userID string) ([]domain.Entry, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) Ledger(ctx context.Context) ([]domain.Entry, error) {
	if m.LedgerFn != nil {
		return m.LedgerFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Entry(nil), m.Appended...), nil
}

func (m *Repo) Hide(ctx context.Context, entryID, userID string, at time.Time) (int64, error) {
	if m.HideFn != nil {
		return m.HideFn(ctx, entryID, userID, at)
	}
	return 0, nil
}

func (m *Repo) HideAll(ctx context.Context, userID string, at time.Time) (int64, error) {
	if m.HideAllFn != nil {
		return m.HideAllFn(ctx, userID, at)
	}
	return 0, nil
}

// Actions lists appended actions in order.
func (m *Repo) Actions() []domain.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Action, 0, len(m.Appended))
	for _, e := range m.Appended {
		out = append(out, e.Action)
	}
	return out
}
