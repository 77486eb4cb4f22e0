package usermock

import (
	"context"

	domain "pawnshop-ledger/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn      func(ctx context.Context, u *domain.User) error
	GetByUserIDFn func(ctx context.Context, userID string) (*domain.User, error)
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

// Enabled answers every lookup with an enabled account of the given role.
func Enabled(role domain.Role) *Repo {
	return &Repo{GetByUserIDFn: func(_ context.Context, userID string) (*domain.User, error) {
		return &domain.User{UserID: userID, Username: userID, Role: role, Enabled: true}, nil
	}}
}
