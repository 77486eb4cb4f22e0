package user

import (
	"context"
	"time"

	"pawnshop-ledger/internal/domain/errs"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var ErrNotFound = errs.NotFound("user not found")

// Table: users
type User struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID    string    `gorm:"column:user_id;size:32;not null;uniqueIndex:ux_users_user_id" json:"user_id"`
	Username  string    `gorm:"column:username;size:80;not null;uniqueIndex:ux_users_username" json:"username"`
	Role      Role      `gorm:"column:role;size:16;not null;default:'user'" json:"role"`
	Enabled   bool      `gorm:"column:enabled;not null" json:"enabled"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
}
