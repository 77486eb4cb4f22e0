package usermock

import (
	"context"
	"errors"
	"testing"

	domain "pawnshop-ledger/internal/domain/user"
)

func TestRepo_Default_NotFound(t *testing.T) {
	if _, err := (&Repo{}).GetByUserID(context.Background(), "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByUserID default: want ErrNotFound, got %v", err)
	}
}

func TestEnabled(t *testing.T) {
	u, err := Enabled(domain.RoleAdmin).GetByUserID(context.Background(), "boss")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.UserID != "boss" || u.Role != domain.RoleAdmin || !u.Enabled {
		t.Fatalf("Enabled: unexpected user %+v", u)
	}
}
