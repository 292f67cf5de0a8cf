package user

import (
	"context"
	"errors"
	"testing"
)

// The in-memory repository must mirror the postgres uniqueness rules,
// since it stands in for postgres in every service-level test.
func TestMemoryRepositoryUniqueness(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := &User{Email: "a@x.com", Username: "alice", GoogleID: "g1", Active: true}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		u    *User
	}{
		{"duplicate email", &User{Email: "a@x.com", Username: "other"}},
		{"duplicate email different case", &User{Email: "A@X.com", Username: "other2"}},
		{"duplicate username", &User{Email: "b@x.com", Username: "alice"}},
		{"duplicate google id", &User{Email: "c@x.com", Username: "carol", GoogleID: "g1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := repo.Create(ctx, tc.u); !errors.Is(err, ErrDuplicate) {
				t.Errorf("error = %v, want ErrDuplicate", err)
			}
		})
	}

	t.Run("empty optional fields never collide", func(t *testing.T) {
		u1 := &User{Email: "d@x.com", Active: true}
		u2 := &User{Email: "e@x.com", Active: true}
		if err := repo.Create(ctx, u1); err != nil {
			t.Fatal(err)
		}
		if err := repo.Create(ctx, u2); err != nil {
			t.Errorf("accounts with empty username/google id collided: %v", err)
		}
	})
}

func TestMemoryRepositoryLookupsAndUpdate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	u := &User{Email: "a@x.com", Username: "alice", Active: true}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.FindByID(ctx, u.ID); err != nil {
		t.Errorf("FindByID failed: %v", err)
	}
	if _, err := repo.FindByEmail(ctx, "A@X.COM"); err != nil {
		t.Errorf("email lookup must be case-insensitive: %v", err)
	}
	if _, err := repo.FindByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id error = %v, want ErrNotFound", err)
	}

	u.GoogleID = "g9"
	if err := repo.Update(ctx, u); err != nil {
		t.Fatal(err)
	}
	got, err := repo.FindByGoogleID(ctx, "g9")
	if err != nil {
		t.Fatalf("updated google id not findable: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("wrong account: %d", got.ID)
	}

	if err := repo.Update(ctx, &User{ID: 999, Email: "x@x.com"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update of missing account error = %v, want ErrNotFound", err)
	}
}
