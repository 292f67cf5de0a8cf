package user

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by lookups that match no account.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicate is returned when a write violates a uniqueness
	// constraint on email, username, or google_id.
	ErrDuplicate = errors.New("user already exists")
)

// User is the local account record. PasswordHash is empty for accounts
// that only ever authenticated through Google; GoogleID is empty for
// password-only accounts.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	GoogleID     string
	Active       bool
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository is the persistence contract for accounts. Lookups return
// ErrNotFound when nothing matches; writes return ErrDuplicate on
// uniqueness violations.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)

	// Create inserts u and assigns its ID.
	Create(ctx context.Context, u *User) error

	// Update persists all mutable fields of u by ID.
	Update(ctx context.Context, u *User) error
}
