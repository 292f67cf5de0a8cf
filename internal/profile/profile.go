package profile

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups that match no profile row.
var ErrNotFound = errors.New("profile not found")

// Profile holds the mutable display fields attached to an account.
// Exactly one row exists per user once the profile has been read.
type Profile struct {
	ID        int64
	UserID    int64
	Nickname  string
	AvatarURL string
	Bio       string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository persists profiles. Save upserts by user id.
type Repository interface {
	FindByUserID(ctx context.Context, userID int64) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
}
