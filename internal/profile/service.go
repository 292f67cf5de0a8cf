package profile

import (
	"context"
	"errors"

	"login-service/internal/user"
)

// ErrUsernameTaken is returned when a profile update requests a username
// another account already holds.
var ErrUsernameTaken = errors.New("username already taken")

// Update carries the optional fields of a profile update; nil means
// "leave unchanged".
type Update struct {
	Username  *string
	Nickname  *string
	AvatarURL *string
	Bio       *string
	Phone     *string
}

type Service struct {
	profiles Repository
	users    user.Repository
	cache    *Cache // nil disables caching
}

func NewService(profiles Repository, users user.Repository, cache *Cache) *Service {
	return &Service{profiles: profiles, users: users, cache: cache}
}

// Get returns the user's profile, creating an empty row on first access.
func (s *Service) Get(ctx context.Context, userID int64) (*Profile, error) {
	if p := s.cache.Get(ctx, userID); p != nil {
		return p, nil
	}

	p, err := s.profiles.FindByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		p = &Profile{UserID: userID}
		if err := s.profiles.Save(ctx, p); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, p)
	return p, nil
}

// Apply updates the account and profile with the provided fields. A
// username change must not collide with another account.
func (s *Service) Apply(ctx context.Context, u *user.User, upd Update) (*Profile, error) {
	if upd.Username != nil && *upd.Username != u.Username {
		existing, err := s.users.FindByUsername(ctx, *upd.Username)
		if err == nil && existing.ID != u.ID {
			return nil, ErrUsernameTaken
		}
		if err != nil && !errors.Is(err, user.ErrNotFound) {
			return nil, err
		}

		u.Username = *upd.Username
		if err := s.users.Update(ctx, u); err != nil {
			if errors.Is(err, user.ErrDuplicate) {
				return nil, ErrUsernameTaken
			}
			return nil, err
		}
	}

	p, err := s.Get(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	if upd.Nickname != nil {
		p.Nickname = *upd.Nickname
	}
	if upd.AvatarURL != nil {
		p.AvatarURL = *upd.AvatarURL
	}
	if upd.Bio != nil {
		p.Bio = *upd.Bio
	}
	if upd.Phone != nil {
		p.Phone = *upd.Phone
	}

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, u.ID)
	return p, nil
}
