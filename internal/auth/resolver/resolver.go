// Package resolver maps a verified external identity to a local account.
// It is the only place where identity-to-account mapping logic lives.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"login-service/internal/auth"
	"login-service/internal/user"
)

// ErrIncompleteIdentity is returned when the external identity lacks a
// stable subject id or an email address.
var ErrIncompleteIdentity = errors.New("resolver: identity missing subject or email")

type Resolver struct {
	users user.Repository
}

func New(users user.Repository) *Resolver {
	return &Resolver{users: users}
}

// Resolve finds or creates the local account for identity.
//
// Order matters: an account already linked to this provider subject wins;
// otherwise an account with the same email is linked in place (an existing
// password account logging in through Google for the first time); otherwise
// a fresh account is created with a collision-free username.
func (r *Resolver) Resolve(ctx context.Context, identity *auth.Identity) (*user.User, error) {
	if identity == nil || identity.ProviderUserID == "" || identity.Email == "" {
		return nil, ErrIncompleteIdentity
	}

	u, err := r.resolve(ctx, identity)
	if errors.Is(err, user.ErrDuplicate) {
		// Two first-time logins for the same identity raced on create;
		// the loser finds the winner's row on a second pass.
		return r.resolve(ctx, identity)
	}
	return u, err
}

func (r *Resolver) resolve(ctx context.Context, identity *auth.Identity) (*user.User, error) {
	u, err := r.users.FindByGoogleID(ctx, identity.ProviderUserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	u, err = r.users.FindByEmail(ctx, identity.Email)
	if err == nil {
		if u.GoogleID == "" {
			u.GoogleID = identity.ProviderUserID
			if err := r.users.Update(ctx, u); err != nil {
				return nil, err
			}
		}
		return u, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	username, err := r.uniqueUsername(ctx, identity)
	if err != nil {
		return nil, err
	}

	// The provider is trusted to have verified the email address.
	created := &user.User{
		Email:    identity.Email,
		Username: username,
		GoogleID: identity.ProviderUserID,
		Active:   true,
		Verified: true,
	}
	if err := r.users.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// uniqueUsername derives a username from the display name (or the email
// local part) and appends _1, _2, ... until no account holds it.
func (r *Resolver) uniqueUsername(ctx context.Context, identity *auth.Identity) (string, error) {
	base := strings.ToLower(strings.ReplaceAll(identity.Name, " ", "_"))
	if base == "" {
		base, _, _ = strings.Cut(identity.Email, "@")
	}

	candidate := base
	for i := 1; ; i++ {
		_, err := r.users.FindByUsername(ctx, candidate)
		if errors.Is(err, user.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
}
