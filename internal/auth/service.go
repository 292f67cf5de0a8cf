package auth

import (
	"context"
	"errors"
	"time"

	"login-service/internal/auth/credentials"
	"login-service/internal/auth/token"
	"login-service/internal/user"
)

var (
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// ErrFederationUnavailable means Google login is not configured for
	// this deployment, as opposed to a failed credential.
	ErrFederationUnavailable = errors.New("google login is not available")
)

// TokenPair is the response body of every successful login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// IdentityVerifier verifies a raw provider token into a normalized
// identity. *google.Verifier is the production implementation.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*Identity, error)
}

// AccountResolver maps a verified identity to a local account.
type AccountResolver interface {
	Resolve(ctx context.Context, identity *Identity) (*user.User, error)
}

// Service orchestrates registration, the login flows, token refresh, and
// password changes. It holds no per-request state.
type Service struct {
	users    user.Repository
	codec    *token.Codec
	verifier IdentityVerifier // nil when federation is unconfigured
	resolver AccountResolver
	now      func() time.Time
}

func NewService(
	users user.Repository,
	codec *token.Codec,
	verifier IdentityVerifier,
	resolver AccountResolver,
) *Service {
	return &Service{
		users:    users,
		codec:    codec,
		verifier: verifier,
		resolver: resolver,
		now:      time.Now,
	}
}

// Register creates a password-based account. The account starts active
// and unverified.
func (s *Service) Register(ctx context.Context, email, username, password string) (*user.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrAccountExists
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrAccountExists
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	hash, err := credentials.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Active:       true,
		Verified:     false,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// Concurrent registration lost the race; the unique constraint
		// is the enforcement of last resort.
		if errors.Is(err, user.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, err
	}
	return u, nil
}

// Login authenticates a password credential and issues a token pair.
// A missing account, a federated-only account, a wrong password, and an
// inactive account are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if !credentials.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !u.Active {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(u.ID)
}

// GoogleLogin verifies a posted Google ID token, reconciles the identity
// to a local account, and issues a token pair. Verifier errors
// (google.ErrIdentityInvalid, google.ErrIdentityRejected) pass through.
func (s *Service) GoogleLogin(ctx context.Context, rawIDToken string) (*TokenPair, error) {
	if s.verifier == nil {
		return nil, ErrFederationUnavailable
	}

	identity, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	u, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	return s.issuePair(u.ID)
}

// Refresh exchanges a valid refresh token for a fresh pair. The old
// refresh token stays usable until it expires; there is no server-side
// revocation list.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken, s.now())
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Kind != string(token.KindRefresh) {
		return nil, ErrInvalidToken
	}

	id, err := claims.AccountID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !u.Active {
		return nil, ErrInvalidToken
	}

	return s.issuePair(u.ID)
}

// ChangePassword replaces the caller's password after verifying the old
// one. The caller is already authenticated; u is their account.
func (s *Service) ChangePassword(ctx context.Context, u *user.User, oldPassword, newPassword string) error {
	if u.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if !credentials.Verify(oldPassword, u.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := credentials.Hash(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.users.Update(ctx, u)
}

func (s *Service) issuePair(accountID int64) (*TokenPair, error) {
	now := s.now()

	access, err := s.codec.Issue(accountID, token.KindAccess, now)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.Issue(accountID, token.KindRefresh, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
