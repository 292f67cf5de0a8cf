package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"login-service/internal/auth/credentials"
	"login-service/internal/auth/token"
	"login-service/internal/user"
)

type stubVerifier struct {
	identity *Identity
	err      error
}

func (s *stubVerifier) Verify(context.Context, string) (*Identity, error) {
	return s.identity, s.err
}

type stubResolver struct {
	user *user.User
	err  error
}

func (s *stubResolver) Resolve(context.Context, *Identity) (*user.User, error) {
	return s.user, s.err
}

func newTestService(t *testing.T, repo user.Repository, verifier IdentityVerifier, res AccountResolver) *Service {
	t.Helper()
	codec, err := token.NewCodec("test-secret", "HS256", 30*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	s := NewService(repo, codec, verifier, res)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s
}

func seedPasswordUser(t *testing.T, repo user.Repository, email, username, password string) *user.User {
	t.Helper()
	hash, err := credentials.Hash(password)
	if err != nil {
		t.Fatal(err)
	}
	u := &user.User{Email: email, Username: username, PasswordHash: hash, Active: true}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}

func TestRegister(t *testing.T) {
	repo := user.NewMemoryRepository()
	s := newTestService(t, repo, nil, nil)
	ctx := context.Background()

	u, err := s.Register(ctx, "a@x.com", "alice", "longpassword123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if u.ID == 0 {
		t.Error("registered account has no id")
	}
	if !u.Active || u.Verified {
		t.Errorf("new account must be active and unverified: %+v", u)
	}
	if u.PasswordHash == "" || u.PasswordHash == "longpassword123" {
		t.Error("password not hashed")
	}

	tests := []struct {
		name     string
		email    string
		username string
	}{
		{"duplicate email", "a@x.com", "other"},
		{"duplicate email case-insensitive", "A@X.COM", "other2"},
		{"duplicate username", "b@x.com", "alice"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Register(ctx, tc.email, tc.username, "longpassword123"); !errors.Is(err, ErrAccountExists) {
				t.Errorf("error = %v, want ErrAccountExists", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	repo := user.NewMemoryRepository()
	s := newTestService(t, repo, nil, nil)
	ctx := context.Background()

	seedPasswordUser(t, repo, "a@x.com", "alice", "longpassword123")

	federated := &user.User{Email: "g@x.com", GoogleID: "g1", Active: true, Verified: true}
	if err := repo.Create(ctx, federated); err != nil {
		t.Fatal(err)
	}

	inactive := seedPasswordUser(t, repo, "off@x.com", "off", "longpassword123")
	inactive.Active = false
	if err := repo.Update(ctx, inactive); err != nil {
		t.Fatal(err)
	}

	t.Run("success", func(t *testing.T) {
		pair, err := s.Login(ctx, "a@x.com", "longpassword123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" || pair.TokenType != "bearer" {
			t.Errorf("bad token pair: %+v", pair)
		}
	})

	// Every failure mode collapses into the same error so responses
	// cannot be used for account enumeration.
	failures := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@x.com", "longpassword123"},
		{"wrong password", "a@x.com", "wrong"},
		{"federated-only account", "g@x.com", "longpassword123"},
		{"inactive account", "off@x.com", "longpassword123"},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Login(ctx, tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestGoogleLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("unconfigured", func(t *testing.T) {
		s := newTestService(t, user.NewMemoryRepository(), nil, nil)
		if _, err := s.GoogleLogin(ctx, "raw"); !errors.Is(err, ErrFederationUnavailable) {
			t.Errorf("error = %v, want ErrFederationUnavailable", err)
		}
	})

	t.Run("verifier failure passes through", func(t *testing.T) {
		rejected := errors.New("id token rejected")
		s := newTestService(t, user.NewMemoryRepository(), &stubVerifier{err: rejected}, &stubResolver{})
		if _, err := s.GoogleLogin(ctx, "raw"); !errors.Is(err, rejected) {
			t.Errorf("error = %v, want the verifier error", err)
		}
	})

	t.Run("success issues pair for resolved account", func(t *testing.T) {
		repo := user.NewMemoryRepository()
		resolved := &user.User{Email: "b@x.com", GoogleID: "g1", Active: true, Verified: true}
		if err := repo.Create(ctx, resolved); err != nil {
			t.Fatal(err)
		}

		s := newTestService(t, repo,
			&stubVerifier{identity: &Identity{Provider: "google", ProviderUserID: "g1", Email: "b@x.com"}},
			&stubResolver{user: resolved},
		)

		pair, err := s.GoogleLogin(ctx, "raw")
		if err != nil {
			t.Fatalf("GoogleLogin failed: %v", err)
		}

		// The pair must be keyed on the resolved account.
		claims, err := s.codec.Verify(pair.AccessToken, s.now())
		if err != nil {
			t.Fatal(err)
		}
		if id, _ := claims.AccountID(); id != resolved.ID {
			t.Errorf("access token subject = %d, want %d", id, resolved.ID)
		}
	})
}

func TestRefresh(t *testing.T) {
	repo := user.NewMemoryRepository()
	s := newTestService(t, repo, nil, nil)
	ctx := context.Background()

	u := seedPasswordUser(t, repo, "a@x.com", "alice", "longpassword123")

	refresh, err := s.codec.Issue(u.ID, token.KindRefresh, s.now())
	if err != nil {
		t.Fatal(err)
	}
	access, err := s.codec.Issue(u.ID, token.KindAccess, s.now())
	if err != nil {
		t.Fatal(err)
	}
	ghost, err := s.codec.Issue(9999, token.KindRefresh, s.now())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("success", func(t *testing.T) {
		pair, err := s.Refresh(ctx, refresh)
		if err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}

		claims, err := s.codec.Verify(pair.RefreshToken, s.now())
		if err != nil {
			t.Fatal(err)
		}
		if claims.Kind != string(token.KindRefresh) {
			t.Errorf("new refresh token kind = %q", claims.Kind)
		}
	})

	t.Run("access token rejected", func(t *testing.T) {
		if _, err := s.Refresh(ctx, access); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage rejected", func(t *testing.T) {
		if _, err := s.Refresh(ctx, "not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("deleted account rejected", func(t *testing.T) {
		if _, err := s.Refresh(ctx, ghost); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("inactive account rejected", func(t *testing.T) {
		u.Active = false
		if err := repo.Update(ctx, u); err != nil {
			t.Fatal(err)
		}
		defer func() {
			u.Active = true
			_ = repo.Update(ctx, u)
		}()

		if _, err := s.Refresh(ctx, refresh); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired refresh token rejected", func(t *testing.T) {
		s.now = func() time.Time { return time.Unix(1700000000, 0).Add(8 * 24 * time.Hour) }
		defer func() { s.now = func() time.Time { return time.Unix(1700000000, 0) } }()

		if _, err := s.Refresh(ctx, refresh); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestChangePassword(t *testing.T) {
	repo := user.NewMemoryRepository()
	s := newTestService(t, repo, nil, nil)
	ctx := context.Background()

	u := seedPasswordUser(t, repo, "a@x.com", "alice", "oldpassword123")

	t.Run("wrong old password", func(t *testing.T) {
		if err := s.ChangePassword(ctx, u, "wrongpassword", "newpassword123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("federated-only account", func(t *testing.T) {
		federated := &user.User{Email: "g@x.com", GoogleID: "g1", Active: true}
		if err := repo.Create(ctx, federated); err != nil {
			t.Fatal(err)
		}
		if err := s.ChangePassword(ctx, federated, "any", "newpassword123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		if err := s.ChangePassword(ctx, u, "oldpassword123", "newpassword123"); err != nil {
			t.Fatalf("ChangePassword failed: %v", err)
		}

		if _, err := s.Login(ctx, "a@x.com", "oldpassword123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Error("old password still accepted after change")
		}
		if _, err := s.Login(ctx, "a@x.com", "newpassword123"); err != nil {
			t.Errorf("new password not accepted: %v", err)
		}
	})
}
