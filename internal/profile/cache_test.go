package profile

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client)
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	if got := cache.Get(ctx, 1); got != nil {
		t.Errorf("Get on empty cache = %+v, want nil", got)
	}

	p := &Profile{ID: 10, UserID: 1, Nickname: "Ali", Bio: "hello"}
	cache.Set(ctx, p)

	got := cache.Get(ctx, 1)
	if got == nil {
		t.Fatal("Get after Set returned nil")
	}
	if got.Nickname != "Ali" || got.Bio != "hello" || got.UserID != 1 {
		t.Errorf("cached profile = %+v, want %+v", got, p)
	}

	cache.Invalidate(ctx, 1)
	if got := cache.Get(ctx, 1); got != nil {
		t.Errorf("Get after Invalidate = %+v, want nil", got)
	}
}

func TestNilCacheIsNoOp(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	// None of these may panic.
	cache.Set(ctx, &Profile{UserID: 1})
	cache.Invalidate(ctx, 1)
	if got := cache.Get(ctx, 1); got != nil {
		t.Errorf("nil cache Get = %+v, want nil", got)
	}
}

func TestServiceUsesCache(t *testing.T) {
	cache := newTestCache(t)
	profiles := NewMemoryRepository()
	s := NewService(profiles, nil, cache)
	ctx := context.Background()

	p := &Profile{UserID: 7, Nickname: "cached"}
	if err := profiles.Save(ctx, p); err != nil {
		t.Fatal(err)
	}

	// First read warms the cache.
	first, err := s.Get(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if cached := cache.Get(ctx, 7); cached == nil {
		t.Error("Get did not populate the cache")
	}

	// A stale cache entry is served until invalidated.
	p.Nickname = "updated"
	if err := profiles.Save(ctx, p); err != nil {
		t.Fatal(err)
	}
	second, err := s.Get(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if second.Nickname != first.Nickname {
		t.Errorf("expected cached read, got %q", second.Nickname)
	}

	cache.Invalidate(ctx, 7)
	third, err := s.Get(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if third.Nickname != "updated" {
		t.Errorf("after invalidation got %q, want updated", third.Nickname)
	}
}
