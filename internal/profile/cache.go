package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const cacheTTL = 5 * time.Minute

// Cache is a read-through cache for profile rows. A nil *Cache is a
// no-op, which is how deployments without redis run.
type Cache struct {
	client *goredis.Client
}

func NewCache(client *goredis.Client) *Cache {
	return &Cache{client: client}
}

func cacheKey(userID int64) string {
	return fmt.Sprintf("profile:%d", userID)
}

// Get returns the cached profile for userID, or nil on a miss. Cache
// failures are misses, never request failures.
func (c *Cache) Get(ctx context.Context, userID int64) *Profile {
	if c == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		return nil
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}
	return &p
}

// Set stores p with a short TTL; best-effort.
func (c *Cache) Set(ctx context.Context, p *Profile) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(p.UserID), raw, cacheTTL).Err()
}

// Invalidate drops the cached row after a write.
func (c *Cache) Invalidate(ctx context.Context, userID int64) {
	if c == nil {
		return
	}
	_ = c.client.Del(ctx, cacheKey(userID)).Err()
}
