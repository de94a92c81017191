package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps Redis based caching of computed summaries with per-user
// versioning. Bumping the version invalidates every cached window at once.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) versionKey(userID string) string {
	return fmt.Sprintf("finance:version:%s", userID)
}

// Version returns the user's cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context, userID string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, c.versionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, c.versionKey(userID), 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes a cache key scoped by user and version.
func (c *Cache) BuildKey(ctx context.Context, userID string, parts ...string) (string, error) {
	ver, err := c.Version(ctx, userID)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("finance:summary:%s:%d", userID, ver)
	for _, part := range parts {
		key += ":" + part
	}
	return key, nil
}

// FetchJSON loads a cached value or populates it using the loader.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dest)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates the user's cached summaries by incrementing the version.
func (c *Cache) Bump(ctx context.Context, userID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, c.versionKey(userID)).Err()
}
