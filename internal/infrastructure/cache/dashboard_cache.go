package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "learnhub:report"
	versionKeySuffix = "version"
)

// DashboardCache is a versioned JSON cache. Bumping the version orphans every
// previously written key, which then expires through its TTL.
// A cache without a client passes every lookup through to the loader.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewDashboardCache creates a cache on client. A nil client disables caching.
func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{client: client, ttl: ttl, prefix: defaultKeyPrefix}
}

// Enabled reports whether lookups reach Redis
func (c *DashboardCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *DashboardCache) versionKey() string {
	return c.prefix + ":" + versionKeySuffix
}

// Version returns the current cache version, initialising it when missing
func (c *DashboardCache) Version(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) || (err == nil && ver <= 0) {
		if err := c.client.Set(ctx, c.versionKey(), 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey joins parts under the cache prefix and appends the current version
func (c *DashboardCache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(parts, ":")
	if !c.Enabled() {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%d", c.prefix, joined, ver), nil
}

// FetchJSON decodes the cached value at key into dest, or runs loader and
// stores its result. hit reports whether the value came from Redis.
func (c *DashboardCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) (hit bool, err error) {
	if loader == nil {
		return false, errors.New("cache: loader required")
	}

	if c.Enabled() {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return true, json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return false, err
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return false, err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	if c.Enabled() {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return false, err
		}
	}
	return false, json.Unmarshal(raw, dest)
}

// Bump invalidates every cached entry by incrementing the version
func (c *DashboardCache) Bump(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Incr(ctx, c.versionKey()).Err()
}
