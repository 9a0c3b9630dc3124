package directory

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"bestbosses/internal/boss"
	platformredis "bestbosses/internal/platform/redis"
)

const listingCacheKey = "directory:listing"

// Cache holds the rendered directory listing in Redis for a short TTL.
// Only the listing payload is cached; access decisions never are, so a
// fresh approval is visible on the approved member's next request even
// while the listing itself is a few seconds stale.
type Cache struct {
	client *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache returns a listing cache. A nil redis client yields a cache that
// always misses, which keeps call sites free of nil checks.
func NewCache(client *platformredis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Listing returns the cached listing and whether it was present. Cache
// errors degrade to a miss.
func (c *Cache) Listing(ctx context.Context) ([]*boss.Boss, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, listingCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var listing []*boss.Boss
	if err := json.Unmarshal(raw, &listing); err != nil {
		c.logger.Warn("discarding undecodable directory cache entry", "error", err)
		return nil, false
	}
	return listing, true
}

// StoreListing writes the listing with the configured TTL. Failures are
// logged, never surfaced; the cache is an optimization only.
func (c *Cache) StoreListing(ctx context.Context, listing []*boss.Boss) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(listing)
	if err != nil {
		c.logger.Warn("failed to encode directory listing for cache", "error", err)
		return
	}
	if err := c.client.Set(ctx, listingCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache directory listing", "error", err)
	}
}

// Invalidate drops the cached listing, called after an approval
// materializes a new boss so the listing refreshes ahead of TTL expiry.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, listingCacheKey).Err(); err != nil {
		c.logger.Warn("failed to invalidate directory cache", "error", err)
	}
}
