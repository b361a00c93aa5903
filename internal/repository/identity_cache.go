package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/identity-gateway/internal/domain"
)

const cacheKeyPrefix = "identity:"

// ProjectionCache keeps short-lived identity projections in Redis. It is
// best-effort: any Redis failure reads as a miss and writes are fire and
// forget, so the store stays authoritative.
type ProjectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProjectionCache wraps a Redis client with a fixed entry TTL.
func NewProjectionCache(client *redis.Client, ttl time.Duration) *ProjectionCache {
	return &ProjectionCache{client: client, ttl: ttl}
}

// Get returns the cached projection for the id, if any.
func (c *ProjectionCache) Get(ctx context.Context, id string) (*domain.Identity, bool) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil, false
	}

	raw, err := c.client.Get(ctx, cacheKeyPrefix+id).Bytes()
	if err != nil {
		return nil, false
	}

	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, false
	}
	return &identity, true
}

// Set stores the projection under its id.
func (c *ProjectionCache) Set(ctx context.Context, identity *domain.Identity) {
	if c == nil || c.client == nil || c.ttl <= 0 || identity == nil {
		return
	}

	raw, err := json.Marshal(identity)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKeyPrefix+identity.ID, raw, c.ttl)
}

// Invalidate drops the cached projection for the id.
func (c *ProjectionCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, cacheKeyPrefix+id)
}
