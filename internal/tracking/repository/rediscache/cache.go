package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-shortview/internal/tracking/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	artifactCachePrefix = "artifact:"
	artifactCacheTTL    = 10 * time.Minute
)

// ArtifactCache caches artifact lookups by id.
// Implementations handle misses by returning nil, nil.
type ArtifactCache interface {
	// Get returns nil, nil on a cache miss.
	Get(ctx context.Context, id string) (*domain.Artifact, error)
	Set(ctx context.Context, a *domain.Artifact) error
	Invalidate(ctx context.Context, id string) error
}

// Compile-time interface checks
var (
	_ ArtifactCache = (*RedisArtifactCache)(nil)
	_ ArtifactCache = (*noopArtifactCache)(nil)
)

// RedisArtifactCache implements ArtifactCache using Redis.
type RedisArtifactCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewArtifactCache creates a Redis-based artifact cache.
// Returns a no-op cache if the Redis client is nil.
func NewArtifactCache(rdb *redis.Client, logger *zap.Logger) ArtifactCache {
	if rdb == nil {
		return &noopArtifactCache{}
	}
	return &RedisArtifactCache{
		rdb:    rdb,
		ttl:    artifactCacheTTL,
		logger: logger,
	}
}

// NewClient connects to Redis at addr. An empty addr disables caching and
// returns a nil client.
func NewClient(ctx context.Context, addr string) (*redis.Client, func(), error) {
	if addr == "" {
		return nil, func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, func() { rdb.Close() }, nil
}

// cachedArtifact is the serialization format for cached artifacts.
type cachedArtifact struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	OwnerID     string    `json:"owner_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	LifetimeNS  int64     `json:"lifetime_ns"`
	Destination string    `json:"destination"`
	Notify      string    `json:"notify"`
}

func (c *RedisArtifactCache) cacheKey(id string) string {
	return artifactCachePrefix + id
}

// Get retrieves an artifact from the Redis cache.
func (c *RedisArtifactCache) Get(ctx context.Context, id string) (*domain.Artifact, error) {
	data, err := c.rdb.Get(ctx, c.cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("failed to get artifact from cache", zap.String("artifact_id", id), zap.Error(err))
		}
		return nil, nil // Treat errors as cache miss
	}

	var cached cachedArtifact
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn("failed to unmarshal cached artifact", zap.String("artifact_id", id), zap.Error(err))
		return nil, nil
	}

	kind := domain.Kind(cached.Kind)
	if !kind.Valid() {
		return nil, nil
	}

	return &domain.Artifact{
		ID:          cached.ID,
		Kind:        kind,
		OwnerID:     cached.OwnerID,
		Description: cached.Description,
		CreatedAt:   cached.CreatedAt.UTC(),
		Lifetime:    time.Duration(cached.LifetimeNS),
		Destination: cached.Destination,
		Notify:      domain.NotifyPolicy(cached.Notify),
	}, nil
}

// Set stores an artifact in the Redis cache.
func (c *RedisArtifactCache) Set(ctx context.Context, a *domain.Artifact) error {
	data, err := json.Marshal(cachedArtifact{
		ID:          a.ID,
		Kind:        string(a.Kind),
		OwnerID:     a.OwnerID,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		LifetimeNS:  int64(a.Lifetime),
		Destination: a.Destination,
		Notify:      string(a.Notify),
	})
	if err != nil {
		c.logger.Warn("failed to marshal artifact for cache", zap.String("artifact_id", a.ID), zap.Error(err))
		return nil // Don't fail the operation due to cache errors
	}

	if err := c.rdb.Set(ctx, c.cacheKey(a.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache artifact", zap.String("artifact_id", a.ID), zap.Error(err))
	}
	return nil
}

// Invalidate removes an artifact from the Redis cache.
func (c *RedisArtifactCache) Invalidate(ctx context.Context, id string) error {
	if err := c.rdb.Del(ctx, c.cacheKey(id)).Err(); err != nil {
		c.logger.Warn("failed to invalidate artifact cache", zap.String("artifact_id", id), zap.Error(err))
	}
	return nil
}

// noopArtifactCache is used when Redis is not configured.
type noopArtifactCache struct{}

func (noopArtifactCache) Get(context.Context, string) (*domain.Artifact, error) { return nil, nil }

func (noopArtifactCache) Set(context.Context, *domain.Artifact) error { return nil }

func (noopArtifactCache) Invalidate(context.Context, string) error { return nil }
