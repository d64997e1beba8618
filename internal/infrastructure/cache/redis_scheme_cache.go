package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xear/backend/internal/domain/insurance"
	"go.uber.org/zap"
)

// RedisSchemeCache implements insurance.SchemeCache using Redis.
// Suitable for distributed deployments where scheme invalidations must
// reach every instance.
type RedisSchemeCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSchemeCache creates a new Redis-backed scheme cache
func NewRedisSchemeCache(cfg RedisConfig, logger *zap.Logger) (*RedisSchemeCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSchemeCache{
		client:    client,
		keyPrefix: "scheme:",
		logger:    logger,
	}, nil
}

// NewRedisSchemeCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisSchemeCacheWithClient(client *redis.Client, keyPrefix string, logger *zap.Logger) *RedisSchemeCache {
	if keyPrefix == "" {
		keyPrefix = "scheme:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSchemeCache{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

func (c *RedisSchemeCache) key(tenantID uuid.UUID, schemeID string) string {
	return c.keyPrefix + tenantID.String() + ":" + schemeID
}

// Get retrieves a scheme from Redis. Transport or decode failures are
// treated as cache misses; the scheme service falls through to the
// repository.
func (c *RedisSchemeCache) Get(ctx context.Context, tenantID uuid.UUID, schemeID string) (*insurance.Scheme, bool) {
	data, err := c.client.Get(ctx, c.key(tenantID, schemeID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("scheme cache read failed",
				zap.String("scheme_id", schemeID),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var scheme insurance.Scheme
	if err := json.Unmarshal(data, &scheme); err != nil {
		c.logger.Warn("scheme cache entry corrupted, evicting",
			zap.String("scheme_id", schemeID),
			zap.Error(err),
		)
		c.client.Del(ctx, c.key(tenantID, schemeID))
		return nil, false
	}

	return &scheme, true
}

// Set stores a scheme in Redis with the given TTL
func (c *RedisSchemeCache) Set(ctx context.Context, tenantID uuid.UUID, scheme *insurance.Scheme, ttl time.Duration) {
	if scheme == nil || ttl <= 0 {
		return
	}

	data, err := json.Marshal(scheme)
	if err != nil {
		c.logger.Warn("failed to encode scheme for cache",
			zap.String("scheme_id", scheme.ID),
			zap.Error(err),
		)
		return
	}

	if err := c.client.Set(ctx, c.key(tenantID, scheme.ID), data, ttl).Err(); err != nil {
		c.logger.Warn("scheme cache write failed",
			zap.String("scheme_id", scheme.ID),
			zap.Error(err),
		)
	}
}

// Invalidate removes a scheme from Redis
func (c *RedisSchemeCache) Invalidate(ctx context.Context, tenantID uuid.UUID, schemeID string) {
	if err := c.client.Del(ctx, c.key(tenantID, schemeID)).Err(); err != nil {
		c.logger.Warn("scheme cache invalidation failed",
			zap.String("scheme_id", schemeID),
			zap.Error(err),
		)
	}
}

// Close closes the underlying Redis client
func (c *RedisSchemeCache) Close() error {
	return c.client.Close()
}
