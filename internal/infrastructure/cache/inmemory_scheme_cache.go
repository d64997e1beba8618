package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/insurance"
	"go.uber.org/zap"
)

const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemorySchemeCache implements insurance.SchemeCache with process-local
// storage. Suitable for single-instance deployments; multi-instance setups
// should use RedisSchemeCache so invalidations reach every node.
type InMemorySchemeCache struct {
	entries sync.Map // map[string]*schemeEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type schemeEntry struct {
	scheme    *insurance.Scheme
	expiresAt time.Time
}

func (e *schemeEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemorySchemeCacheOption configures the cache
type InMemorySchemeCacheOption func(*InMemorySchemeCache)

// WithSchemeCacheLogger sets the logger for the cache
func WithSchemeCacheLogger(logger *zap.Logger) InMemorySchemeCacheOption {
	return func(c *InMemorySchemeCache) {
		c.logger = logger
	}
}

// NewInMemorySchemeCache creates a new in-memory scheme cache
func NewInMemorySchemeCache(opts ...InMemorySchemeCacheOption) *InMemorySchemeCache {
	cache := &InMemorySchemeCache{
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

func schemeCacheKey(tenantID uuid.UUID, schemeID string) string {
	return tenantID.String() + ":" + schemeID
}

// Get retrieves a scheme from cache
func (c *InMemorySchemeCache) Get(ctx context.Context, tenantID uuid.UUID, schemeID string) (*insurance.Scheme, bool) {
	key := schemeCacheKey(tenantID, schemeID)

	if value, ok := c.entries.Load(key); ok {
		entry := value.(*schemeEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.scheme, true
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, false
}

// Set stores a scheme in cache with the given TTL
func (c *InMemorySchemeCache) Set(ctx context.Context, tenantID uuid.UUID, scheme *insurance.Scheme, ttl time.Duration) {
	if scheme == nil || ttl <= 0 {
		return
	}

	c.entries.Store(schemeCacheKey(tenantID, scheme.ID), &schemeEntry{
		scheme:    scheme,
		expiresAt: time.Now().Add(ttl),
	})
}

// Invalidate removes a scheme from cache
func (c *InMemorySchemeCache) Invalidate(ctx context.Context, tenantID uuid.UUID, schemeID string) {
	c.entries.Delete(schemeCacheKey(tenantID, schemeID))
}

// Stats returns hit/miss counters for monitoring
func (c *InMemorySchemeCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Close stops the background cleanup goroutine
func (c *InMemorySchemeCache) Close() {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
}

// cleanupExpired periodically evicts expired entries so abandoned tenants
// do not pin memory
func (c *InMemorySchemeCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.entries.Range(func(key, value any) bool {
				if value.(*schemeEntry).isExpired() {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}
