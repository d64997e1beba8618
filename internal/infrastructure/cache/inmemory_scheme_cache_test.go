package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/xear/backend/internal/domain/insurance"
)

func testScheme(id string) *insurance.Scheme {
	return &insurance.Scheme{
		ID:   id,
		Name: "SGK Çalışan",
		Bands: []insurance.CoverageBand{
			{MinAge: 18, MaxAge: 200, Contribution: decimal.NewFromInt(6500)},
		},
		CoveragePercent: decimal.NewFromInt(100),
		BilateralDouble: true,
	}
}

func TestInMemorySchemeCache_SetAndGet(t *testing.T) {
	cache := NewInMemorySchemeCache()
	defer cache.Close()

	ctx := context.Background()
	tenantID := uuid.New()
	cache.Set(ctx, tenantID, testScheme("sgk-employed"), 5*time.Minute)

	scheme, ok := cache.Get(ctx, tenantID, "sgk-employed")
	assert.True(t, ok)
	assert.Equal(t, "sgk-employed", scheme.ID)
	assert.True(t, scheme.BilateralDouble)
}

func TestInMemorySchemeCache_MissOnUnknownScheme(t *testing.T) {
	cache := NewInMemorySchemeCache()
	defer cache.Close()

	_, ok := cache.Get(context.Background(), uuid.New(), "sgk-retired")
	assert.False(t, ok)
}

func TestInMemorySchemeCache_TenantIsolation(t *testing.T) {
	cache := NewInMemorySchemeCache()
	defer cache.Close()

	ctx := context.Background()
	tenantA := uuid.New()
	tenantB := uuid.New()
	cache.Set(ctx, tenantA, testScheme("sgk-employed"), 5*time.Minute)

	_, ok := cache.Get(ctx, tenantB, "sgk-employed")
	assert.False(t, ok)

	_, ok = cache.Get(ctx, tenantA, "sgk-employed")
	assert.True(t, ok)
}

func TestInMemorySchemeCache_ExpiredEntryIsMiss(t *testing.T) {
	cache := NewInMemorySchemeCache()
	defer cache.Close()

	ctx := context.Background()
	tenantID := uuid.New()
	cache.Set(ctx, tenantID, testScheme("sgk-employed"), time.Nanosecond)

	time.Sleep(time.Millisecond)

	_, ok := cache.Get(ctx, tenantID, "sgk-employed")
	assert.False(t, ok)
}

func TestInMemorySchemeCache_Invalidate(t *testing.T) {
	cache := NewInMemorySchemeCache()
	defer cache.Close()

	ctx := context.Background()
	tenantID := uuid.New()
	cache.Set(ctx, tenantID, testScheme("sgk-employed"), 5*time.Minute)
	cache.Invalidate(ctx, tenantID, "sgk-employed")

	_, ok := cache.Get(ctx, tenantID, "sgk-employed")
	assert.False(t, ok)
}

func TestInMemorySchemeCache_IgnoresNilAndZeroTTL(t *testing.T) {
	cache := NewInMemorySchemeCache()
	defer cache.Close()

	ctx := context.Background()
	tenantID := uuid.New()
	cache.Set(ctx, tenantID, nil, 5*time.Minute)
	cache.Set(ctx, tenantID, testScheme("sgk-employed"), 0)

	_, ok := cache.Get(ctx, tenantID, "sgk-employed")
	assert.False(t, ok)
}

func TestInMemorySchemeCache_Stats(t *testing.T) {
	cache := NewInMemorySchemeCache()
	defer cache.Close()

	ctx := context.Background()
	tenantID := uuid.New()
	cache.Set(ctx, tenantID, testScheme("sgk-employed"), 5*time.Minute)

	cache.Get(ctx, tenantID, "sgk-employed")
	cache.Get(ctx, tenantID, "sgk-retired")

	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}
