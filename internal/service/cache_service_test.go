package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCacheRepo struct {
	err error
}

func (r failingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error { return r.err }

func (r failingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.err
}

func (r failingCacheRepo) Delete(ctx context.Context, keys ...string) error { return r.err }

func TestCandidateCacheKeys(t *testing.T) {
	assert.Equal(t, "candidates:req-1:run-1:all", CandidateCacheKey("req-1", "run-1", ""))
	assert.Equal(t, "candidates:req-1:run-1:fast", CandidateCacheKey("req-1", "run-1", "fast"))
	assert.NotEqual(t, CandidateCacheKey("req-1", "run-1", "near"), CandidateCacheKey("req-1", "run-2", "near"))
	assert.Equal(t, []string{
		"candidates:req-1:none:all",
		"candidates:req-1:none:default",
		"candidates:req-1:none:fast",
		"candidates:req-1:none:near",
	}, CandidateCacheKeys("req-1", "none"))
}

func TestCacheServiceRoundTripRecordsMetrics(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(newMemoryCacheRepo(), metrics, 0, nil, true)
	ctx := context.Background()

	var dest map[string]int
	hit, err := svc.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "k", map[string]int{"a": 1}, 0))
	hit, err = svc.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, dest["a"])

	require.NoError(t, svc.Invalidate(ctx, "k"))
	hit, _ = svc.Get(ctx, "k", &dest)
	assert.False(t, hit)

	snapshot := metrics.Snapshot()
	assert.EqualValues(t, 1, snapshot.CacheHits)
	assert.EqualValues(t, 2, snapshot.CacheMisses)
}

func TestCacheServiceDisabled(t *testing.T) {
	svc := NewCacheService(failingCacheRepo{err: errors.New("boom")}, nil, time.Minute, nil, false)
	assert.False(t, svc.Enabled())

	hit, err := svc.Get(context.Background(), "k", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, svc.Set(context.Background(), "k", 1, 0))
	assert.NoError(t, svc.Invalidate(context.Background(), "k"))

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.NoError(t, nilSvc.Invalidate(context.Background(), "k"))
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	svc := NewCacheService(failingCacheRepo{err: errors.New("redis down")}, nil, time.Minute, nil, true)

	hit, err := svc.Get(context.Background(), "k", &struct{}{})
	assert.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, svc.Set(context.Background(), "k", 1, 0))
	assert.Error(t, svc.Invalidate(context.Background(), "k"))
}
