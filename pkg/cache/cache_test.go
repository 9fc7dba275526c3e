package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)

	var got entry
	assert.True(t, errors.Is(c.Get(ctx, "k", &got), ErrMiss), "首次读取应未命中")

	require.NoError(t, c.Set(ctx, "k", entry{Name: "Dai", Decimals: 18}, NoExpiration))
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, entry{Name: "Dai", Decimals: 18}, got)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Set(ctx, "k", entry{Name: "USDC", Decimals: 6}, NoExpiration))
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "USDC", got.Name, "后写覆盖先写")

	require.NoError(t, c.Delete(ctx, "k"))
	assert.True(t, errors.Is(c.Get(ctx, "k", &got), ErrMiss))
}

func TestMemoryCacheReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)

	v := &entry{Name: "Dai"}
	require.NoError(t, c.Set(ctx, "k", v, NoExpiration))
	v.Name = "mutated"

	var got entry
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "Dai", got.Name, "缓存不应受调用方修改影响")
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)

	require.NoError(t, c.Set(ctx, "k", entry{Name: "x"}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got entry
	assert.True(t, errors.Is(c.Get(ctx, "k", &got), ErrMiss), "过期后应未命中")
}

type failingCache struct{}

func (failingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("redis down")
}

func (failingCache) Get(ctx context.Context, key string, target interface{}) error {
	return errors.New("redis down")
}

func (failingCache) Delete(ctx context.Context, key string) error {
	return errors.New("redis down")
}

func TestMultiLevelCacheBackfillsLocal(t *testing.T) {
	ctx := context.Background()
	local, remote := NewMemoryCache(0), NewMemoryCache(0)
	c := NewMultiLevelCache(local, remote)

	require.NoError(t, remote.Set(ctx, "k", entry{Name: "Dai"}, NoExpiration))

	var got entry
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "Dai", got.Name)
	assert.Equal(t, 1, local.Len(), "L2 命中后应回写 L1")
}

func TestMultiLevelCacheToleratesRemoteFailure(t *testing.T) {
	ctx := context.Background()
	c := NewMultiLevelCache(NewMemoryCache(0), failingCache{})

	require.NoError(t, c.Set(ctx, "k", entry{Name: "Dai"}, NoExpiration), "L2 写失败不影响 L1")

	var got entry
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "Dai", got.Name)

	assert.True(t, errors.Is(c.Get(ctx, "missing", &got), ErrMiss))
}
