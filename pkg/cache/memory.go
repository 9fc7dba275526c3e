package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache 进程内缓存，值以 JSON 字节保存，取出的是副本
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache cleanupInterval 为 0 时不启动清理协程
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		c: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

func (m *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.c.Set(key, b, expiration(ttl))
	return nil
}

func (m *MemoryCache) Get(ctx context.Context, key string, target interface{}) error {
	val, found := m.c.Get(key)
	if !found {
		return ErrMiss
	}
	return json.Unmarshal(val.([]byte), target)
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Len 当前条目数 (含尚未清理的过期条目)
func (m *MemoryCache) Len() int {
	return m.c.ItemCount()
}

func expiration(ttl time.Duration) time.Duration {
	if ttl <= NoExpiration {
		return gocache.NoExpiration
	}
	return ttl
}
