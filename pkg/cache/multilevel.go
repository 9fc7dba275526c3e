package cache

import (
	"context"
	"errors"
	"time"

	"safe-authenticator/pkg/logger"

	"go.uber.org/zap"
)

// MultiLevelCache L1 进程内 + L2 Redis
// L2 不可用时退化为只用 L1，读写都不报错
type MultiLevelCache struct {
	local  Cache
	remote Cache
}

func NewMultiLevelCache(local, remote Cache) *MultiLevelCache {
	return &MultiLevelCache{
		local:  local,
		remote: remote,
	}
}

func (m *MultiLevelCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := m.local.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	if err := m.remote.Set(ctx, key, value, ttl); err != nil {
		logger.Warn("remote cache set failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (m *MultiLevelCache) Get(ctx context.Context, key string, target interface{}) error {
	if err := m.local.Get(ctx, key, target); err == nil {
		return nil
	}

	err := m.remote.Get(ctx, key, target)
	switch {
	case err == nil:
		// 回写 L1
		_ = m.local.Set(ctx, key, target, NoExpiration)
		return nil
	case errors.Is(err, ErrMiss):
		return ErrMiss
	default:
		logger.Warn("remote cache get failed", zap.String("key", key), zap.Error(err))
		return ErrMiss
	}
}

func (m *MultiLevelCache) Delete(ctx context.Context, key string) error {
	_ = m.local.Delete(ctx, key)
	return m.remote.Delete(ctx, key)
}
