package storage

import (
	"context"
	"errors"

	"safe-authenticator/pkg/errno"

	"github.com/redis/go-redis/v9"
)

// RedisStore 将数据块保存为 Redis String，键带统一前缀
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errno.ErrStorage.Wrap(err)
	}
	return val, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return errno.ErrStorage.Wrap(err)
	}
	return nil
}
