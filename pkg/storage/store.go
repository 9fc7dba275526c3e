package storage

import (
	"context"
	"errors"
)

// 预定义的存储键
const (
	KeyMnemonic    = "mnemonic"
	KeySafeAddress = "safe_address"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("storage: key not found")

// Store 定义了按键读写单个数据块的持久化接口
type Store interface {
	// Get 读取数据，键不存在时返回 ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Put 写入数据 (覆盖)
	Put(ctx context.Context, key string, value []byte) error
}
