package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"safe-authenticator/pkg/errno"
)

// FileStore 每个键对应目录下的一个文件
type FileStore struct {
	dir string
}

// NewFileStore 创建文件存储，目录不存在时自动创建 (0700)
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errno.ErrStorage.Wrap(fmt.Errorf("创建存储目录失败: %w", err))
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errno.ErrStorage.Wrap(err)
	}
	return data, nil
}

// Put 先写临时文件再 rename，避免写到一半的文件被读取
func (s *FileStore) Put(ctx context.Context, key string, value []byte) error {
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0600); err != nil {
		return errno.ErrStorage.Wrap(err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return errno.ErrStorage.Wrap(err)
	}
	return nil
}
