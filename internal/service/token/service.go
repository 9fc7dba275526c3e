package token

import (
	"context"
	"errors"
	"strings"

	"safe-authenticator/internal/model"
	"safe-authenticator/internal/service"
	"safe-authenticator/pkg/cache"
	"safe-authenticator/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const keyPrefix = "token_info:"

// Service ERC-20 元数据查询，结果按地址缓存且不淘汰
// 并发首次查询同一 token 可能都会读链，后写覆盖先写
type Service struct {
	chain service.TokenInfoReader
	cache cache.Cache
}

func NewService(chain service.TokenInfoReader, c cache.Cache) *Service {
	if c == nil {
		c = cache.NewMemoryCache(0)
	}
	return &Service{chain: chain, cache: c}
}

// TokenInfo 零地址为链原生币，不发起 RPC
func (s *Service) TokenInfo(ctx context.Context, token common.Address) (*model.TokenInfo, error) {
	if token == (common.Address{}) {
		info := model.NativeToken
		return &info, nil
	}

	key := keyPrefix + strings.ToLower(token.Hex())
	var cached model.TokenInfo
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.Warn("token cache get failed", zap.String("token", token.Hex()), zap.Error(err))
	}

	info, err := s.chain.LoadTokenInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, info, cache.NoExpiration); err != nil {
		logger.Warn("token cache set failed", zap.String("token", token.Hex()), zap.Error(err))
	}
	return info, nil
}
