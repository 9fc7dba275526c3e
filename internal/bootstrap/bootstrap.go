package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"safe-authenticator/internal/backend"
	"safe-authenticator/internal/chain"
	"safe-authenticator/internal/safe"
	"safe-authenticator/internal/service/limit"
	"safe-authenticator/internal/service/token"
	"safe-authenticator/internal/service/transaction"
	"safe-authenticator/internal/vault"
	"safe-authenticator/pkg/address"
	"safe-authenticator/pkg/cache"
	"safe-authenticator/pkg/config"
	"safe-authenticator/pkg/database"
	"safe-authenticator/pkg/errno"
	"safe-authenticator/pkg/logger"
	"safe-authenticator/pkg/storage"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPrefix = "safe-authenticator:"

// Components 按配置装配好的核心组件，CLI 与 HTTP 服务共用
type Components struct {
	Config config.Config

	Redis        *redis.Client
	Store        storage.Store
	Vault        *vault.Vault
	Chain        *chain.Client
	Backend      *backend.Client
	Engine       *safe.Engine
	Transactions *transaction.Service
	Limits       *limit.Service
	Tokens       *token.Service

	closers []func()
}

func New(ctx context.Context, cfg config.Config) (*Components, error) {
	c := &Components{Config: cfg}

	rdb, err := database.ConnectRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		c.Redis = rdb
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	if c.Store, err = newStore(cfg.Wallet, rdb); err != nil {
		c.Close()
		return nil, err
	}

	c.Vault = vault.New(c.Store, vault.Config{
		Passphrase:  cfg.Wallet.Passphrase,
		Language:    cfg.Wallet.Language,
		EntropyBits: cfg.Wallet.EntropyBits,
		ScryptN:     cfg.Wallet.ScryptN,
	})

	transport, err := chain.DialRPC(ctx, cfg.Chain.RpcUrl)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.closers = append(c.closers, transport.Close)
	c.Chain = chain.NewClient(transport)

	module, err := parseOptionalAddress(cfg.Limit.ModuleAddress)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Backend = backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
	c.Engine = safe.NewEngine(c.Vault, c.Backend)
	c.Transactions = transaction.NewService(c.Chain, c.Backend, c.Vault)
	c.Limits = limit.NewService(c.Chain, c.Vault, c.Backend, limit.Config{
		Module:  module,
		ChainID: big.NewInt(cfg.Chain.ChainID),
	})
	c.Tokens = token.NewService(c.Chain, newTokenCache(rdb))

	logger.Info("components ready",
		zap.String("store", cfg.Wallet.Store),
		zap.String("rpc", cfg.Chain.RpcUrl),
		zap.String("backend", cfg.Backend.URL),
		zap.Bool("redis", rdb != nil))
	return c, nil
}

// Close 逆序释放资源
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func newStore(cfg config.WalletConfig, rdb *redis.Client) (storage.Store, error) {
	switch strings.ToLower(cfg.Store) {
	case "", "file":
		return storage.NewFileStore(cfg.DataDir)
	case "redis":
		if rdb == nil {
			return nil, errno.ErrStorage.WithMessage("wallet.store=redis requires redis.enabled")
		}
		return storage.NewRedisStore(rdb, redisPrefix), nil
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, errno.ErrStorage.WithMessage(fmt.Sprintf("unknown wallet.store %q", cfg.Store))
	}
}

// newTokenCache 有 Redis 时使用两级缓存
func newTokenCache(rdb *redis.Client) cache.Cache {
	local := cache.NewMemoryCache(0)
	if rdb == nil {
		return local
	}
	return cache.NewMultiLevelCache(local, cache.NewRedisCache(rdb, redisPrefix))
}

func parseOptionalAddress(s string) (common.Address, error) {
	if strings.TrimSpace(s) == "" {
		return common.Address{}, nil
	}
	return address.Parse(s)
}

// SafeAddress 读取已保存的 Safe 地址
func SafeAddress(ctx context.Context, store storage.Store) (common.Address, error) {
	raw, err := store.Get(ctx, storage.KeySafeAddress)
	if errors.Is(err, storage.ErrNotFound) {
		return common.Address{}, errno.ErrValidation.WithMessage("no safe selected, run `safe-cli use <address>` first")
	}
	if err != nil {
		return common.Address{}, err
	}
	return address.Parse(string(raw))
}

// SetSafeAddress 以校验和格式保存 Safe 地址
func SetSafeAddress(ctx context.Context, store storage.Store, addr common.Address) error {
	return store.Put(ctx, storage.KeySafeAddress, []byte(addr.Hex()))
}
