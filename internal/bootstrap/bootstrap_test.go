package bootstrap

import (
	"context"
	"errors"
	"testing"

	"safe-authenticator/pkg/config"
	"safe-authenticator/pkg/errno"
	"safe-authenticator/pkg/keystore"
	"safe-authenticator/pkg/storage"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	var cfg config.Config
	cfg.Wallet.Store = "memory"
	cfg.Wallet.Passphrase = "test-passphrase"
	cfg.Wallet.Language = "english"
	cfg.Wallet.ScryptN = keystore.LightScryptN
	cfg.Chain.RpcUrl = "http://127.0.0.1:1"
	cfg.Chain.ChainID = 5
	cfg.Backend.URL = "http://127.0.0.1:1"
	return cfg
}

func TestNewWiresComponents(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, testConfig())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Redis, "未启用 Redis")
	assert.IsType(t, &storage.MemoryStore{}, c.Store)
	assert.NotNil(t, c.Engine)
	assert.NotNil(t, c.Transactions)
	assert.NotNil(t, c.Limits)
	assert.NotNil(t, c.Tokens)

	require.NoError(t, c.Vault.Import(ctx, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"))
	addr, err := c.Vault.DeviceAddress(ctx)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94"), addr)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Wallet.Store = "redis"
	_, err := New(context.Background(), cfg)
	assert.True(t, errors.Is(err, errno.ErrStorage), "redis 未启用时不能使用 redis store")

	cfg = testConfig()
	cfg.Limit.ModuleAddress = "0x1234"
	_, err = New(context.Background(), cfg)
	assert.True(t, errors.Is(err, errno.ErrValidation))
}

func TestSafeAddressPreference(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	_, err := SafeAddress(ctx, store)
	assert.True(t, errors.Is(err, errno.ErrValidation), "未选择 Safe 时应提示")

	want := common.HexToAddress("0x1111111111111111111111111111111111111111")
	require.NoError(t, SetSafeAddress(ctx, store, want))

	got, err := SafeAddress(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, err := store.Get(ctx, storage.KeySafeAddress)
	require.NoError(t, err)
	assert.Equal(t, want.Hex(), string(raw), "以校验和格式保存")
}
