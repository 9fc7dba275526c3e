package token

import (
	"context"
	"errors"
	"testing"

	"safe-authenticator/internal/model"
	"safe-authenticator/pkg/cache"
	"safe-authenticator/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dai = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")

type fakeChain struct {
	calls int
	err   error
}

func (f *fakeChain) LoadTokenInfo(ctx context.Context, token common.Address) (*model.TokenInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &model.TokenInfo{Address: token, Name: "Dai Stablecoin", Symbol: "DAI", Decimals: 18}, nil
}

func TestTokenInfoNative(t *testing.T) {
	chain := &fakeChain{}
	svc := NewService(chain, nil)

	info, err := svc.TokenInfo(context.Background(), common.Address{})
	require.NoError(t, err)
	assert.Equal(t, "ETH", info.Symbol)
	assert.Equal(t, uint8(18), info.Decimals)
	assert.Equal(t, 0, chain.calls, "原生币不应读链")
}

func TestTokenInfoCached(t *testing.T) {
	chain := &fakeChain{}
	svc := NewService(chain, cache.NewMemoryCache(0))

	for i := 0; i < 3; i++ {
		info, err := svc.TokenInfo(context.Background(), dai)
		require.NoError(t, err)
		assert.Equal(t, "DAI", info.Symbol)
		assert.Equal(t, dai, info.Address)
	}
	assert.Equal(t, 1, chain.calls, "命中缓存后不应重复读链")
}

func TestTokenInfoErrorNotCached(t *testing.T) {
	chain := &fakeChain{err: errno.ErrChainRead}
	svc := NewService(chain, nil)

	_, err := svc.TokenInfo(context.Background(), dai)
	assert.True(t, errors.Is(err, errno.ErrChainRead))

	chain.err = nil
	info, err := svc.TokenInfo(context.Background(), dai)
	require.NoError(t, err)
	assert.Equal(t, "DAI", info.Symbol)
	assert.Equal(t, 2, chain.calls, "失败结果不应写入缓存")
}
