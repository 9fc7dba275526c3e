package chain

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"safe-authenticator/pkg/errno"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSafe   = common.HexToAddress("0xa9f0369f3a5383e5cb84b3c96a8e9ac4d8d1f1a7")
	testModule = common.HexToAddress("0x0000000000000000000000000000000000000009")
	ownerA     = common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94")
	ownerB     = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	tokenA     = common.HexToAddress("0xc778417e063141139fce010982780140aa0cd5ab")
	tokenB     = common.HexToAddress("0x0000000000000000000000000000000000000003")
)

// fakeTransport 按请求生成响应，默认倒序返回以验证按 ID 匹配
type fakeTransport struct {
	handle  func(req Request) *Response
	inOrder bool
	err     error
	batches [][]Request
}

func (f *fakeTransport) Send(ctx context.Context, reqs []Request) ([]Response, error) {
	f.batches = append(f.batches, reqs)
	if f.err != nil {
		return nil, f.err
	}
	var resps []Response
	for _, req := range reqs {
		if r := f.handle(req); r != nil {
			r.ID = req.ID
			resps = append(resps, *r)
		}
	}
	if !f.inOrder {
		for i, j := 0, len(resps)-1; i < j; i, j = i+1, j-1 {
			resps[i], resps[j] = resps[j], resps[i]
		}
	}
	return resps, nil
}

// selector 取 eth_call 请求 data 的前 4 字节
func selector(req Request) string {
	if req.Method != "eth_call" {
		return req.Method
	}
	msg := req.Params[0].(map[string]interface{})
	data := msg["data"].(hexutil.Bytes)
	return hex.EncodeToString(data[:4])
}

func word(v string) string {
	return strings.Repeat("0", 64-len(v)) + v
}

func rawHex(s string) json.RawMessage {
	b, _ := json.Marshal("0x" + s)
	return b
}

func packed(t *testing.T, contract abi.ABI, name string, values ...interface{}) json.RawMessage {
	t.Helper()
	data, err := contract.Methods[name].Outputs.Pack(values...)
	require.NoError(t, err)
	return rawHex(hex.EncodeToString(data))
}

func TestSelectors(t *testing.T) {
	tests := map[string]string{
		"getOwners":    "a0e67e2b",
		"getThreshold": "e75235b8",
		"nonce":        "affed0e0",
		"getModules":   "b2494df3",
	}
	for name, want := range tests {
		assert.Equal(t, want, hex.EncodeToString(SafeABI.Methods[name].ID), name)
	}
	assert.Equal(t, "06fdde03", hex.EncodeToString(ERC20ABI.Methods["name"].ID))
	assert.Equal(t, "95d89b41", hex.EncodeToString(ERC20ABI.Methods["symbol"].ID))
	assert.Equal(t, "313ce567", hex.EncodeToString(ERC20ABI.Methods["decimals"].ID))
}

func TestLoadSafeInfo(t *testing.T) {
	masterCopy := "34cfac646f301356faa8b21e94227e3583fe3f5f"
	ownersHand := word("20") + word("2") + word(strings.ToLower(ownerA.Hex()[2:])) + word("bb")

	ft := &fakeTransport{handle: func(req Request) *Response {
		switch selector(req) {
		case "eth_getStorageAt":
			return &Response{Result: rawHex(word(masterCopy))}
		case "a0e67e2b":
			return &Response{Result: rawHex(ownersHand)}
		case "e75235b8":
			return &Response{Result: rawHex(word("2"))}
		case "affed0e0":
			return &Response{Result: rawHex(word("7"))}
		}
		return nil
	}}

	info, err := NewClient(ft).LoadSafeInfo(context.Background(), testSafe)
	require.NoError(t, err)

	require.Len(t, ft.batches, 1, "四个读取应在一次往返内完成")
	assert.Len(t, ft.batches[0], 4)
	ids := map[int]bool{}
	for _, r := range ft.batches[0] {
		ids[r.ID] = true
	}
	assert.Len(t, ids, 4, "请求 ID 必须唯一")

	assert.Equal(t, testSafe, info.Address)
	assert.Equal(t, common.HexToAddress(masterCopy), info.MasterCopy)
	assert.Equal(t, []common.Address{ownerA, ownerB}, info.Owners)
	assert.Equal(t, big.NewInt(2), info.Threshold)
	assert.Equal(t, big.NewInt(7), info.CurrentNonce)
}

func TestStorageReadParams(t *testing.T) {
	ft := &fakeTransport{handle: func(req Request) *Response {
		return &Response{Result: rawHex(word("1"))}
	}}
	_, _ = NewClient(ft).LoadSafeInfo(context.Background(), testSafe)

	storage := ft.batches[0][0]
	assert.Equal(t, "eth_getStorageAt", storage.Method)
	assert.Equal(t, []interface{}{testSafe, "0x0", "latest"}, storage.Params)
}

func TestDecodeRoundTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("nonce", func(t *testing.T) {
		ft := &fakeTransport{handle: func(req Request) *Response {
			return &Response{Result: packed(t, SafeABI, "nonce", big.NewInt(123456))}
		}}
		nonce, err := NewClient(ft).LoadNonce(ctx, testSafe)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(123456), nonce)
	})

	t.Run("getModules", func(t *testing.T) {
		modules := []common.Address{testModule, tokenB}
		ft := &fakeTransport{handle: func(req Request) *Response {
			return &Response{Result: packed(t, SafeABI, "getModules", modules)}
		}}
		got, err := NewClient(ft).LoadModules(ctx, testSafe)
		require.NoError(t, err)
		assert.Equal(t, modules, got)
	})

	t.Run("getModules empty", func(t *testing.T) {
		ft := &fakeTransport{handle: func(req Request) *Response {
			return &Response{Result: rawHex(word("20") + word("0"))}
		}}
		got, err := NewClient(ft).LoadModules(ctx, testSafe)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("getTokenLimit", func(t *testing.T) {
		tuple := [5]*big.Int{big.NewInt(1000), big.NewInt(250), big.NewInt(1600000000), big.NewInt(86400), big.NewInt(4)}
		ft := &fakeTransport{handle: func(req Request) *Response {
			return &Response{Result: packed(t, LimitModuleABI, "getTokenLimit", tuple)}
		}}
		limit, err := NewClient(ft).LoadLimit(ctx, testModule, testSafe, tokenA)
		require.NoError(t, err)
		assert.Equal(t, tokenA, limit.Token)
		assert.Equal(t, big.NewInt(1000), limit.Amount)
		assert.Equal(t, big.NewInt(250), limit.Spent)
		assert.Equal(t, time.Unix(1600000000, 0).UTC(), limit.LastSpent)
		assert.Equal(t, 24*time.Hour, limit.ResetPeriod)
		assert.Equal(t, big.NewInt(4), limit.Nonce)
	})
}

func TestLoadLimitsSingleBatch(t *testing.T) {
	ft := &fakeTransport{handle: func(req Request) *Response {
		data := req.Params[0].(map[string]interface{})["data"].(hexutil.Bytes)
		// getTokenLimit(safe, token): token 是第二个参数
		token := common.BytesToAddress(data[4+32 : 4+64])
		amount := big.NewInt(100)
		if token == tokenB {
			amount = big.NewInt(200)
		}
		tuple := [5]*big.Int{amount, big.NewInt(0), big.NewInt(0), big.NewInt(0), big.NewInt(0)}
		return &Response{Result: packed(t, LimitModuleABI, "getTokenLimit", tuple)}
	}}

	limits, err := NewClient(ft).LoadLimits(context.Background(), testModule, testSafe, []common.Address{tokenA, tokenB})
	require.NoError(t, err)
	require.Len(t, ft.batches, 1)
	assert.Len(t, ft.batches[0], 2)

	require.Len(t, limits, 2)
	assert.Equal(t, tokenA, limits[0].Token)
	assert.Equal(t, big.NewInt(100), limits[0].Amount)
	assert.Equal(t, tokenB, limits[1].Token)
	assert.Equal(t, big.NewInt(200), limits[1].Amount)
	assert.True(t, limits[0].LastSpent.IsZero())

	to := ft.batches[0][0].Params[0].(map[string]interface{})["to"]
	assert.Equal(t, testModule, to, "额度读取应发往模块合约")
}

func TestLoadLimitTokens(t *testing.T) {
	ft := &fakeTransport{handle: func(req Request) *Response {
		return &Response{Result: packed(t, LimitModuleABI, "getTokens", []common.Address{tokenA})}
	}}
	tokens, err := NewClient(ft).LoadLimitTokens(context.Background(), testModule, testSafe)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{tokenA}, tokens)
	assert.Equal(t, "450efe21", selector(ft.batches[0][0]))
}

func TestLoadTokenInfo(t *testing.T) {
	ft := &fakeTransport{handle: func(req Request) *Response {
		switch selector(req) {
		case "06fdde03":
			return &Response{Result: packed(t, ERC20ABI, "name", "Wrapped Ether")}
		case "95d89b41":
			return &Response{Result: packed(t, ERC20ABI, "symbol", "WETH")}
		case "313ce567":
			return &Response{Result: packed(t, ERC20ABI, "decimals", uint8(18))}
		}
		return nil
	}}
	info, err := NewClient(ft).LoadTokenInfo(context.Background(), tokenA)
	require.NoError(t, err)
	assert.Equal(t, "Wrapped Ether", info.Name)
	assert.Equal(t, "WETH", info.Symbol)
	assert.Equal(t, uint8(18), info.Decimals)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		resp    *Response
		payload bool
	}{
		{"missing response", nil, false},
		{"null result", &Response{Result: json.RawMessage("null")}, false},
		{"rpc error", &Response{Error: &RPCError{Code: -32000, Message: "execution reverted"}}, false},
		{"empty call data", &Response{Result: rawHex("")}, true},
		{"not hex", &Response{Result: json.RawMessage(`"zz"`)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{handle: func(req Request) *Response { return tt.resp }}
			_, err := NewClient(ft).LoadNonce(context.Background(), testSafe)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errno.ErrChainRead))

			var readErr *ReadError
			require.True(t, errors.As(err, &readErr))
			assert.Equal(t, 1, readErr.ID)
			assert.Equal(t, "eth_call", readErr.Method)
			if tt.payload {
				assert.NotEmpty(t, readErr.Payload)
			}

			code, _ := errno.Decode(err)
			assert.Equal(t, errno.ErrChainRead.Code, code)
		})
	}
}

func TestShapeMismatch(t *testing.T) {
	// getOwners 需要动态数组，单个 word 的偏移量越界
	ft := &fakeTransport{handle: func(req Request) *Response {
		return &Response{Result: rawHex(word("ff"))}
	}}
	_, err := NewClient(ft).LoadModules(context.Background(), testSafe)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrChainRead))
}

func TestTransportFailure(t *testing.T) {
	ft := &fakeTransport{err: errors.New("connection refused")}
	_, err := NewClient(ft).LoadNonce(context.Background(), testSafe)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrChainRead))
}

func TestLimitFromTupleRange(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	_, err := limitFromTuple(tokenA, [5]*big.Int{big.NewInt(1), big.NewInt(0), huge, big.NewInt(0), big.NewInt(0)})
	assert.Error(t, err)
	_, err = limitFromTuple(tokenA, [5]*big.Int{big.NewInt(1), big.NewInt(0), big.NewInt(0), huge, big.NewInt(0)})
	assert.Error(t, err)
}
