package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"time"

	"safe-authenticator/internal/model"
	"safe-authenticator/pkg/errno"
	"safe-authenticator/pkg/logger"
	"safe-authenticator/pkg/monitor"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Client 只读的链上状态查询，每次公开调用是一次批量往返
// 内部不重试
type Client struct {
	transport Transport
}

func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// pending 批量中的一条请求及其解码回调
type pending struct {
	req    Request
	decode func(raw json.RawMessage) error
}

type batch struct {
	calls []pending
}

func (b *batch) add(method string, params []interface{}, decode func(json.RawMessage) error) {
	b.calls = append(b.calls, pending{
		req:    Request{ID: len(b.calls) + 1, Method: method, Params: params},
		decode: decode,
	})
}

// call 追加一条 eth_call，返回值按 method.Outputs 解码后交给 out
func (b *batch) call(contract abi.ABI, to common.Address, name string, args []interface{}, out func([]interface{}) error) error {
	input, err := contract.Pack(name, args...)
	if err != nil {
		return errno.ErrChainRead.Wrap(fmt.Errorf("pack %s: %w", name, err))
	}
	method := contract.Methods[name]

	msg := map[string]interface{}{
		"to":   to,
		"data": hexutil.Bytes(input),
	}
	b.add("eth_call", []interface{}{msg, "latest"}, func(raw json.RawMessage) error {
		var data hexutil.Bytes
		if err := json.Unmarshal(raw, &data); err != nil {
			return err
		}
		values, err := method.Outputs.Unpack(data)
		if err != nil {
			return err
		}
		return out(values)
	})
	return nil
}

// storageAt 追加一条 eth_getStorageAt 读取原始存储槽
func (b *batch) storageAt(addr common.Address, slot string, out func(common.Hash) error) {
	b.add("eth_getStorageAt", []interface{}{addr, slot, "latest"}, func(raw json.RawMessage) error {
		var data hexutil.Bytes
		if err := json.Unmarshal(raw, &data); err != nil {
			return err
		}
		if len(data) > common.HashLength {
			return fmt.Errorf("storage word has %d bytes", len(data))
		}
		return out(common.BytesToHash(data))
	})
}

// exec 一次往返发送整批请求，响应按 ID 匹配后逐条解码
func (c *Client) exec(ctx context.Context, b *batch) error {
	reqs := make([]Request, len(b.calls))
	for i, p := range b.calls {
		reqs[i] = p.req
	}

	start := time.Now()
	resps, err := c.transport.Send(ctx, reqs)
	monitor.ChainBatchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return errno.ErrChainRead.Wrap(err)
	}
	logger.Debug("chain batch", zap.Int("requests", len(reqs)), zap.Int("responses", len(resps)))

	byID := make(map[int]Response, len(resps))
	for _, r := range resps {
		byID[r.ID] = r
	}

	for _, p := range b.calls {
		resp, ok := byID[p.req.ID]
		if !ok {
			return &ReadError{ID: p.req.ID, Method: p.req.Method, Err: errMissingResponse}
		}
		if resp.Error != nil {
			return &ReadError{ID: p.req.ID, Method: p.req.Method, Payload: string(resp.Result), Err: resp.Error}
		}
		if len(resp.Result) == 0 || string(resp.Result) == "null" {
			return &ReadError{ID: p.req.ID, Method: p.req.Method, Err: errEmptyResult}
		}
		if err := p.decode(resp.Result); err != nil {
			return &ReadError{ID: p.req.ID, Method: p.req.Method, Payload: string(resp.Result), Err: err}
		}
	}
	return nil
}

// LoadSafeInfo 一批 4 个读取: 存储槽 0 (masterCopy), getOwners, getThreshold, nonce
func (c *Client) LoadSafeInfo(ctx context.Context, safe common.Address) (*model.SafeInfo, error) {
	info := &model.SafeInfo{Address: safe}

	b := &batch{}
	b.storageAt(safe, "0x0", func(word common.Hash) error {
		info.MasterCopy = common.BytesToAddress(word.Bytes())
		return nil
	})
	if err := b.call(SafeABI, safe, "getOwners", nil, func(out []interface{}) (err error) {
		info.Owners, err = asAddressSlice(out)
		return err
	}); err != nil {
		return nil, err
	}
	if err := b.call(SafeABI, safe, "getThreshold", nil, func(out []interface{}) (err error) {
		info.Threshold, err = asBigInt(out)
		return err
	}); err != nil {
		return nil, err
	}
	if err := b.call(SafeABI, safe, "nonce", nil, func(out []interface{}) (err error) {
		info.CurrentNonce, err = asBigInt(out)
		return err
	}); err != nil {
		return nil, err
	}

	if err := c.exec(ctx, b); err != nil {
		return nil, err
	}
	return info, nil
}

// LoadNonce 读取当前 nonce
func (c *Client) LoadNonce(ctx context.Context, safe common.Address) (*big.Int, error) {
	var nonce *big.Int
	b := &batch{}
	if err := b.call(SafeABI, safe, "nonce", nil, func(out []interface{}) (err error) {
		nonce, err = asBigInt(out)
		return err
	}); err != nil {
		return nil, err
	}
	if err := c.exec(ctx, b); err != nil {
		return nil, err
	}
	return nonce, nil
}

// LoadModules 读取已启用的模块列表
func (c *Client) LoadModules(ctx context.Context, safe common.Address) ([]common.Address, error) {
	var modules []common.Address
	b := &batch{}
	if err := b.call(SafeABI, safe, "getModules", nil, func(out []interface{}) (err error) {
		modules, err = asAddressSlice(out)
		return err
	}); err != nil {
		return nil, err
	}
	if err := c.exec(ctx, b); err != nil {
		return nil, err
	}
	return modules, nil
}

// LoadLimitTokens 读取额度模块中为 safe 配置了额度的 token
func (c *Client) LoadLimitTokens(ctx context.Context, module, safe common.Address) ([]common.Address, error) {
	var tokens []common.Address
	b := &batch{}
	if err := b.call(LimitModuleABI, module, "getTokens", []interface{}{safe}, func(out []interface{}) (err error) {
		tokens, err = asAddressSlice(out)
		return err
	}); err != nil {
		return nil, err
	}
	if err := c.exec(ctx, b); err != nil {
		return nil, err
	}
	return tokens, nil
}

// LoadLimit 读取单个 token 的额度
func (c *Client) LoadLimit(ctx context.Context, module, safe, token common.Address) (*model.Limit, error) {
	limits, err := c.LoadLimits(ctx, module, safe, []common.Address{token})
	if err != nil {
		return nil, err
	}
	return &limits[0], nil
}

// LoadLimits 一批读取多个 token 的额度，结果顺序与 tokens 一致
func (c *Client) LoadLimits(ctx context.Context, module, safe common.Address, tokens []common.Address) ([]model.Limit, error) {
	if len(tokens) == 0 {
		return []model.Limit{}, nil
	}

	limits := make([]model.Limit, len(tokens))
	b := &batch{}
	for i, token := range tokens {
		if err := b.call(LimitModuleABI, module, "getTokenLimit", []interface{}{safe, token}, func(out []interface{}) error {
			tuple, err := asUint256x5(out)
			if err != nil {
				return err
			}
			limit, err := limitFromTuple(token, tuple)
			if err != nil {
				return err
			}
			limits[i] = limit
			return nil
		}); err != nil {
			return nil, err
		}
	}

	if err := c.exec(ctx, b); err != nil {
		return nil, err
	}
	return limits, nil
}

// limitFromTuple 解码 (amount, spent, lastSpent, resetPeriod, nonce)
// lastSpent 为 Unix 秒，resetPeriod 为秒
func limitFromTuple(token common.Address, t [5]*big.Int) (model.Limit, error) {
	for i, v := range t {
		if v == nil {
			return model.Limit{}, fmt.Errorf("limit field %d missing", i)
		}
	}
	if !t[2].IsInt64() {
		return model.Limit{}, fmt.Errorf("lastSpent out of range: %s", t[2])
	}
	if !t[3].IsInt64() || t[3].Int64() > math.MaxInt64/int64(time.Second) {
		return model.Limit{}, fmt.Errorf("resetPeriod out of range: %s", t[3])
	}

	var lastSpent time.Time
	if t[2].Sign() > 0 {
		lastSpent = time.Unix(t[2].Int64(), 0).UTC()
	}
	return model.Limit{
		Token:       token,
		Amount:      t[0],
		Spent:       t[1],
		LastSpent:   lastSpent,
		ResetPeriod: time.Duration(t[3].Int64()) * time.Second,
		Nonce:       t[4],
	}, nil
}

// LoadTokenInfo 一批读取 ERC-20 name / symbol / decimals
func (c *Client) LoadTokenInfo(ctx context.Context, token common.Address) (*model.TokenInfo, error) {
	info := &model.TokenInfo{Address: token}
	b := &batch{}
	if err := b.call(ERC20ABI, token, "name", nil, func(out []interface{}) (err error) {
		info.Name, err = asString(out)
		return err
	}); err != nil {
		return nil, err
	}
	if err := b.call(ERC20ABI, token, "symbol", nil, func(out []interface{}) (err error) {
		info.Symbol, err = asString(out)
		return err
	}); err != nil {
		return nil, err
	}
	if err := b.call(ERC20ABI, token, "decimals", nil, func(out []interface{}) (err error) {
		info.Decimals, err = asUint8(out)
		return err
	}); err != nil {
		return nil, err
	}

	if err := c.exec(ctx, b); err != nil {
		return nil, err
	}
	return info, nil
}
