package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const safeABIJSON = `[
	{"name":"getOwners","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
	{"name":"getThreshold","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"nonce","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"getModules","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]}
]`

const limitModuleABIJSON = `[
	{"name":"getTokens","type":"function","stateMutability":"view","inputs":[{"name":"safe","type":"address"}],"outputs":[{"name":"","type":"address[]"}]},
	{"name":"getTokenLimit","type":"function","stateMutability":"view","inputs":[{"name":"safe","type":"address"},{"name":"token","type":"address"}],"outputs":[{"name":"","type":"uint256[5]"}]}
]`

const erc20ABIJSON = `[
	{"name":"name","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"name":"symbol","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"name":"decimals","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

var (
	SafeABI        = mustParseABI(safeABIJSON)
	LimitModuleABI = mustParseABI(limitModuleABIJSON)
	ERC20ABI       = mustParseABI(erc20ABIJSON)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("invalid abi: %v", err))
	}
	return parsed
}

// 返回值形状校验，失败时说明期望的类型

func asAddressSlice(out []interface{}) ([]common.Address, error) {
	if len(out) != 1 {
		return nil, fmt.Errorf("expected 1 return value, got %d", len(out))
	}
	v, ok := out[0].([]common.Address)
	if !ok {
		return nil, fmt.Errorf("expected address[], got %T", out[0])
	}
	return v, nil
}

func asBigInt(out []interface{}) (*big.Int, error) {
	if len(out) != 1 {
		return nil, fmt.Errorf("expected 1 return value, got %d", len(out))
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("expected uint256, got %T", out[0])
	}
	return v, nil
}

func asUint256x5(out []interface{}) ([5]*big.Int, error) {
	if len(out) != 1 {
		return [5]*big.Int{}, fmt.Errorf("expected 1 return value, got %d", len(out))
	}
	v, ok := out[0].([5]*big.Int)
	if !ok {
		return [5]*big.Int{}, fmt.Errorf("expected uint256[5], got %T", out[0])
	}
	return v, nil
}

func asString(out []interface{}) (string, error) {
	if len(out) != 1 {
		return "", fmt.Errorf("expected 1 return value, got %d", len(out))
	}
	v, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", out[0])
	}
	return v, nil
}

func asUint8(out []interface{}) (uint8, error) {
	if len(out) != 1 {
		return 0, fmt.Errorf("expected 1 return value, got %d", len(out))
	}
	v, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("expected uint8, got %T", out[0])
	}
	return v, nil
}
