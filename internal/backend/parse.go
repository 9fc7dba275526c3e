package backend

import (
	"fmt"
	"math/big"
	"strings"

	"safe-authenticator/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// 后端字段统一的缺省策略: 缺失数值为 0，缺失地址为零地址，缺失 data 为空

// ParseUint 解析十进制字符串，nil 或空串为 0
func ParseUint(raw *string) (*big.Int, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(strings.TrimSpace(*raw), 10)
	if !ok || v.Sign() < 0 {
		return nil, errno.ErrBackend.WithMessage(fmt.Sprintf("invalid unsigned integer %q", *raw))
	}
	return v, nil
}

// ParseAddress 解析十六进制地址，nil 或空串为零地址
func ParseAddress(raw *string) (common.Address, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return common.Address{}, nil
	}
	s := strings.TrimSpace(*raw)
	if !common.IsHexAddress(s) {
		return common.Address{}, errno.ErrBackend.WithMessage(fmt.Sprintf("invalid address %q", s))
	}
	return common.HexToAddress(s), nil
}

// ParseData 解析 0x 前缀的十六进制数据，nil / "" / "0x" 为空
func ParseData(raw *string) ([]byte, error) {
	if raw == nil || *raw == "" || *raw == "0x" {
		return []byte{}, nil
	}
	b, err := hexutil.Decode(*raw)
	if err != nil {
		return nil, errno.ErrBackend.WithMessage(fmt.Sprintf("invalid data %q: %v", *raw, err))
	}
	return b, nil
}

// ParseHash 解析 32 字节哈希，必填
func ParseHash(raw string) (common.Hash, error) {
	b, err := hexutil.Decode(raw)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, errno.ErrBackend.WithMessage(fmt.Sprintf("invalid hash %q", raw))
	}
	return common.BytesToHash(b), nil
}
