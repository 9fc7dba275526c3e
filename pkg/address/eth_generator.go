package address

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"safe-authenticator/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PubKeyToAddress 取 keccak256(未压缩公钥去掉 0x04 前缀) 的后 20 字节
func PubKeyToAddress(pub *ecdsa.PublicKey) common.Address {
	return crypto.PubkeyToAddress(*pub)
}

// Checksum 返回 EIP-55 大小写混合校验格式
func Checksum(addr common.Address) string {
	return addr.Hex()
}

// Parse 解析用户输入的地址
// 全小写或全大写视为未校验输入；混合大小写时必须满足 EIP-55 校验和
func Parse(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, errno.ErrValidation.WithMessage(fmt.Sprintf("invalid address %q", s))
	}

	addr := common.HexToAddress(s)
	body := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if body != strings.ToLower(body) && body != strings.ToUpper(body) {
		if addr.Hex()[2:] != body {
			return common.Address{}, errno.ErrValidation.WithMessage(fmt.Sprintf("bad address checksum %q", s))
		}
	}
	return addr, nil
}
