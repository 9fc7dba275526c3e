package model

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// SafeInfo 链上状态快照，只读，按需重新获取
type SafeInfo struct {
	Address      common.Address   `json:"address"`
	MasterCopy   common.Address   `json:"masterCopy"`
	Owners       []common.Address `json:"owners"`
	Threshold    *big.Int         `json:"threshold"`
	CurrentNonce *big.Int         `json:"nonce"`
}

// IsOwner 判断地址是否在 owners 中
func (s SafeInfo) IsOwner(addr common.Address) bool {
	for _, o := range s.Owners {
		if o == addr {
			return true
		}
	}
	return false
}

// Limit 转账额度模块中某个 token 的快照
// spent 的周期重置由合约完成，本地不模拟
type Limit struct {
	Token       common.Address `json:"token"`
	Amount      *big.Int       `json:"amount"`
	Spent       *big.Int       `json:"spent"`
	LastSpent   time.Time      `json:"lastSpent"`
	ResetPeriod time.Duration  `json:"resetPeriod"`
	Nonce       *big.Int       `json:"nonce"`
}

// Available 当前可用额度 amount - spent，不小于 0
func (l Limit) Available() *big.Int {
	left := new(big.Int).Sub(orZero(l.Amount), orZero(l.Spent))
	if left.Sign() < 0 {
		return new(big.Int)
	}
	return left
}

// TokenInfo ERC-20 元数据，零地址表示链原生币
type TokenInfo struct {
	Address  common.Address `json:"address"`
	Name     string         `json:"name"`
	Symbol   string         `json:"symbol"`
	Decimals uint8          `json:"decimals"`
}

// NativeToken 链原生币的 TokenInfo
var NativeToken = TokenInfo{Name: "Ether", Symbol: "ETH", Decimals: 18}
