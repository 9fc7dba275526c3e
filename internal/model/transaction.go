package model

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Operation Safe 执行交易的方式
type Operation uint8

const (
	Call         Operation = 0
	DelegateCall Operation = 1
)

func (o Operation) String() string {
	switch o {
	case Call:
		return "CALL"
	case DelegateCall:
		return "DELEGATE"
	default:
		return fmt.Sprintf("Operation(%d)", uint8(o))
	}
}

// Valid 只接受 CALL / DELEGATE
func (o Operation) Valid() bool {
	return o == Call || o == DelegateCall
}

// SafeTx Safe 合约将要执行的交易负载
type SafeTx struct {
	To        common.Address
	Value     *big.Int
	Data      []byte
	Operation Operation
}

// SafeTxExecInfo 执行参数
type SafeTxExecInfo struct {
	BaseGas        *big.Int
	TxGas          *big.Int
	GasPrice       *big.Int
	GasToken       common.Address
	RefundReceiver common.Address
	Nonce          *big.Int
}

// Fees = (baseGas + txGas) * gasPrice
func (e SafeTxExecInfo) Fees() *big.Int {
	sum := new(big.Int).Add(orZero(e.BaseGas), orZero(e.TxGas))
	return sum.Mul(sum, orZero(e.GasPrice))
}

// Confirmation 某个 owner 对交易的确认，签名可能缺失
type Confirmation struct {
	Owner     common.Address
	Signature *string
}

// ServiceSafeTx 后端返回的一笔交易
type ServiceSafeTx struct {
	Hash          common.Hash
	Tx            SafeTx
	ExecInfo      SafeTxExecInfo
	Confirmations []Confirmation
	Executed      bool
}

// ConfirmedBy 判断 owner 是否已确认 (按地址字节比较)
func (s ServiceSafeTx) ConfirmedBy(owner common.Address) bool {
	for _, c := range s.Confirmations {
		if c.Owner == owner {
			return true
		}
	}
	return false
}

// TransactionMeta 附带本地计算出的生命周期状态
type TransactionMeta struct {
	ServiceSafeTx
	State State
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
