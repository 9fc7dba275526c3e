package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SignedConfirmation 提交给后端的确认
type SignedConfirmation struct {
	Safe      common.Address
	Tx        SafeTx
	ExecInfo  SafeTxExecInfo
	Hash      common.Hash
	Sender    common.Address
	Signature Signature
}

// LimitTransfer 提交给额度执行后端的转账，作用域为 (Safe, Token)
type LimitTransfer struct {
	Safe      common.Address
	Token     common.Address
	To        common.Address
	Amount    *big.Int
	Signature Signature
}
