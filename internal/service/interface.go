package service

import (
	"context"
	"math/big"

	"safe-authenticator/internal/model"

	"github.com/ethereum/go-ethereum/common"
)

// DeviceKeyIndex 设备身份密钥的派生索引，签名与展示的设备地址共用
const DeviceKeyIndex uint32 = 0

// Signer 由 vault 实现，私钥不离开其边界
type Signer interface {
	// DeviceAddress 设备身份地址 (index 0)
	DeviceAddress(ctx context.Context) (common.Address, error)
	// Sign 对 32 字节摘要签名，返回签名与签名者地址
	Sign(ctx context.Context, index uint32, digest common.Hash) (model.Signature, common.Address, error)
}

// NonceReader 读取 Safe 当前链上 nonce
type NonceReader interface {
	LoadNonce(ctx context.Context, safe common.Address) (*big.Int, error)
}

// TransactionLister 后端交易列表，保持后端顺序
type TransactionLister interface {
	ListTransactions(ctx context.Context, safe common.Address) ([]model.ServiceSafeTx, error)
}

// ConfirmationSubmitter 提交已签名的确认，后端拒绝时返回 ErrSubmission
type ConfirmationSubmitter interface {
	SubmitConfirmation(ctx context.Context, c *model.SignedConfirmation) error
}

// LimitTransferExecutor 提交额度转账
type LimitTransferExecutor interface {
	ExecuteLimitTransfer(ctx context.Context, t *model.LimitTransfer) error
}

// LimitReader 额度模块相关的链上读取
type LimitReader interface {
	LoadModules(ctx context.Context, safe common.Address) ([]common.Address, error)
	LoadLimitTokens(ctx context.Context, module, safe common.Address) ([]common.Address, error)
	LoadLimits(ctx context.Context, module, safe common.Address, tokens []common.Address) ([]model.Limit, error)
}

// TokenInfoReader ERC-20 元数据读取
type TokenInfoReader interface {
	LoadTokenInfo(ctx context.Context, token common.Address) (*model.TokenInfo, error)
}
