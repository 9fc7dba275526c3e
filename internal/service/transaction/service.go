package transaction

import (
	"context"
	"fmt"
	"math/big"

	"safe-authenticator/internal/model"
	"safe-authenticator/internal/service"
	"safe-authenticator/pkg/logger"
	"safe-authenticator/pkg/monitor"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Classify 纯函数，检查顺序不可调换:
// executed > 低于当前 nonce > 本设备已确认 > pending
func Classify(stx model.ServiceSafeTx, currentNonce *big.Int, device common.Address) model.State {
	switch {
	case stx.Executed:
		return model.StateExecuted
	case currentNonce != nil && nonceOf(stx).Cmp(currentNonce) < 0:
		return model.StateCanceled
	case stx.ConfirmedBy(device):
		return model.StateConfirmed
	default:
		return model.StatePending
	}
}

func nonceOf(stx model.ServiceSafeTx) *big.Int {
	if stx.ExecInfo.Nonce == nil {
		return new(big.Int)
	}
	return stx.ExecInfo.Nonce
}

type Service struct {
	nonces service.NonceReader
	lister service.TransactionLister
	signer service.Signer
}

func NewService(nonces service.NonceReader, lister service.TransactionLister, signer service.Signer) *Service {
	return &Service{nonces: nonces, lister: lister, signer: signer}
}

// LoadTransactions 每次调用都重新读取 nonce 与交易列表，不缓存分类结果
func (s *Service) LoadTransactions(ctx context.Context, safe common.Address) ([]model.TransactionMeta, error) {
	device, err := s.signer.DeviceAddress(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := s.nonces.LoadNonce(ctx, safe)
	if err != nil {
		return nil, fmt.Errorf("load nonce: %w", err)
	}

	txs, err := s.lister.ListTransactions(ctx, safe)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]model.TransactionMeta, len(txs))
	for i, stx := range txs {
		state := Classify(stx, nonce, device)
		monitor.TransactionsClassifiedTotal.WithLabelValues(state.String()).Inc()
		out[i] = model.TransactionMeta{ServiceSafeTx: stx, State: state}
	}

	logger.Debug("transactions classified",
		zap.String("safe", safe.Hex()),
		zap.String("nonce", nonce.String()),
		zap.Int("count", len(out)),
	)
	return out, nil
}
