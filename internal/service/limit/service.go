package limit

import (
	"context"
	"fmt"
	"math/big"

	"safe-authenticator/internal/model"
	"safe-authenticator/internal/safe"
	"safe-authenticator/internal/service"
	"safe-authenticator/pkg/errno"
	"safe-authenticator/pkg/logger"
	"safe-authenticator/pkg/monitor"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Config 额度模块地址与签名域使用的链 ID
type Config struct {
	Module  common.Address
	ChainID *big.Int
}

type Service struct {
	chain    service.LimitReader
	signer   service.Signer
	executor service.LimitTransferExecutor
	cfg      Config
}

func NewService(chain service.LimitReader, signer service.Signer, executor service.LimitTransferExecutor, cfg Config) *Service {
	if cfg.ChainID == nil {
		cfg.ChainID = big.NewInt(1)
	}
	return &Service{chain: chain, signer: signer, executor: executor, cfg: cfg}
}

// LoadLimits 模块未在 Safe 上启用时返回空列表
func (s *Service) LoadLimits(ctx context.Context, safeAddr common.Address) ([]model.Limit, error) {
	if s.cfg.Module == (common.Address{}) {
		return []model.Limit{}, nil
	}

	modules, err := s.chain.LoadModules(ctx, safeAddr)
	if err != nil {
		return nil, err
	}
	if !contains(modules, s.cfg.Module) {
		logger.Debug("transfer limit module not enabled",
			zap.String("safe", safeAddr.Hex()),
			zap.String("module", s.cfg.Module.Hex()))
		return []model.Limit{}, nil
	}

	tokens, err := s.chain.LoadLimitTokens(ctx, s.cfg.Module, safeAddr)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return []model.Limit{}, nil
	}
	return s.chain.LoadLimits(ctx, s.cfg.Module, safeAddr, tokens)
}

// PerformTransfer 签名并提交额度转账
// amount 是否超出可用额度由链上模块判断，这里不重复校验
func (s *Service) PerformTransfer(ctx context.Context, safeAddr common.Address, limit model.Limit, to common.Address, amount *big.Int) error {
	err := s.performTransfer(ctx, safeAddr, limit, to, amount)
	monitor.LimitTransfersTotal.WithLabelValues(monitor.Result(err)).Inc()
	return err
}

func (s *Service) performTransfer(ctx context.Context, safeAddr common.Address, limit model.Limit, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errno.ErrValidation.WithMessage("amount must be positive")
	}

	nonce := limit.Nonce
	if nonce == nil {
		nonce = new(big.Int)
	}
	hash, err := safe.TransferLimitHash(s.cfg.ChainID, safeAddr, limit.Token, to, amount, common.Address{}, new(big.Int), nonce)
	if err != nil {
		return err
	}

	sig, _, err := safe.SignDigest(ctx, s.signer, hash)
	if err != nil {
		return err
	}

	transfer := &model.LimitTransfer{
		Safe:      safeAddr,
		Token:     limit.Token,
		To:        to,
		Amount:    amount,
		Signature: sig,
	}
	if err := s.executor.ExecuteLimitTransfer(ctx, transfer); err != nil {
		return fmt.Errorf("execute limit transfer: %w", err)
	}

	logger.Info("limit transfer submitted",
		zap.String("safe", safeAddr.Hex()),
		zap.String("token", limit.Token.Hex()),
		zap.String("to", to.Hex()),
		zap.String("amount", amount.String()))
	return nil
}

func contains(list []common.Address, addr common.Address) bool {
	for _, a := range list {
		if a == addr {
			return true
		}
	}
	return false
}
