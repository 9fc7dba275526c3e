package safe

import (
	"context"
	"fmt"

	"safe-authenticator/internal/model"
	"safe-authenticator/internal/service"
	"safe-authenticator/pkg/errno"
	"safe-authenticator/pkg/logger"
	"safe-authenticator/pkg/monitor"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// RecoverSigner 从摘要与签名恢复签名者地址，v 必须为 27/28
func RecoverSigner(digest common.Hash, sig model.Signature) (common.Address, error) {
	if sig.V != 27 && sig.V != 28 {
		return common.Address{}, errno.ErrCrypto.WithMessage(fmt.Sprintf("invalid recovery id %d", sig.V))
	}
	raw := sig.Bytes()
	raw[64] -= 27
	pub, err := crypto.SigToPub(digest[:], raw)
	if err != nil {
		return common.Address{}, errno.ErrCrypto.Wrap(err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// SignDigest 用设备密钥签名，并校验签名可以恢复出同一地址
func SignDigest(ctx context.Context, signer service.Signer, digest common.Hash) (model.Signature, common.Address, error) {
	sig, addr, err := signer.Sign(ctx, service.DeviceKeyIndex, digest)
	if err != nil {
		return model.Signature{}, common.Address{}, err
	}
	recovered, err := RecoverSigner(digest, sig)
	if err != nil {
		return model.Signature{}, common.Address{}, err
	}
	if recovered != addr {
		return model.Signature{}, common.Address{}, errno.ErrCrypto.WithMessage(
			fmt.Sprintf("signature recovers %s, expected %s", recovered.Hex(), addr.Hex()))
	}
	return sig, addr, nil
}

// Engine 计算 Safe 交易哈希、签名并提交确认
type Engine struct {
	signer    service.Signer
	submitter service.ConfirmationSubmitter
}

func NewEngine(signer service.Signer, submitter service.ConfirmationSubmitter) *Engine {
	return &Engine{signer: signer, submitter: submitter}
}

// Confirm 对 (safe, tx, exec) 计算哈希并提交设备签名的确认
// 后端拒绝时返回的 ErrSubmission 原样向上传递，不重试
func (e *Engine) Confirm(ctx context.Context, safe common.Address, tx model.SafeTx, exec model.SafeTxExecInfo) (*model.SignedConfirmation, error) {
	hash, err := TransactionHash(safe, tx, exec)
	if err != nil {
		return nil, err
	}
	c, err := e.confirmHash(ctx, safe, tx, exec, hash)
	monitor.ConfirmationsTotal.WithLabelValues(monitor.Result(err)).Inc()
	return c, err
}

// ConfirmServiceTx 先校验后端提供的 safeTxHash 与本地计算一致，再确认
func (e *Engine) ConfirmServiceTx(ctx context.Context, safe common.Address, stx model.ServiceSafeTx) (*model.SignedConfirmation, error) {
	hash, err := TransactionHash(safe, stx.Tx, stx.ExecInfo)
	if err != nil {
		return nil, err
	}
	if hash != stx.Hash {
		logger.Warn("refusing to confirm transaction with mismatching hash",
			zap.String("safe", safe.Hex()),
			zap.String("reported", stx.Hash.Hex()),
			zap.String("computed", hash.Hex()))
		monitor.ConfirmationsTotal.WithLabelValues("hash_mismatch").Inc()
		return nil, errno.ErrCrypto.WithMessage(fmt.Sprintf("hash mismatch: reported %s, computed %s", stx.Hash.Hex(), hash.Hex()))
	}
	c, err := e.confirmHash(ctx, safe, stx.Tx, stx.ExecInfo, hash)
	monitor.ConfirmationsTotal.WithLabelValues(monitor.Result(err)).Inc()
	return c, err
}

func (e *Engine) confirmHash(ctx context.Context, safe common.Address, tx model.SafeTx, exec model.SafeTxExecInfo, hash common.Hash) (*model.SignedConfirmation, error) {
	sig, sender, err := SignDigest(ctx, e.signer, hash)
	if err != nil {
		return nil, err
	}

	c := &model.SignedConfirmation{
		Safe:      safe,
		Tx:        tx,
		ExecInfo:  exec,
		Hash:      hash,
		Sender:    sender,
		Signature: sig,
	}
	if err := e.submitter.SubmitConfirmation(ctx, c); err != nil {
		return nil, err
	}

	logger.Info("confirmation submitted",
		zap.String("safe", safe.Hex()),
		zap.String("safeTxHash", hash.Hex()),
		zap.String("sender", sender.Hex()))
	return c, nil
}
