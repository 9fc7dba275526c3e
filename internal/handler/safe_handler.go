package handler

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"safe-authenticator/internal/handler/request"
	"safe-authenticator/internal/handler/response"
	"safe-authenticator/internal/model"
	"safe-authenticator/pkg/errno"
	"safe-authenticator/pkg/utils/lock"
	"safe-authenticator/pkg/utils/units"
	"safe-authenticator/pkg/validator"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// inFlightTTL 提交锁的过期时间，防止进程异常退出后锁永不释放
const inFlightTTL = time.Minute

type DeviceReader interface {
	DeviceAddress(ctx context.Context) (common.Address, error)
}

type SafeReader interface {
	LoadSafeInfo(ctx context.Context, safe common.Address) (*model.SafeInfo, error)
}

type TransactionLoader interface {
	LoadTransactions(ctx context.Context, safe common.Address) ([]model.TransactionMeta, error)
}

type Confirmer interface {
	ConfirmServiceTx(ctx context.Context, safe common.Address, stx model.ServiceSafeTx) (*model.SignedConfirmation, error)
}

type LimitEngine interface {
	LoadLimits(ctx context.Context, safe common.Address) ([]model.Limit, error)
	PerformTransfer(ctx context.Context, safe common.Address, limit model.Limit, to common.Address, amount *big.Int) error
}

type TokenLookup interface {
	TokenInfo(ctx context.Context, token common.Address) (*model.TokenInfo, error)
}

// EventSink 提交成功后的事件通知
type EventSink interface {
	ConfirmationSubmitted(ctx context.Context, c *model.SignedConfirmation)
	LimitTransferSubmitted(ctx context.Context, t *model.LimitTransfer)
}

type Deps struct {
	Device       DeviceReader
	Safes        SafeReader
	Transactions TransactionLoader
	Confirmer    Confirmer
	Limits       LimitEngine
	Tokens       TokenLookup
	Lock         lock.DistributedLock
	Events       EventSink
}

type SafeHandler struct {
	deps Deps
}

func NewSafeHandler(deps Deps) *SafeHandler {
	if deps.Lock == nil {
		deps.Lock = lock.NewLocalLock()
	}
	return &SafeHandler{deps: deps}
}

// Device 设备身份地址
// @Summary Device address
// @Tags safe
// @Produce json
// @Success 200 {object} response.Response
// @Router /device [get]
func (h *SafeHandler) Device(c *gin.Context) {
	addr, err := h.deps.Device.DeviceAddress(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"address": addr.Hex()})
}

// SafeInfo 链上 Safe 状态
// @Summary Safe info
// @Tags safe
// @Produce json
// @Param address path string true "Safe address"
// @Success 200 {object} response.Response{data=SafeView}
// @Router /safes/{address} [get]
func (h *SafeHandler) SafeInfo(c *gin.Context) {
	var uri request.SafeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, validator.ToErrno(err))
		return
	}
	ctx := c.Request.Context()
	safe := common.HexToAddress(uri.Address)

	info, err := h.deps.Safes.LoadSafeInfo(ctx, safe)
	if err != nil {
		response.Error(c, err)
		return
	}
	device, err := h.deps.Device.DeviceAddress(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	view := SafeView{
		Address:       info.Address.Hex(),
		MasterCopy:    info.MasterCopy.Hex(),
		Owners:        make([]string, 0, len(info.Owners)),
		Threshold:     str(info.Threshold),
		Nonce:         str(info.CurrentNonce),
		DeviceIsOwner: info.IsOwner(device),
	}
	for _, o := range info.Owners {
		view.Owners = append(view.Owners, o.Hex())
	}
	response.Success(c, view)
}

// Transactions 分类后的交易列表
// @Summary Classified transactions
// @Tags safe
// @Produce json
// @Param address path string true "Safe address"
// @Success 200 {object} response.Response{data=[]TransactionView}
// @Router /safes/{address}/transactions [get]
func (h *SafeHandler) Transactions(c *gin.Context) {
	var uri request.SafeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, validator.ToErrno(err))
		return
	}

	metas, err := h.deps.Transactions.LoadTransactions(c.Request.Context(), common.HexToAddress(uri.Address))
	if err != nil {
		response.Error(c, err)
		return
	}
	views := make([]TransactionView, 0, len(metas))
	for _, m := range metas {
		views = append(views, newTransactionView(m))
	}
	response.Success(c, views)
}

// Confirm 确认列表中指定哈希的交易，哈希须与本地计算一致
// @Summary Confirm transaction
// @Tags safe
// @Produce json
// @Param address path string true "Safe address"
// @Param hash path string true "safeTxHash"
// @Success 200 {object} response.Response{data=SubmittedView}
// @Router /safes/{address}/transactions/{hash}/confirm [post]
func (h *SafeHandler) Confirm(c *gin.Context) {
	var uri request.ConfirmURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, validator.ToErrno(err))
		return
	}
	ctx := c.Request.Context()
	safe := common.HexToAddress(uri.Address)
	hash := common.HexToHash(uri.Hash)

	release, err := h.acquire(ctx, "confirm:"+safe.Hex())
	if err != nil {
		response.Error(c, err)
		return
	}
	defer release()

	metas, err := h.deps.Transactions.LoadTransactions(ctx, safe)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta, ok := findTransaction(metas, hash)
	if !ok {
		response.Error(c, errno.ErrValidation.WithMessage("unknown transaction "+hash.Hex()))
		return
	}
	if meta.State == model.StateExecuted || meta.State == model.StateCanceled {
		response.Error(c, errno.ErrValidation.WithMessage(fmt.Sprintf("transaction is %s", meta.State)))
		return
	}

	conf, err := h.deps.Confirmer.ConfirmServiceTx(ctx, safe, meta.ServiceSafeTx)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.deps.Events != nil {
		h.deps.Events.ConfirmationSubmitted(ctx, conf)
	}
	response.Success(c, SubmittedView{
		SafeTxHash: conf.Hash.Hex(),
		Sender:     conf.Sender.Hex(),
		Signature:  conf.Signature.Prefixed(),
	})
}

// Limits 额度列表
// @Summary Transfer limits
// @Tags limits
// @Produce json
// @Param address path string true "Safe address"
// @Success 200 {object} response.Response{data=[]LimitView}
// @Router /safes/{address}/limits [get]
func (h *SafeHandler) Limits(c *gin.Context) {
	var uri request.SafeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, validator.ToErrno(err))
		return
	}
	ctx := c.Request.Context()

	limits, err := h.deps.Limits.LoadLimits(ctx, common.HexToAddress(uri.Address))
	if err != nil {
		response.Error(c, err)
		return
	}
	views := make([]LimitView, 0, len(limits))
	for _, l := range limits {
		info, err := h.deps.Tokens.TokenInfo(ctx, l.Token)
		if err != nil {
			response.Error(c, err)
			return
		}
		views = append(views, newLimitView(l, *info))
	}
	response.Success(c, views)
}

// Transfer 在额度内转账，amount 为 token 单位
// @Summary Transfer within limit
// @Tags limits
// @Accept json
// @Produce json
// @Param address path string true "Safe address"
// @Param token path string true "Token address (zero for ETH)"
// @Param request body request.TransferRequest true "Transfer"
// @Success 200 {object} response.Response
// @Router /safes/{address}/limits/{token}/transfers [post]
func (h *SafeHandler) Transfer(c *gin.Context) {
	var uri request.TransferURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, validator.ToErrno(err))
		return
	}
	var req request.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.ToErrno(err))
		return
	}
	ctx := c.Request.Context()
	safe := common.HexToAddress(uri.Address)
	token := common.HexToAddress(uri.Token)
	to := common.HexToAddress(req.To)

	release, err := h.acquire(ctx, "transfer:"+safe.Hex())
	if err != nil {
		response.Error(c, err)
		return
	}
	defer release()

	limits, err := h.deps.Limits.LoadLimits(ctx, safe)
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, ok := findLimit(limits, token)
	if !ok {
		response.Error(c, errno.ErrValidation.WithMessage("no transfer limit for token "+token.Hex()))
		return
	}

	info, err := h.deps.Tokens.TokenInfo(ctx, token)
	if err != nil {
		response.Error(c, err)
		return
	}
	amount, err := units.Parse(req.Amount, info.Decimals)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deps.Limits.PerformTransfer(ctx, safe, limit, to, amount); err != nil {
		response.Error(c, err)
		return
	}
	if h.deps.Events != nil {
		h.deps.Events.LimitTransferSubmitted(ctx, &model.LimitTransfer{Safe: safe, Token: token, To: to, Amount: amount})
	}
	response.Success(c, gin.H{
		"token":  token.Hex(),
		"to":     to.Hex(),
		"amount": amount.String(),
	})
}

// acquire 同一 Safe 同一类提交同时只允许一个
func (h *SafeHandler) acquire(ctx context.Context, key string) (func(), error) {
	ok, err := h.deps.Lock.Acquire(ctx, key, inFlightTTL)
	if err != nil {
		return nil, errno.InternalServerError.Wrap(err)
	}
	if !ok {
		return nil, errno.ErrValidation.WithMessage("already in flight")
	}
	return func() { _ = h.deps.Lock.Release(context.Background(), key) }, nil
}

func findTransaction(metas []model.TransactionMeta, hash common.Hash) (model.TransactionMeta, bool) {
	for _, m := range metas {
		if m.Hash == hash {
			return m, true
		}
	}
	return model.TransactionMeta{}, false
}

func findLimit(limits []model.Limit, token common.Address) (model.Limit, bool) {
	for _, l := range limits {
		if l.Token == token {
			return l, true
		}
	}
	return model.Limit{}, false
}
