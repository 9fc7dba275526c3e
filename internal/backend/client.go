package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"safe-authenticator/internal/model"
	"safe-authenticator/pkg/errno"
	"safe-authenticator/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// maxPages 防止后端 next 链接成环
const maxPages = 50

// Client Safe 交易服务的 HTTP 客户端
// 实现 service.TransactionLister / ConfirmationSubmitter / LimitTransferExecutor
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) transactionsURL(safe common.Address) string {
	return fmt.Sprintf("%s/api/v1/safes/%s/transactions/", c.baseURL, safe.Hex())
}

// ListTransactions 拉取所有分页，保持后端顺序
func (c *Client) ListTransactions(ctx context.Context, safe common.Address) ([]model.ServiceSafeTx, error) {
	next := c.transactionsURL(safe)
	var out []model.ServiceSafeTx

	for page := 0; next != ""; page++ {
		if page >= maxPages {
			return nil, errno.ErrBackend.WithMessage("too many transaction pages")
		}

		var body transactionPage
		if err := c.getJSON(ctx, next, &body); err != nil {
			return nil, err
		}
		for _, raw := range body.Results {
			stx, err := raw.toModel()
			if err != nil {
				return nil, err
			}
			out = append(out, stx)
		}

		next = ""
		if body.Next != nil && *body.Next != "" {
			resolved, err := c.resolve(*body.Next)
			if err != nil {
				return nil, err
			}
			next = resolved
		}
	}

	logger.Debug("listed transactions", zap.String("safe", safe.Hex()), zap.Int("count", len(out)))
	return out, nil
}

// resolve 支持相对路径的 next 链接
func (c *Client) resolve(ref string) (string, error) {
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", errno.ErrBackend.Wrap(err)
	}
	u, err := base.Parse(ref)
	if err != nil {
		return "", errno.ErrBackend.Wrap(err)
	}
	return u.String(), nil
}

// SubmitConfirmation 提交设备签名的确认
func (c *Client) SubmitConfirmation(ctx context.Context, conf *model.SignedConfirmation) error {
	var data *string
	if len(conf.Tx.Data) > 0 {
		encoded := hexutil.Encode(conf.Tx.Data)
		data = &encoded
	}

	req := confirmationRequest{
		To:               conf.Tx.To.Hex(),
		Value:            decimal(conf.Tx.Value),
		Data:             data,
		Operation:        uint8(conf.Tx.Operation),
		GasToken:         conf.ExecInfo.GasToken.Hex(),
		SafeTxGas:        decimal(conf.ExecInfo.TxGas),
		BaseGas:          decimal(conf.ExecInfo.BaseGas),
		GasPrice:         decimal(conf.ExecInfo.GasPrice),
		RefundReceiver:   conf.ExecInfo.RefundReceiver.Hex(),
		Nonce:            decimal(conf.ExecInfo.Nonce),
		SafeTxHash:       conf.Hash.Hex(),
		Sender:           conf.Sender.Hex(),
		ConfirmationType: "confirmation",
		Signature:        conf.Signature.Prefixed(),
	}
	return c.postJSON(ctx, c.transactionsURL(conf.Safe), req)
}

// ExecuteLimitTransfer 提交额度转账
func (c *Client) ExecuteLimitTransfer(ctx context.Context, t *model.LimitTransfer) error {
	endpoint := fmt.Sprintf("%s/api/v1/safes/%s/transfer-limits/%s/transfers/", c.baseURL, t.Safe.Hex(), t.Token.Hex())
	req := limitTransferRequest{
		To:        t.To.Hex(),
		Amount:    decimal(t.Amount),
		Signature: t.Signature.Prefixed(),
	}
	return c.postJSON(ctx, endpoint, req)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errno.ErrBackend.Wrap(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errno.ErrBackend.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errno.ErrBackend.WithMessage(fmt.Sprintf("GET %s: status %d: %s", endpoint, resp.StatusCode, snippet(resp.Body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errno.ErrBackend.Wrap(fmt.Errorf("decode %s: %w", endpoint, err))
	}
	return nil
}

// postJSON 非 2xx 视为后端拒绝，返回 ErrSubmission
func (c *Client) postJSON(ctx context.Context, endpoint string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errno.ErrSubmission.Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errno.ErrSubmission.Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errno.ErrSubmission.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := snippet(resp.Body)
		logger.Warn("backend rejected submission", zap.String("url", endpoint), zap.Int("status", resp.StatusCode), zap.String("body", msg))
		return errno.ErrSubmission.WithMessage(fmt.Sprintf("status %d: %s", resp.StatusCode, msg))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func snippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}

func decimal(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
