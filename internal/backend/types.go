package backend

import (
	"fmt"

	"safe-authenticator/internal/model"
	"safe-authenticator/pkg/errno"
)

// transactionPage GET /safes/{address}/transactions/ 的分页响应
type transactionPage struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []rawTransaction `json:"results"`
}

type rawConfirmation struct {
	Owner     string  `json:"owner"`
	Signature *string `json:"signature"`
}

type rawTransaction struct {
	SafeTxHash     string            `json:"safeTxHash"`
	To             *string           `json:"to"`
	Value          *string           `json:"value"`
	Data           *string           `json:"data"`
	Operation      *int              `json:"operation"`
	GasToken       *string           `json:"gasToken"`
	SafeTxGas      *string           `json:"safeTxGas"`
	BaseGas        *string           `json:"baseGas"`
	GasPrice       *string           `json:"gasPrice"`
	RefundReceiver *string           `json:"refundReceiver"`
	Nonce          *string           `json:"nonce"`
	Confirmations  []rawConfirmation `json:"confirmations"`
	IsExecuted     bool              `json:"isExecuted"`
}

// toModel 所有字段经过同一组解析函数
func (r rawTransaction) toModel() (model.ServiceSafeTx, error) {
	var (
		stx model.ServiceSafeTx
		err error
	)

	if stx.Hash, err = ParseHash(r.SafeTxHash); err != nil {
		return stx, err
	}
	if stx.Tx.To, err = ParseAddress(r.To); err != nil {
		return stx, err
	}
	if stx.Tx.Value, err = ParseUint(r.Value); err != nil {
		return stx, err
	}
	if stx.Tx.Data, err = ParseData(r.Data); err != nil {
		return stx, err
	}
	if r.Operation != nil {
		// 先检查原始整数范围，再转换为 uint8
		if *r.Operation < int(model.Call) || *r.Operation > int(model.DelegateCall) {
			return stx, errno.ErrBackend.WithMessage(fmt.Sprintf("invalid operation %d", *r.Operation))
		}
		stx.Tx.Operation = model.Operation(*r.Operation)
	}

	if stx.ExecInfo.GasToken, err = ParseAddress(r.GasToken); err != nil {
		return stx, err
	}
	if stx.ExecInfo.TxGas, err = ParseUint(r.SafeTxGas); err != nil {
		return stx, err
	}
	if stx.ExecInfo.BaseGas, err = ParseUint(r.BaseGas); err != nil {
		return stx, err
	}
	if stx.ExecInfo.GasPrice, err = ParseUint(r.GasPrice); err != nil {
		return stx, err
	}
	if stx.ExecInfo.RefundReceiver, err = ParseAddress(r.RefundReceiver); err != nil {
		return stx, err
	}
	if stx.ExecInfo.Nonce, err = ParseUint(r.Nonce); err != nil {
		return stx, err
	}

	stx.Confirmations = make([]model.Confirmation, 0, len(r.Confirmations))
	for _, c := range r.Confirmations {
		owner, err := ParseAddress(&c.Owner)
		if err != nil {
			return stx, err
		}
		stx.Confirmations = append(stx.Confirmations, model.Confirmation{Owner: owner, Signature: c.Signature})
	}
	stx.Executed = r.IsExecuted
	return stx, nil
}

// confirmationRequest POST /safes/{address}/transactions/
type confirmationRequest struct {
	To               string  `json:"to"`
	Value            string  `json:"value"`
	Data             *string `json:"data"`
	Operation        uint8   `json:"operation"`
	GasToken         string  `json:"gasToken"`
	SafeTxGas        string  `json:"safeTxGas"`
	BaseGas          string  `json:"baseGas"`
	GasPrice         string  `json:"gasPrice"`
	RefundReceiver   string  `json:"refundReceiver"`
	Nonce            string  `json:"nonce"`
	SafeTxHash       string  `json:"safeTxHash"`
	Sender           string  `json:"sender"`
	ConfirmationType string  `json:"confirmationType"`
	Signature        string  `json:"signature"`
}

// limitTransferRequest POST /safes/{address}/transfer-limits/{token}/transfers/
type limitTransferRequest struct {
	To        string `json:"to"`
	Amount    string `json:"amount"`
	Signature string `json:"signature"`
}
