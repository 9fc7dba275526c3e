package handler

import (
	"math/big"

	"safe-authenticator/internal/model"
	"safe-authenticator/pkg/utils/units"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ConfirmationView 交易上已有的确认
type ConfirmationView struct {
	Owner     string  `json:"owner"`
	Signature *string `json:"signature"`
}

// TransactionView 附带本地分类状态的交易
type TransactionView struct {
	SafeTxHash     string             `json:"safeTxHash"`
	To             string             `json:"to"`
	Value          string             `json:"value"`
	Data           string             `json:"data"`
	Operation      string             `json:"operation"`
	Nonce          string             `json:"nonce"`
	SafeTxGas      string             `json:"safeTxGas"`
	BaseGas        string             `json:"baseGas"`
	GasPrice       string             `json:"gasPrice"`
	GasToken       string             `json:"gasToken"`
	RefundReceiver string             `json:"refundReceiver"`
	Fees           string             `json:"fees"`
	Confirmations  []ConfirmationView `json:"confirmations"`
	State          model.State        `json:"state"`
}

func newTransactionView(m model.TransactionMeta) TransactionView {
	v := TransactionView{
		SafeTxHash:     m.Hash.Hex(),
		To:             m.Tx.To.Hex(),
		Value:          str(m.Tx.Value),
		Data:           hexutil.Encode(m.Tx.Data),
		Operation:      m.Tx.Operation.String(),
		Nonce:          str(m.ExecInfo.Nonce),
		SafeTxGas:      str(m.ExecInfo.TxGas),
		BaseGas:        str(m.ExecInfo.BaseGas),
		GasPrice:       str(m.ExecInfo.GasPrice),
		GasToken:       m.ExecInfo.GasToken.Hex(),
		RefundReceiver: m.ExecInfo.RefundReceiver.Hex(),
		Fees:           m.ExecInfo.Fees().String(),
		Confirmations:  make([]ConfirmationView, 0, len(m.Confirmations)),
		State:          m.State,
	}
	for _, c := range m.Confirmations {
		v.Confirmations = append(v.Confirmations, ConfirmationView{Owner: c.Owner.Hex(), Signature: c.Signature})
	}
	return v
}

// SafeView 链上 Safe 状态
type SafeView struct {
	Address       string   `json:"address"`
	MasterCopy    string   `json:"masterCopy"`
	Owners        []string `json:"owners"`
	Threshold     string   `json:"threshold"`
	Nonce         string   `json:"nonce"`
	DeviceIsOwner bool     `json:"deviceIsOwner"`
}

// LimitView 额度与 token 元数据，金额同时给出最小单位与 token 单位
type LimitView struct {
	Token            model.TokenInfo `json:"token"`
	Amount           string          `json:"amount"`
	Spent            string          `json:"spent"`
	Available        string          `json:"available"`
	AmountDisplay    string          `json:"amountDisplay"`
	SpentDisplay     string          `json:"spentDisplay"`
	AvailableDisplay string          `json:"availableDisplay"`
	LastSpent        int64           `json:"lastSpent"`
	ResetPeriod      int64           `json:"resetPeriodSeconds"`
	Nonce            string          `json:"nonce"`
}

func newLimitView(l model.Limit, info model.TokenInfo) LimitView {
	var lastSpent int64
	if !l.LastSpent.IsZero() {
		lastSpent = l.LastSpent.Unix()
	}
	return LimitView{
		Token:            info,
		Amount:           str(l.Amount),
		Spent:            str(l.Spent),
		Available:        l.Available().String(),
		AmountDisplay:    units.Format(l.Amount, info.Decimals),
		SpentDisplay:     units.Format(l.Spent, info.Decimals),
		AvailableDisplay: units.Format(l.Available(), info.Decimals),
		LastSpent:        lastSpent,
		ResetPeriod:      int64(l.ResetPeriod.Seconds()),
		Nonce:            str(l.Nonce),
	}
}

// SubmittedView 提交成功后的返回
type SubmittedView struct {
	SafeTxHash string `json:"safeTxHash,omitempty"`
	Sender     string `json:"sender"`
	Signature  string `json:"signature"`
}

func str(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
