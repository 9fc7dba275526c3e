package event

import (
	"time"

	"safe-authenticator/internal/model"
)

// ConfirmationSubmittedEvent 设备确认已被后端接受
// Topic: safe:events:confirmation
type ConfirmationSubmittedEvent struct {
	Safe       string    `json:"safe"`
	SafeTxHash string    `json:"safe_tx_hash"`
	Sender     string    `json:"sender"`
	Nonce      string    `json:"nonce"` // Decimal string
	Signature  string    `json:"signature"`
	At         time.Time `json:"at"`
}

// LimitTransferSubmittedEvent 额度转账已提交
// Topic: safe:events:limit_transfer
type LimitTransferSubmittedEvent struct {
	Safe   string    `json:"safe"`
	Token  string    `json:"token"`
	To     string    `json:"to"`
	Amount string    `json:"amount"` // Decimal string (最小单位)
	At     time.Time `json:"at"`
}

func NewConfirmationSubmitted(c *model.SignedConfirmation, at time.Time) ConfirmationSubmittedEvent {
	nonce := "0"
	if c.ExecInfo.Nonce != nil {
		nonce = c.ExecInfo.Nonce.String()
	}
	return ConfirmationSubmittedEvent{
		Safe:       c.Safe.Hex(),
		SafeTxHash: c.Hash.Hex(),
		Sender:     c.Sender.Hex(),
		Nonce:      nonce,
		Signature:  c.Signature.Prefixed(),
		At:         at.UTC(),
	}
}

func NewLimitTransferSubmitted(t *model.LimitTransfer, at time.Time) LimitTransferSubmittedEvent {
	amount := "0"
	if t.Amount != nil {
		amount = t.Amount.String()
	}
	return LimitTransferSubmittedEvent{
		Safe:   t.Safe.Hex(),
		Token:  t.Token.Hex(),
		To:     t.To.Hex(),
		Amount: amount,
		At:     at.UTC(),
	}
}
