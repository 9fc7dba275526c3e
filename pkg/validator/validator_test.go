package validator

import (
	"errors"
	"testing"

	"safe-authenticator/pkg/errno"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Address string `json:"address" binding:"required,evm_address"`
	Hash    string `json:"hash" binding:"omitempty,tx_hash"`
	Amount  string `json:"amount" binding:"omitempty,token_amount"`
}

func TestCustomRules(t *testing.T) {
	Init()
	Init()

	ok := sample{
		Address: "0x9858EfFD232B4033E47d90003D41EC34EcaEda94",
		Hash:    "0x6eb0ec09f76e0245dbbdffdb7d544e06b2ba30b2916ee2aa81efa4a0a815c354",
		Amount:  "1.5",
	}
	assert.NoError(t, binding.Validator.ValidateStruct(&ok))

	tests := []struct {
		name string
		in   sample
		msg  string
	}{
		{"missing address", sample{}, "Address 不能为空"},
		{"bad checksum", sample{Address: "0x9858effD232B4033E47d90003D41EC34EcaEda94"}, "Address 不是有效的地址"},
		{"short hash", sample{Address: ok.Address, Hash: "0x01"}, "Hash 不是有效的交易哈希"},
		{"zero amount", sample{Address: ok.Address, Amount: "0"}, "Amount 必须是大于 0 的金额"},
		{"bad amount", sample{Address: ok.Address, Amount: "abc"}, "Amount 必须是大于 0 的金额"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.in)
			assert.Error(t, err)
			assert.Equal(t, tt.msg, GetErrorMsg(err))
			assert.True(t, errors.Is(ToErrno(err), errno.ErrValidation))
		})
	}
}

func TestGetErrorMsgFallback(t *testing.T) {
	assert.Equal(t, "请求参数错误", GetErrorMsg(errors.New("EOF")))
}
