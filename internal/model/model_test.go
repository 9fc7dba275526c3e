package model

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"

	"safe-authenticator/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureRoundTrip(t *testing.T) {
	inputs := []string{
		strings.Repeat("0", 128) + "1b",
		strings.Repeat("ab", 32) + strings.Repeat("cd", 32) + "1c",
		"5d7b4a05ba1c3b8b0b3a7b6db9c8b14b0c5e5d4a2e3fcbd0e1f2a3b4c5d6e7f8" +
			"112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00" + "1b",
	}
	for _, in := range inputs {
		sig, err := ParseSignature(in)
		require.NoError(t, err)
		assert.Equal(t, in, sig.String())
		assert.Equal(t, "0x"+in, sig.Prefixed())
	}
}

func TestSignatureAcceptsUpperCase(t *testing.T) {
	in := strings.Repeat("AB", 64) + "1C"
	sig, err := ParseSignature(in)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(in), sig.String())
	assert.Equal(t, byte(0x1c), sig.V)
}

func TestParseSignatureRejects(t *testing.T) {
	tests := []string{
		"",
		strings.Repeat("0", 129),
		strings.Repeat("0", 131),
		"0x" + strings.Repeat("0", 128),
		strings.Repeat("g", 130),
	}
	for _, in := range tests {
		_, err := ParseSignature(in)
		require.Error(t, err, "输入长度 %d 应失败", len(in))
		assert.True(t, errors.Is(err, errno.ErrCrypto))
	}
}

func TestFees(t *testing.T) {
	exec := SafeTxExecInfo{BaseGas: big.NewInt(21000), TxGas: big.NewInt(50000), GasPrice: big.NewInt(2)}
	assert.Equal(t, big.NewInt(142000), exec.Fees())
	assert.Equal(t, 0, SafeTxExecInfo{}.Fees().Sign())
}

func TestLimitAvailable(t *testing.T) {
	l := Limit{Amount: big.NewInt(100), Spent: big.NewInt(30)}
	assert.Equal(t, big.NewInt(70), l.Available())

	over := Limit{Amount: big.NewInt(10), Spent: big.NewInt(30)}
	assert.Equal(t, 0, over.Available().Sign())
}

func TestConfirmedBy(t *testing.T) {
	owner := common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94")
	stx := ServiceSafeTx{Confirmations: []Confirmation{{Owner: common.HexToAddress("0x01")}, {Owner: owner}}}
	assert.True(t, stx.ConfirmedBy(owner))
	assert.False(t, stx.ConfirmedBy(common.HexToAddress("0x02")))
}

func TestStateJSON(t *testing.T) {
	data, err := json.Marshal(map[string]State{"s": StateCanceled})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"CANCELED"}`, string(data))
	assert.Equal(t, "State(9)", State(9).String())

	for state := range stateNames {
		raw, err := json.Marshal(state)
		require.NoError(t, err)
		var back State
		require.NoError(t, json.Unmarshal(raw, &back))
		assert.Equal(t, state, back, "%s 应能还原", state)
	}

	var s State
	assert.Error(t, json.Unmarshal([]byte(`"DONE"`), &s), "未知状态名应报错")
}
