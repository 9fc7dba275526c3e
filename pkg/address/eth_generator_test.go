package address

import (
	"errors"
	"testing"

	"safe-authenticator/pkg/errno"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"checksummed", "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", true},
		{"lower", "0x9858effd232b4033e47d90003d41ec34ecaeda94", true},
		{"upper body", "0x9858EFFD232B4033E47D90003D41EC34ECAEDA94", true},
		{"no prefix", "9858effd232b4033e47d90003d41ec34ecaeda94", true},
		{"bad checksum", "0x9858efFD232B4033E47d90003D41EC34EcaEda94", false},
		{"too short", "0x1234", false},
		{"not hex", "0xzz58effd232b4033e47d90003d41ec34ecaeda94", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := Parse(tt.input)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errno.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", Checksum(addr))
		})
	}
}

func TestPubKeyToAddress(t *testing.T) {
	key, err := crypto.HexToECDSA("1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727")
	require.NoError(t, err)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", Checksum(PubKeyToAddress(&key.PublicKey)))
}
