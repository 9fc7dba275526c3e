package keystore

import (
	"errors"
	"strings"
	"testing"

	"safe-authenticator/pkg/errno"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestEncryptDecryptMnemonic(t *testing.T) {
	password := "secure-password"

	// 1. Encrypt
	keyJSON, err := EncryptMnemonicWithScrypt(testMnemonic, password, LightScryptN)
	require.NoError(t, err)

	assert.Equal(t, "aes-256-gcm", keyJSON.Crypto.Cipher)
	assert.Equal(t, LightScryptN, keyJSON.Crypto.KDFParams.N)
	assert.Len(t, keyJSON.Id, 36)

	// 2. Decrypt with correct password
	plaintext, err := DecryptMnemonic(keyJSON, password)
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, plaintext)

	// 3. Decrypt with wrong password
	_, err = DecryptMnemonic(keyJSON, "wrong-password")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrCrypto))
	assert.True(t, errors.Is(err, ErrMACMismatch))
}

func TestEncryptProducesFreshSalt(t *testing.T) {
	a, err := EncryptMnemonicWithScrypt(testMnemonic, "pw", LightScryptN)
	require.NoError(t, err)
	b, err := EncryptMnemonicWithScrypt(testMnemonic, "pw", LightScryptN)
	require.NoError(t, err)

	assert.NotEqual(t, a.Crypto.KDFParams.Salt, b.Crypto.KDFParams.Salt)
	assert.NotEqual(t, a.Crypto.CipherText, b.Crypto.CipherText)
}

func TestInvalidScryptCost(t *testing.T) {
	for _, n := range []int{0, 1, 1000} {
		_, err := EncryptMnemonicWithScrypt(testMnemonic, "pw", n)
		assert.True(t, errors.Is(err, errno.ErrCrypto), "N=%d 应被拒绝", n)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	keyJSON, err := EncryptMnemonicWithScrypt(testMnemonic, "123456", LightScryptN)
	require.NoError(t, err)

	data, err := keyJSON.Marshal()
	require.NoError(t, err)

	loaded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, keyJSON.Id, loaded.Id)

	decrypted, err := DecryptMnemonic(loaded, "123456")
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, decrypted)
}

func TestCorruptedKeystore(t *testing.T) {
	keyJSON, err := EncryptMnemonicWithScrypt(testMnemonic, "pw", LightScryptN)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(k *EncryptedKeyJSON)
	}{
		{"bad salt hex", func(k *EncryptedKeyJSON) { k.Crypto.KDFParams.Salt = "zz" }},
		{"bad iv hex", func(k *EncryptedKeyJSON) { k.Crypto.CipherParams.IV = "0x" }},
		{"tampered ciphertext", func(k *EncryptedKeyJSON) {
			c := []byte(k.Crypto.CipherText)
			if c[0] == '0' {
				c[0] = '1'
			} else {
				c[0] = '0'
			}
			k.Crypto.CipherText = string(c)
		}},
		{"unknown cipher", func(k *EncryptedKeyJSON) { k.Crypto.Cipher = "aes-128-ctr" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := *keyJSON
			tt.mutate(&k)
			_, err := DecryptMnemonic(&k, "pw")
			require.Error(t, err)
			assert.True(t, errors.Is(err, errno.ErrCrypto))
		})
	}

	_, err = Unmarshal([]byte(strings.Repeat("{", 3)))
	assert.True(t, errors.Is(err, errno.ErrCrypto))
}
