package bip39

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMnemonic(t *testing.T) {
	service := NewMnemonicService()

	tests := []struct {
		bits  int
		words int
	}{
		{128, 12},
		{160, 15},
		{256, 24},
	}
	for _, tt := range tests {
		mnemonic, err := service.GenerateMnemonic(tt.bits)
		require.NoError(t, err, "生成 %d 位助记词失败", tt.bits)
		assert.Len(t, strings.Fields(mnemonic), tt.words)
		assert.True(t, service.ValidateMnemonic(mnemonic), "生成的助记词无效")
	}
}

func TestGenerateMnemonicInvalidBits(t *testing.T) {
	service := NewMnemonicService()
	for _, bits := range []int{0, 64, 130, 512} {
		_, err := service.GenerateMnemonic(bits)
		assert.Error(t, err, "bits=%d 应失败", bits)
	}
}

func TestMnemonicToSeed(t *testing.T) {
	service := NewMnemonicService()

	// 已知的测试向量 (Test Vector)，空密码
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	expectedSeedHex := "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"

	require.True(t, service.ValidateMnemonic(mnemonic), "测试向量助记词无效")

	seed := service.MnemonicToSeed(mnemonic, "")
	assert.Equal(t, expectedSeedHex, hex.EncodeToString(seed))
}

func TestValidateMnemonic_Invalid(t *testing.T) {
	service := NewMnemonicService()

	invalidMnemonic := "hello world invalid mnemonic phrase designed to fail validation check"
	assert.False(t, service.ValidateMnemonic(invalidMnemonic), "期望验证失败，但验证通过了")
}

func TestLanguageWordList(t *testing.T) {
	zh, err := NewMnemonicServiceWithLanguage("chinese_simplified")
	require.NoError(t, err)

	mnemonic, err := zh.GenerateMnemonic(128)
	require.NoError(t, err)
	assert.True(t, zh.ValidateMnemonic(mnemonic))

	// 中文助记词在英文词表下不合法
	assert.False(t, NewMnemonicService().ValidateMnemonic(mnemonic))

	_, err = NewMnemonicServiceWithLanguage("klingon")
	assert.Error(t, err)
}
