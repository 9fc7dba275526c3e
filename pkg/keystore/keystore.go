package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"safe-authenticator/pkg/errno"
	"safe-authenticator/pkg/safe_random"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/scrypt"
)

// EncryptedKeyJSON 遵循 Ethereum Keystore V3 的结构风格
// 但存储的是 "助记词" (Mnemonic) 而不是单个私钥
type EncryptedKeyJSON struct {
	Crypto  CryptoJSON `json:"crypto"`
	Id      string     `json:"id"`      // UUID
	Version int        `json:"version"` // 3
}

type CryptoJSON struct {
	Cipher       string       `json:"cipher"`       // "aes-256-gcm"
	CipherText   string       `json:"ciphertext"`   // Hex string
	CipherParams CipherParams `json:"cipherparams"` // IV
	KDF          string       `json:"kdf"`          // "scrypt"
	KDFParams    KDFParams    `json:"kdfparams"`
	MAC          string       `json:"mac"` // Hex string
}

type CipherParams struct {
	IV string `json:"iv"` // Hex string
}

type KDFParams struct {
	DKLen int    `json:"dklen"` // Derived Key Length (32)
	N     int    `json:"n"`     // Scrypt N
	R     int    `json:"r"`     // Scrypt r (8)
	P     int    `json:"p"`     // Scrypt p (1)
	Salt  string `json:"salt"`  // Hex string
}

const (
	// StandardScryptN 生产环境默认成本
	StandardScryptN = 262144
	// LightScryptN 低成本参数，仅用于测试和低端设备
	LightScryptN = 4096

	scryptR     = 8
	scryptP     = 1
	scryptDKLen = 32
)

var ErrMACMismatch = errors.New("invalid password or corrupted data (MAC mismatch)")

// EncryptMnemonic 使用默认 scrypt 成本加密助记词
func EncryptMnemonic(mnemonic, password string) (*EncryptedKeyJSON, error) {
	return EncryptMnemonicWithScrypt(mnemonic, password, StandardScryptN)
}

// EncryptMnemonicWithScrypt 将助记词使用密码加密为 JSON 结构
func EncryptMnemonicWithScrypt(mnemonic, password string, scryptN int) (*EncryptedKeyJSON, error) {
	if scryptN <= 1 || scryptN&(scryptN-1) != 0 {
		return nil, errno.ErrCrypto.WithMessage(fmt.Sprintf("scrypt N 必须是大于 1 的 2 的幂, got %d", scryptN))
	}

	// 1. 生成随机 Salt
	salt, err := safe_random.GenerateRandomBytes(32)
	if err != nil {
		return nil, errno.ErrCrypto.Wrap(err)
	}

	// 2. 使用 Scrypt 派生密钥，DKLen=32 直接用作 AES-256 的 Key
	derivedKey, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, errno.ErrCrypto.Wrap(err)
	}

	// 3. 使用 AES-256-GCM 加密
	gcm, err := newGCM(derivedKey)
	if err != nil {
		return nil, err
	}

	nonce, err := safe_random.GenerateRandomBytes(gcm.NonceSize())
	if err != nil {
		return nil, errno.ErrCrypto.Wrap(err)
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(mnemonic), nil)

	// 4. MAC = keccak256(derivedKey[16:32] + ciphertext)
	mac := crypto.Keccak256(derivedKey[16:32], ciphertext)

	id, err := generateUUID()
	if err != nil {
		return nil, errno.ErrCrypto.Wrap(err)
	}

	return &EncryptedKeyJSON{
		Version: 3,
		Id:      id,
		Crypto: CryptoJSON{
			Cipher:     "aes-256-gcm",
			CipherText: hex.EncodeToString(ciphertext),
			CipherParams: CipherParams{
				IV: hex.EncodeToString(nonce),
			},
			KDF: "scrypt",
			KDFParams: KDFParams{
				DKLen: scryptDKLen,
				N:     scryptN,
				R:     scryptR,
				P:     scryptP,
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(mac),
		},
	}, nil
}

// DecryptMnemonic 解密 Keystore JSON 获取助记词
// 所有失败 (参数损坏, 口令错误) 都归为 ErrCrypto
func DecryptMnemonic(keyJSON *EncryptedKeyJSON, password string) (string, error) {
	if keyJSON.Crypto.KDF != "scrypt" || keyJSON.Crypto.Cipher != "aes-256-gcm" {
		return "", errno.ErrCrypto.WithMessage(fmt.Sprintf("unsupported kdf/cipher %s/%s", keyJSON.Crypto.KDF, keyJSON.Crypto.Cipher))
	}

	// 1. 解析 Hex 参数
	salt, err := hex.DecodeString(keyJSON.Crypto.KDFParams.Salt)
	if err != nil {
		return "", errno.ErrCrypto.Wrap(fmt.Errorf("invalid salt: %w", err))
	}
	nonce, err := hex.DecodeString(keyJSON.Crypto.CipherParams.IV)
	if err != nil {
		return "", errno.ErrCrypto.Wrap(fmt.Errorf("invalid iv: %w", err))
	}
	ciphertext, err := hex.DecodeString(keyJSON.Crypto.CipherText)
	if err != nil {
		return "", errno.ErrCrypto.Wrap(fmt.Errorf("invalid ciphertext: %w", err))
	}
	mac, err := hex.DecodeString(keyJSON.Crypto.MAC)
	if err != nil {
		return "", errno.ErrCrypto.Wrap(fmt.Errorf("invalid mac: %w", err))
	}

	// 2. 重新派生密钥
	params := keyJSON.Crypto.KDFParams
	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return "", errno.ErrCrypto.Wrap(err)
	}
	if len(derivedKey) != scryptDKLen {
		return "", errno.ErrCrypto.WithMessage("unexpected dklen")
	}

	// 3. 验证 MAC (常量时间比较)
	calculatedMAC := crypto.Keccak256(derivedKey[16:32], ciphertext)
	if subtle.ConstantTimeCompare(mac, calculatedMAC) != 1 {
		return "", errno.ErrCrypto.Wrap(ErrMACMismatch)
	}

	// 4. 解密
	gcm, err := newGCM(derivedKey)
	if err != nil {
		return "", err
	}
	if len(nonce) != gcm.NonceSize() {
		return "", errno.ErrCrypto.WithMessage("invalid iv length")
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errno.ErrCrypto.Wrap(fmt.Errorf("decryption failed: %w", err))
	}

	return string(plaintext), nil
}

// Marshal 序列化为存储用的 JSON
func (k *EncryptedKeyJSON) Marshal() ([]byte, error) {
	return json.MarshalIndent(k, "", "  ")
}

// Unmarshal 从存储读取的 JSON 还原
func Unmarshal(data []byte) (*EncryptedKeyJSON, error) {
	var k EncryptedKeyJSON
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, errno.ErrCrypto.Wrap(fmt.Errorf("corrupted keystore: %w", err))
	}
	return &k, nil
}

// --- Helpers ---

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errno.ErrCrypto.Wrap(err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errno.ErrCrypto.Wrap(err)
	}
	return gcm, nil
}

func generateUUID() (string, error) {
	b, err := safe_random.GenerateRandomBytes(16)
	if err != nil {
		return "", err
	}
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // variant 10
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:]), nil
}
