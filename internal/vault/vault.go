package vault

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"sync"

	"safe-authenticator/internal/model"
	"safe-authenticator/internal/service"
	"safe-authenticator/pkg/bip32"
	"safe-authenticator/pkg/bip39"
	"safe-authenticator/pkg/errno"
	"safe-authenticator/pkg/keystore"
	"safe-authenticator/pkg/logger"
	"safe-authenticator/pkg/storage"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// DeviceKeyIndex 用于确认交易的设备身份密钥
const DeviceKeyIndex = service.DeviceKeyIndex

// Config 显式传入的口令与生成参数
type Config struct {
	Passphrase  string
	Language    string
	EntropyBits int
	ScryptN     int
}

// KeyPair 一次派生-签名周期内有效的密钥对，不持久化
type KeyPair struct {
	Index      uint32
	PrivateKey *ecdsa.PrivateKey
	Address    common.Address
}

// Wipe 清零私钥标量
func (k *KeyPair) Wipe() {
	if k != nil && k.PrivateKey != nil && k.PrivateKey.D != nil {
		k.PrivateKey.D.SetInt64(0)
	}
}

// Vault 独占加密助记词的读写，对外只提供签名与公开地址
type Vault struct {
	store     storage.Store
	cfg       Config
	mnemonics *bip39.MnemonicService

	mu     sync.RWMutex
	device *common.Address
}

// New 创建 Vault。语言不受支持时回落到英文词表
func New(store storage.Store, cfg Config) *Vault {
	if cfg.EntropyBits == 0 {
		cfg.EntropyBits = 128
	}
	if cfg.ScryptN == 0 {
		cfg.ScryptN = keystore.StandardScryptN
	}
	mnemonics, err := bip39.NewMnemonicServiceWithLanguage(cfg.Language)
	if err != nil {
		logger.Warn("unsupported mnemonic language, falling back to english", zap.String("language", cfg.Language))
		mnemonics = bip39.NewMnemonicService()
	}
	return &Vault{store: store, cfg: cfg, mnemonics: mnemonics}
}

// Initialized 是否已存在加密助记词
func (v *Vault) Initialized(ctx context.Context) (bool, error) {
	_, err := v.store.Get(ctx, storage.KeyMnemonic)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errno.ErrStorage.Wrap(err)
	}
	return true, nil
}

// EnsureInitialized 不存在助记词时生成、加密并持久化；已存在时不做任何事
func (v *Vault) EnsureInitialized(ctx context.Context) error {
	ok, err := v.Initialized(ctx)
	if err != nil || ok {
		return err
	}

	mnemonic, err := v.mnemonics.GenerateMnemonic(v.cfg.EntropyBits)
	if err != nil {
		return errno.ErrCrypto.Wrap(err)
	}
	if err := v.persist(ctx, mnemonic); err != nil {
		return err
	}
	logger.Info("generated new device mnemonic")
	return nil
}

// Import 使用已有助记词初始化，已初始化时拒绝覆盖
func (v *Vault) Import(ctx context.Context, mnemonic string) error {
	if !v.mnemonics.ValidateMnemonic(mnemonic) {
		return errno.ErrValidation.WithMessage("invalid mnemonic")
	}
	ok, err := v.Initialized(ctx)
	if err != nil {
		return err
	}
	if ok {
		return errno.ErrValidation.WithMessage("vault already initialized")
	}
	return v.persist(ctx, mnemonic)
}

func (v *Vault) persist(ctx context.Context, mnemonic string) error {
	keyJSON, err := keystore.EncryptMnemonicWithScrypt(mnemonic, v.cfg.Passphrase, v.cfg.ScryptN)
	if err != nil {
		return err
	}
	data, err := keyJSON.Marshal()
	if err != nil {
		return errno.ErrStorage.Wrap(err)
	}
	if err := v.store.Put(ctx, storage.KeyMnemonic, data); err != nil {
		return errno.ErrStorage.Wrap(err)
	}

	v.mu.Lock()
	v.device = nil
	v.mu.Unlock()
	return nil
}

// DecryptMnemonic 每次调用都重新解密，返回明文助记词
func (v *Vault) DecryptMnemonic(ctx context.Context) (string, error) {
	data, err := v.store.Get(ctx, storage.KeyMnemonic)
	if errors.Is(err, storage.ErrNotFound) {
		return "", errno.ErrNotInitialized
	}
	if err != nil {
		return "", errno.ErrStorage.Wrap(err)
	}

	keyJSON, err := keystore.Unmarshal(data)
	if err != nil {
		return "", err
	}
	return keystore.DecryptMnemonic(keyJSON, v.cfg.Passphrase)
}

// Derive 助记词 -> 种子 -> 主密钥 -> m/44'/60'/0'/0/index
func (v *Vault) Derive(ctx context.Context, index uint32) (*KeyPair, error) {
	mnemonic, err := v.DecryptMnemonic(ctx)
	if err != nil {
		return nil, err
	}
	return deriveFromMnemonic(v.mnemonics, mnemonic, index)
}

func deriveFromMnemonic(mnemonics *bip39.MnemonicService, mnemonic string, index uint32) (*KeyPair, error) {
	seed := mnemonics.MnemonicToSeed(mnemonic, "")
	defer clear(seed)

	wallet, err := bip32.NewMasterKeyFromSeed(seed, nil)
	if err != nil {
		return nil, errno.ErrCrypto.Wrap(err)
	}
	child, err := wallet.DerivePath(bip32.EthereumPath(index))
	if err != nil {
		return nil, errno.ErrCrypto.Wrap(err)
	}
	priv, err := child.ECPrivKey()
	if err != nil {
		return nil, errno.ErrCrypto.Wrap(err)
	}

	// 转换到 go-ethereum 的 secp256k1 曲线实现，crypto.Sign 要求曲线一致
	raw := priv.Serialize()
	defer clear(raw)
	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, errno.ErrCrypto.Wrap(err)
	}
	return &KeyPair{
		Index:      index,
		PrivateKey: key,
		Address:    crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// DeviceAddress 设备身份地址 (index 0)。公开地址在首次派生后缓存
func (v *Vault) DeviceAddress(ctx context.Context) (common.Address, error) {
	v.mu.RLock()
	cached := v.device
	v.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	kp, err := v.Derive(ctx, DeviceKeyIndex)
	if err != nil {
		return common.Address{}, err
	}
	defer kp.Wipe()

	addr := kp.Address
	v.mu.Lock()
	v.device = &addr
	v.mu.Unlock()
	return addr, nil
}

// Sign 用第 index 个密钥对 32 字节摘要签名，返回签名与签名者地址
// 私钥只在本次调用内存在
func (v *Vault) Sign(ctx context.Context, index uint32, digest common.Hash) (model.Signature, common.Address, error) {
	kp, err := v.Derive(ctx, index)
	if err != nil {
		return model.Signature{}, common.Address{}, err
	}
	defer kp.Wipe()

	raw, err := crypto.Sign(digest[:], kp.PrivateKey)
	if err != nil {
		return model.Signature{}, common.Address{}, errno.ErrCrypto.Wrap(fmt.Errorf("sign digest: %w", err))
	}
	raw[64] += 27

	sig, err := model.SignatureFromBytes(raw)
	if err != nil {
		return model.Signature{}, common.Address{}, err
	}
	logger.Debug("signed digest", zap.Uint32("index", index), zap.String("signer", kp.Address.Hex()))
	return sig, kp.Address, nil
}
