package bip39

import (
	"fmt"
	"strings"
	"sync"

	"safe-authenticator/pkg/safe_random"

	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
)

// go-bip39 的词表是包级全局变量，切换与使用必须串行
var wordListMu sync.Mutex

var languages = map[string][]string{
	"english":             wordlists.English,
	"chinese_simplified":  wordlists.ChineseSimplified,
	"chinese_traditional": wordlists.ChineseTraditional,
	"japanese":            wordlists.Japanese,
	"korean":              wordlists.Korean,
	"spanish":             wordlists.Spanish,
	"french":              wordlists.French,
	"italian":             wordlists.Italian,
}

// MnemonicService 提供助记词相关的功能
type MnemonicService struct {
	wordList []string
}

// NewMnemonicService 创建使用英文词表的助记词服务实例
func NewMnemonicService() *MnemonicService {
	return &MnemonicService{wordList: wordlists.English}
}

// NewMnemonicServiceWithLanguage 按语言名 (如 "english", "chinese_simplified") 选择词表
func NewMnemonicServiceWithLanguage(language string) (*MnemonicService, error) {
	if language == "" {
		return NewMnemonicService(), nil
	}
	list, ok := languages[strings.ToLower(language)]
	if !ok {
		return nil, fmt.Errorf("不支持的助记词语言: %s", language)
	}
	return &MnemonicService{wordList: list}, nil
}

// GenerateMnemonic 生成一个新的随机助记词 (BIP-39)。
// bitSize: 熵的位数，128 (12个单词) 到 256 (24个单词)，必须是 32 的倍数。
func (s *MnemonicService) GenerateMnemonic(bitSize int) (string, error) {
	if bitSize < 128 || bitSize > 256 || bitSize%32 != 0 {
		return "", fmt.Errorf("生成熵失败: 无效的位数 %d", bitSize)
	}

	entropy, err := safe_random.GenerateRandomBytes(bitSize / 8)
	if err != nil {
		return "", fmt.Errorf("生成熵失败: %v", err)
	}

	wordListMu.Lock()
	defer wordListMu.Unlock()
	bip39.SetWordList(s.wordList)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("生成助记词失败: %v", err)
	}

	return mnemonic, nil
}

// ValidateMnemonic 验证助记词是否有效 (单词都在词表中且校验和正确)。
func (s *MnemonicService) ValidateMnemonic(mnemonic string) bool {
	wordListMu.Lock()
	defer wordListMu.Unlock()
	bip39.SetWordList(s.wordList)
	return bip39.IsMnemonicValid(mnemonic)
}

// MnemonicToSeed 将助记词转换为种子 (BIP-39 Seed)。
// password: 可选的 Passphrase ("第25个单词")，不需要时传空字符串。
func (s *MnemonicService) MnemonicToSeed(mnemonic string, password string) []byte {
	return bip39.NewSeed(mnemonic, password)
}
