package model

import (
	"encoding/hex"
	"fmt"

	"safe-authenticator/pkg/errno"
)

// SignatureHexLen r(64) + s(64) + v(2)
const SignatureHexLen = 130

// Signature 可恢复的 secp256k1 签名，v 为 27/28
type Signature struct {
	R [32]byte
	S [32]byte
	V byte
}

// SignatureFromBytes 从 r||s||v 65 字节构造
func SignatureFromBytes(b []byte) (Signature, error) {
	if len(b) != 65 {
		return Signature{}, errno.ErrCrypto.WithMessage(fmt.Sprintf("signature must be 65 bytes, got %d", len(b)))
	}
	var sig Signature
	copy(sig.R[:], b[:32])
	copy(sig.S[:], b[32:64])
	sig.V = b[64]
	return sig, nil
}

// ParseSignature 解析 130 个十六进制字符 (不带 0x) 的签名
func ParseSignature(s string) (Signature, error) {
	if len(s) != SignatureHexLen {
		return Signature{}, errno.ErrCrypto.WithMessage(fmt.Sprintf("signature must be %d hex chars, got %d", SignatureHexLen, len(s)))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Signature{}, errno.ErrCrypto.Wrap(fmt.Errorf("malformed signature: %w", err))
	}
	return SignatureFromBytes(b)
}

// Bytes 返回 r||s||v
func (s Signature) Bytes() []byte {
	out := make([]byte, 0, 65)
	out = append(out, s.R[:]...)
	out = append(out, s.S[:]...)
	return append(out, s.V)
}

// String 130 个小写十六进制字符，不带 0x
func (s Signature) String() string {
	return hex.EncodeToString(s.Bytes())
}

// Prefixed 传输边界使用的 0x 前缀形式
func (s Signature) Prefixed() string {
	return "0x" + s.String()
}
