package safe

import (
	"fmt"
	"math/big"

	"safe-authenticator/internal/model"
	"safe-authenticator/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Safe 合约的 EIP-712 常量
var (
	DomainSeparatorTypeHash = crypto.Keccak256Hash([]byte("EIP712Domain(address verifyingContract)"))
	SafeTxTypeHash          = crypto.Keccak256Hash([]byte("SafeTx(address to,uint256 value,bytes data,uint8 operation,uint256 safeTxGas,uint256 baseGas,uint256 gasPrice,address gasToken,address refundReceiver,uint256 nonce)"))
)

// 额度模块的 EIP-712 常量，域中包含 chainId
var (
	LimitDomainTypeHash   = crypto.Keccak256Hash([]byte("EIP712Domain(uint256 chainId,address verifyingContract)"))
	TransferLimitTypeHash = crypto.Keccak256Hash([]byte("TransferLimit(address token,address to,uint96 amount,address paymentToken,uint96 payment,uint16 nonce)"))
)

// encoder 按 32 字节左补零拼接各字段
type encoder struct {
	buf []byte
	err error
}

func (e *encoder) hash(h common.Hash) *encoder {
	e.buf = append(e.buf, h[:]...)
	return e
}

func (e *encoder) address(a common.Address) *encoder {
	e.buf = append(e.buf, common.LeftPadBytes(a[:], 32)...)
	return e
}

// number 编码无符号整数，超过 bits 位是调用错误
func (e *encoder) number(name string, v *big.Int, bits int) *encoder {
	if e.err != nil {
		return e
	}
	if v == nil {
		v = new(big.Int)
	}
	if v.Sign() < 0 || v.BitLen() > bits {
		e.err = errno.ErrValidation.WithMessage(fmt.Sprintf("%s does not fit uint%d: %s", name, bits, v))
		return e
	}
	e.buf = append(e.buf, common.LeftPadBytes(v.Bytes(), 32)...)
	return e
}

func (e *encoder) sum() (common.Hash, error) {
	if e.err != nil {
		return common.Hash{}, e.err
	}
	return crypto.Keccak256Hash(e.buf), nil
}

// typedHash = keccak256(0x19 0x01 domainHash valuesHash)
func typedHash(domain, values common.Hash) common.Hash {
	return crypto.Keccak256Hash([]byte{0x19, 0x01}, domain[:], values[:])
}

// DomainHash keccak256(DOMAIN_SEPARATOR_TYPEHASH ++ pad32(safe))
func DomainHash(safe common.Address) common.Hash {
	h, _ := (&encoder{}).hash(DomainSeparatorTypeHash).address(safe).sum()
	return h
}

// ValuesHash SafeTx 结构体哈希。refundReceiver 固定按零地址编码
func ValuesHash(tx model.SafeTx, exec model.SafeTxExecInfo) (common.Hash, error) {
	if !tx.Operation.Valid() {
		return common.Hash{}, errno.ErrValidation.WithMessage(fmt.Sprintf("unknown operation %d", tx.Operation))
	}
	return (&encoder{}).
		hash(SafeTxTypeHash).
		address(tx.To).
		number("value", tx.Value, 256).
		hash(crypto.Keccak256Hash(tx.Data)).
		number("operation", big.NewInt(int64(tx.Operation)), 8).
		number("safeTxGas", exec.TxGas, 256).
		number("baseGas", exec.BaseGas, 256).
		number("gasPrice", exec.GasPrice, 256).
		address(exec.GasToken).
		address(common.Address{}).
		number("nonce", exec.Nonce, 256).
		sum()
}

// TransactionHash Safe 合约 getTransactionHash 的链下实现
func TransactionHash(safe common.Address, tx model.SafeTx, exec model.SafeTxExecInfo) (common.Hash, error) {
	values, err := ValuesHash(tx, exec)
	if err != nil {
		return common.Hash{}, err
	}
	return typedHash(DomainHash(safe), values), nil
}

// LimitDomainHash 额度模块的域分隔符
// verifyingContract 是 Safe 地址而不是模块地址：签名绑定到被扣额度的 Safe，
// 后端按同一规则重新计算并校验
func LimitDomainHash(chainID *big.Int, verifyingContract common.Address) (common.Hash, error) {
	return (&encoder{}).
		hash(LimitDomainTypeHash).
		number("chainId", chainID, 256).
		address(verifyingContract).
		sum()
}

// TransferLimitHash 额度模块转账的签名摘要，域见 LimitDomainHash
// amount / payment 限 96 位，nonce 限 16 位
func TransferLimitHash(chainID *big.Int, safe, token, to common.Address, amount *big.Int, paymentToken common.Address, payment, nonce *big.Int) (common.Hash, error) {
	domain, err := LimitDomainHash(chainID, safe)
	if err != nil {
		return common.Hash{}, err
	}

	values, err := (&encoder{}).
		hash(TransferLimitTypeHash).
		address(token).
		address(to).
		number("amount", amount, 96).
		address(paymentToken).
		number("payment", payment, 96).
		number("nonce", nonce, 16).
		sum()
	if err != nil {
		return common.Hash{}, err
	}
	return typedHash(domain, values), nil
}
