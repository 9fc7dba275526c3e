package units

import (
	"fmt"
	"math/big"
	"strings"

	"safe-authenticator/pkg/errno"

	"github.com/shopspring/decimal"
)

// Format 最小单位 -> 人类可读金额，去掉多余的 0
func Format(v *big.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -int32(decimals)).String()
}

// Parse 人类可读金额 -> 最小单位，小数位超过 decimals 或为负时返回 ErrValidation
func Parse(s string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, errno.ErrValidation.WithMessage(fmt.Sprintf("invalid amount %q", s))
	}
	if d.IsNegative() {
		return nil, errno.ErrValidation.WithMessage(fmt.Sprintf("negative amount %q", s))
	}
	base := d.Shift(int32(decimals))
	if !base.IsInteger() {
		return nil, errno.ErrValidation.WithMessage(fmt.Sprintf("amount %q has more than %d decimals", s, decimals))
	}
	return base.BigInt(), nil
}
