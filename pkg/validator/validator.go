package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"safe-authenticator/pkg/address"
	"safe-authenticator/pkg/errno"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	hashExpr = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
)

// Init 在 gin 的 validator 上注册自定义规则，可重复调用
//
//	evm_address  十六进制地址，混合大小写时必须符合 EIP-55
//	tx_hash      0x + 64 位十六进制
//	token_amount 大于 0 的十进制金额
func Init() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("evm_address", func(fl validator.FieldLevel) bool {
			_, err := address.Parse(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("tx_hash", func(fl validator.FieldLevel) bool {
			return hashExpr.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("token_amount", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && d.IsPositive()
		})
	})
}

// GetErrorMsg translates validation errors into user-friendly messages
func GetErrorMsg(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "请求参数错误"
	}

	var errMsgs []string
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("%s 不能为空", field))
		case "evm_address":
			errMsgs = append(errMsgs, fmt.Sprintf("%s 不是有效的地址", field))
		case "tx_hash":
			errMsgs = append(errMsgs, fmt.Sprintf("%s 不是有效的交易哈希", field))
		case "token_amount":
			errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是大于 0 的金额", field))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("%s 校验失败 (%s)", field, e.Tag()))
		}
	}
	return strings.Join(errMsgs, "; ")
}

// ToErrno 绑定/校验错误统一转为 ErrValidation
func ToErrno(err error) error {
	return errno.ErrValidation.WithMessage(GetErrorMsg(err))
}
