package errno

import (
	"errors"
	"fmt"
)

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
	cause   error
}

func (e Errno) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap 返回被包装的底层错误
func (e Errno) Unwrap() error {
	return e.cause
}

// Is 按错误码匹配，使 errors.Is(err, errno.ErrCrypto) 对包装后的错误同样成立
func (e Errno) Is(target error) bool {
	var t Errno
	switch typed := target.(type) {
	case Errno:
		t = typed
	case *Errno:
		t = *typed
	default:
		return false
	}
	return e.Code == t.Code
}

// Wrap 返回携带 cause 的同码错误
func (e Errno) Wrap(err error) Errno {
	return Errno{Code: e.Code, Message: e.Message, cause: err}
}

// WithMessage 返回同码但附加说明的错误
func (e Errno) WithMessage(msg string) Errno {
	return Errno{Code: e.Code, Message: e.Message + ": " + msg, cause: e.cause}
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var typed Errno
	if errors.As(err, &typed) {
		return typed.Code, err.Error()
	}
	var ptr *Errno
	if errors.As(err, &ptr) {
		return ptr.Code, err.Error()
	}
	return InternalServerError.Code, err.Error()
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
)

// Authenticator Errors (30000+)
var (
	ErrStorage        = Errno{Code: 30001, Message: "Storage error"}
	ErrCrypto         = Errno{Code: 30002, Message: "Crypto error"}
	ErrChainRead      = Errno{Code: 30003, Message: "Chain read error"}
	ErrSubmission     = Errno{Code: 30004, Message: "Submission rejected"}
	ErrValidation     = Errno{Code: 30005, Message: "Validation error"}
	ErrBackend        = Errno{Code: 30006, Message: "Backend unavailable"}
	ErrNotInitialized = Errno{Code: 30007, Message: "Vault not initialized"}
)
