package chain

import (
	"errors"
	"fmt"

	"safe-authenticator/pkg/errno"
)

var (
	errMissingResponse = errors.New("no response for request id")
	errEmptyResult     = errors.New("empty result")
)

// ReadError 某条批量请求读取失败，携带请求 ID 与原始负载
// errors.Is(err, errno.ErrChainRead) 成立
type ReadError struct {
	ID      int
	Method  string
	Payload string
	Err     error
}

func (e *ReadError) Error() string {
	if e.Payload != "" {
		return fmt.Sprintf("chain read %s (id=%d): %v, payload=%s", e.Method, e.ID, e.Err, e.Payload)
	}
	return fmt.Sprintf("chain read %s (id=%d): %v", e.Method, e.ID, e.Err)
}

func (e *ReadError) Unwrap() []error {
	if e.Err == nil {
		return []error{errno.ErrChainRead}
	}
	return []error{errno.ErrChainRead, e.Err}
}
