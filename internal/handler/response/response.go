package response

import (
	"errors"
	"net/http"

	"safe-authenticator/pkg/errno"
	"safe-authenticator/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response defines the standard JSON structure
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"msg"`
	Data    interface{} `json:"data"`
}

// Success returns a success response with data
func Success(c *gin.Context, data interface{}) {
	if data == nil {
		data = gin.H{} // Return empty object instead of null
	}
	c.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Error 业务错误码放在 body，HTTP 状态按错误类别区分
func Error(c *gin.Context, err error) {
	code, msg := errno.Decode(err)
	status := Status(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Int("code", code), zap.Error(err))
	}
	c.JSON(status, Response{
		Code:    code,
		Message: msg,
		Data:    gin.H{},
	})
}

// Status 错误到 HTTP 状态码的映射
func Status(err error) int {
	switch {
	case errors.Is(err, errno.ErrBind), errors.Is(err, errno.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errno.ErrNotInitialized):
		return http.StatusConflict
	case errors.Is(err, errno.ErrCrypto):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errno.ErrChainRead), errors.Is(err, errno.ErrBackend), errors.Is(err, errno.ErrSubmission):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
