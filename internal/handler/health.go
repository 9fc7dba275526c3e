package handler

import (
	"time"

	"safe-authenticator/internal/handler/response"
	"safe-authenticator/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HealthCheck godoc
// @Summary Check system health
// @Description Get the current health status of the server
// @Tags system
// @Produce  json
// @Success 200 {object} response.Response
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "UP",
		"version": Version,
		"service": logger.ServiceName,
		"uptime":  time.Since(startedAt).Truncate(time.Second).String(),
	})
}

// Version 构建时可通过 -ldflags 覆盖
var Version = "1.0.0"

var startedAt = time.Now()
