package routes

import (
	"safe-authenticator/internal/handler"

	"github.com/gin-gonic/gin"
)

func RegisterSafeRoutes(rg *gin.RouterGroup, h *handler.SafeHandler) {
	rg.GET("/device", h.Device)

	safes := rg.Group("/safes/:address")
	{
		safes.GET("", h.SafeInfo)
		safes.GET("/transactions", h.Transactions)
		safes.POST("/transactions/:hash/confirm", h.Confirm)
		safes.GET("/limits", h.Limits)
		safes.POST("/limits/:token/transfers", h.Transfer)
	}
}
