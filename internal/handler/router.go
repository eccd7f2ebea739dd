package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Documents *DocumentHandler
	Chat      *ChatHandler
	Health    *HealthHandler
}

func RegisterRoutes(r gin.IRouter, deps RouterDeps) {
	r.POST("/process-documentation", deps.Documents.Process)
	r.POST("/chat", deps.Chat.Chat)
	r.GET("/healthz", deps.Health.Healthz)
}
