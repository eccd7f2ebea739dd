package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docbrain/docbrain/internal/vectorstore"
)

type HealthHandler struct {
	store vectorstore.Store
}

func NewHealthHandler(store vectorstore.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		fail(c, http.StatusServiceUnavailable, "vector index unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "index": stats})
}
