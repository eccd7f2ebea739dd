package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docbrain/docbrain/internal/service"
)

type DocumentHandler struct {
	indexer *service.Indexer
}

func NewDocumentHandler(indexer *service.Indexer) *DocumentHandler {
	return &DocumentHandler{indexer: indexer}
}

type processDocumentationRequest struct {
	URL string `json:"url"`
}

func (h *DocumentHandler) Process(c *gin.Context) {
	var req processDocumentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	report, err := h.indexer.Index(c.Request.Context(), req.URL)
	if err != nil {
		handleError(c, err)
		return
	}
	if report.Failed > 0 {
		logutil.GetLogger(c.Request.Context()).Warn("documentation indexed with failures",
			zap.String("url", req.URL),
			zap.Int("indexed", report.Indexed),
			zap.Int("failed", report.Failed),
		)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Documentation processed successfully"})
}
