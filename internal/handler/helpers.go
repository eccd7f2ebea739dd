package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docbrain/docbrain/internal/pkg/apperr"
)

// fail writes the error body shared by every endpoint.
func fail(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}

// handleError maps the error taxonomy onto HTTP statuses: caller-fault
// errors (bad input, bad source document) are 4xx, upstream provider
// failures are 502, anything unexpected is 500.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case apperr.IsCallerFault(err):
		fail(c, http.StatusBadRequest, apperr.Detail(err))
	case apperr.IsUpstreamFault(err):
		fail(c, http.StatusBadGateway, apperr.Detail(err))
	default:
		fail(c, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
