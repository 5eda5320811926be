package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterOptions struct {
	MaxMultipartMemory int64
	RequestTimeout     time.Duration
}

// NewRouter wires the middleware chain and the notice routes.
func NewRouter(noticeHandler *NoticeHandler, logger *zap.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(logger), Timeout(opts.RequestTimeout))

	if opts.MaxMultipartMemory > 0 {
		router.MaxMultipartMemory = opts.MaxMultipartMemory
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Interest Notice Validator",
		})
	})

	api := router.Group("/api/v1")
	{
		notices := api.Group("/notices")
		{
			notices.POST("/validate", noticeHandler.ValidateNotice)
			notices.POST("/validate-text", noticeHandler.ValidateText)
			notices.POST("/validate-fields", noticeHandler.ValidateFields)
			notices.POST("/report", noticeHandler.Report)
		}
	}

	return router
}
