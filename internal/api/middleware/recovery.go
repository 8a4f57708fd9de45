package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gestion-notas/pkg/response"
)

// Recovery 捕获 panic，记录堆栈，返回统一的 500 JSON
// 堆栈只写日志，不返回客户端
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					zap.String("request_id", GetRequestID(c)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				response.InternalError(c, "")
				c.Abort()
			}
		}()
		c.Next()
	}
}
