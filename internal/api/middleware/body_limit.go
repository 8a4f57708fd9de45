package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gestion-notas/pkg/response"
)

// BodyLimit 请求体大小限制中间件
// 超限在读取时触发；若 Handler 尚未写响应则返回 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, "Cuerpo de la solicitud demasiado grande")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.Writer.Written() {
			return
		}
		for _, e := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(e.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, "Cuerpo de la solicitud demasiado grande")
				return
			}
		}
	}
}
