package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gestion-notas/internal/service"
	"gestion-notas/pkg/response"
)

// SystemHandler 连通性与健康检查
type SystemHandler struct {
	svc service.SystemService
}

// NewSystemHandler 创建 SystemHandler
func NewSystemHandler(svc service.SystemService) *SystemHandler {
	return &SystemHandler{svc: svc}
}

// Probe GET /
// 执行一次数据库往返，返回 {conexion, resultado}
func (h *SystemHandler) Probe(c *gin.Context) {
	resultado, err := h.svc.Probe(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c, "Error de conexión a la base de datos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"conexion": "exitosa", "resultado": resultado})
}

// Health GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
