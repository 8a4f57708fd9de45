package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"gestion-notas/internal/api/middleware"
	apperrors "gestion-notas/pkg/errors"
	"gestion-notas/pkg/response"
	"gestion-notas/pkg/validation"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.Unauthorized(c, "No autenticado")
		return 0, false
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		response.Unauthorized(c, "No autenticado")
		return 0, false
	}
	return id, true
}

// ParseIDParam 解析路径中的正整数 ID，非法时写入 400
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.ValidationFailed(c, "Parámetros inválidos", []response.FieldError{
			{Path: name, Msg: "Debe ser un entero mayor o igual a 1"},
		})
		return 0, false
	}
	return id, true
}

// bindJSON 绑定并校验请求体，失败时写入带字段详情的 400
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.ValidationFailed(c, "Datos inválidos", validation.FieldErrors(err))
		return false
	}
	return true
}

// bindOptionalJSON 同 bindJSON，但空请求体按 {} 处理
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return validateBody(c, obj)
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return validateBody(c, obj)
		}
		response.ValidationFailed(c, "Datos inválidos", validation.FieldErrors(err))
		return false
	}
	return true
}

func validateBody(c *gin.Context, obj interface{}) bool {
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		response.ValidationFailed(c, "Datos inválidos", validation.FieldErrors(err))
		return false
	}
	return true
}

// respondError 按错误分类映射 HTTP 状态码；未分类错误记为 500 且不暴露细节
func respondError(c *gin.Context, err error) {
	msg := apperrors.Message(err, "")
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		response.BadRequest(c, msg)
	case errors.Is(err, apperrors.ErrUnauthenticated):
		response.Unauthorized(c, msg)
	case errors.Is(err, apperrors.ErrForbidden):
		response.Forbidden(c, msg)
	case errors.Is(err, apperrors.ErrNotFound):
		response.NotFound(c, msg)
	case errors.Is(err, apperrors.ErrConflict):
		response.Conflict(c, msg)
	default:
		_ = c.Error(err)
		response.InternalError(c, "")
	}
}
