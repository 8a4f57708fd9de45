package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError 字段级校验错误（与前端约定：path + msg）
type FieldError struct {
	Path string `json:"path"`
	Msg  string `json:"msg"`
}

// Body 统一响应结构
// 成功时 Success=true，业务数据以顶层键返回（如 alumnos、token）
type Body map[string]interface{}

func envelope(success bool, payload gin.H) Body {
	body := Body{"success": success}
	for k, v := range payload {
		body[k] = v
	}
	return body
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusOK, envelope(true, payload))
}

// Created 201 创建成功
func Created(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusCreated, envelope(true, payload))
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, envelope(false, gin.H{"message": message}))
}

// ValidationFailed 400 带字段详情
func ValidationFailed(c *gin.Context, message string, fields []FieldError) {
	payload := gin.H{"message": message}
	if len(fields) > 0 {
		payload["errores"] = fields
	}
	c.JSON(http.StatusBadRequest, envelope(false, payload))
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError 500，不向客户端暴露内部细节
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Error interno del servidor"
	}
	Error(c, http.StatusInternalServerError, message)
}
