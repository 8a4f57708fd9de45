package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"gestion-notas/pkg/jwt"
	"gestion-notas/pkg/response"
)

// 上下文键
const (
	ContextUserID = "user_id"
	ContextRoles  = "roles"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Token
// 缺失、格式错误、签名/算法不符或已过期一律 401
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Token requerido")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, "Formato de autorización inválido")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Unauthorized(c, "Token inválido o expirado")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRoles, claims.Roles)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 声明中的角色与 allowedRoles 无交集时返回 403
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ContextRoles)
		if !exists {
			response.Unauthorized(c, "No autenticado")
			c.Abort()
			return
		}

		roles, _ := v.([]string)
		for _, have := range roles {
			for _, want := range allowedRoles {
				if have == want {
					c.Next()
					return
				}
			}
		}

		response.Forbidden(c, "Acceso denegado")
		c.Abort()
	}
}
