package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
type RegisterRequest struct {
	Nombre   string `json:"nombre"   binding:"required,notblank,max=100"`
	Email    string `json:"email"    binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,strongpassword"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse 用户公开信息（不含密码哈希）
type UserResponse struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

// LoginResponse 登录成功响应
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // Token 有效期（秒）
	User      UserResponse `json:"user"`
}
