package client

import (
	"time"

	"gestion-notas/internal/dto"
)

// Session 登录后获得的会话，由调用方持有并显式传入每次调用
type Session struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      dto.UserResponse `json:"user"`
}

// Expired 会话是否已过期；零值 ExpiresAt 视为已过期
func (s *Session) Expired() bool {
	return s.ExpiresAt.IsZero() || !time.Now().Before(s.ExpiresAt)
}

// Remaining 距离过期的剩余时长，已过期返回 0
func (s *Session) Remaining() time.Duration {
	if s.Expired() {
		return 0
	}
	return time.Until(s.ExpiresAt)
}
