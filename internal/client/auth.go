package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gestion-notas/internal/dto"
)

// Register 注册新用户
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	var resp struct {
		User dto.UserResponse `json:"user"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("registro: %w", err)
	}
	return &resp.User, nil
}

// Login 登录并返回新会话
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*Session, error) {
	var resp dto.LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login: respuesta sin token")
	}
	return &Session{
		Token:     resp.Token,
		ExpiresAt: time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		User:      resp.User,
	}, nil
}

// Me 查询当前会话对应的用户
func (c *Client) Me(ctx context.Context, sess *Session) (*dto.UserResponse, error) {
	var resp struct {
		User dto.UserResponse `json:"user"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/auth/me", sess, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}
