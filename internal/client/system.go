package client

import (
	"context"
	"net/http"
)

// Probe 调用 GET /，返回服务端数据库往返结果
func (c *Client) Probe(ctx context.Context) (int, error) {
	var resp struct {
		Conexion  string `json:"conexion"`
		Resultado int    `json:"resultado"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Resultado, nil
}

// Health 调用 GET /health
func (c *Client) Health(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/health", nil, nil, nil)
}
