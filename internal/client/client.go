package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnauthorized 服务端返回 401 或本地会话已过期，调用方应清除持久化会话
var ErrUnauthorized = errors.New("sesión inválida o expirada")

// ErrNoSession 会话中没有令牌
var ErrNoSession = errors.New("no hay sesión activa")

// APIError 服务端返回的非 2xx 响应
// Message 已合并字段级错误（"msg: path: msg, path: msg"）
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("error del servidor (%d): %s", e.Status, e.Message)
}

// StatusOf 取出错误中的 HTTP 状态码，非 APIError 返回 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	return 0
}

// Client 成绩管理 API 的 HTTP 客户端
// 不持有任何会话状态，需认证的方法显式接收 *Session
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient 创建 API 客户端
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// errorBody 服务端错误响应体
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Errores []struct {
		Path  string `json:"path"`
		Param string `json:"param"`
		Msg   string `json:"msg"`
	} `json:"errores"`
}

// message 合并 message 与字段错误
func (b *errorBody) message(fallback string) string {
	msg := b.Message
	if msg == "" {
		msg = b.Error
	}
	if msg == "" {
		msg = fallback
	}
	if len(b.Errores) == 0 {
		return msg
	}
	details := make([]string, 0, len(b.Errores))
	for _, e := range b.Errores {
		path := e.Path
		if path == "" {
			path = e.Param
		}
		details = append(details, path+": "+e.Msg)
	}
	return msg + ": " + strings.Join(details, ", ")
}

// authorize 为需认证的请求设置 Bearer 头
func authorize(req *http.Request, sess *Session) error {
	if sess.Token == "" {
		return ErrNoSession
	}
	if sess.Expired() {
		return ErrUnauthorized
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	return nil
}

// doRequest 发送 JSON 请求并解码 JSON 响应
// sess 为 nil 时按公开接口处理
func (c *Client) doRequest(ctx context.Context, method, path string, sess *Session, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializar petición: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("crear petición: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	respBody, _, err := c.send(req, sess)
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decodificar respuesta: %w", err)
		}
	}
	return nil
}

// send 执行请求并统一处理非 2xx 响应
// sess 非 nil 时附带 Bearer 头，401 转为 ErrUnauthorized
func (c *Client) send(req *http.Request, sess *Session) ([]byte, http.Header, error) {
	if sess != nil {
		if err := authorize(req, sess); err != nil {
			return nil, nil, err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("petición fallida: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("leer respuesta: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && sess != nil {
		return nil, nil, ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fallback := http.StatusText(resp.StatusCode)
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil {
			return nil, nil, &APIError{Status: resp.StatusCode, Message: eb.message(fallback)}
		}
		return nil, nil, &APIError{Status: resp.StatusCode, Message: fallback}
	}

	return respBody, resp.Header, nil
}
