// Package client 编排器访问下游服务的 HTTP 客户端
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"panelforge/internal/pkg/apperr"
	"panelforge/internal/pkg/ctxutil"
	httpresp "panelforge/internal/pkg/http"
	"panelforge/internal/pkg/jwt"
)

// RequestIDHeader 请求ID头，与服务端中间件一致
const RequestIDHeader = "X-Request-ID"

// Caller 编排器在服务间令牌中的身份
const Caller = "orchestrator"

// Client 单个下游服务的客户端
type Client struct {
	service    string
	baseURL    string
	jwt        *jwt.JWT // 为 nil 时不携带令牌
	httpClient *http.Client
}

// New 创建下游服务客户端
func New(service, baseURL string, jwtUtil *jwt.JWT, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		service:    service,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		jwt:        jwtUtil,
		httpClient: httpClient,
	}
}

// Service 服务名
func (c *Client) Service() string { return c.service }

// BaseURL 服务基础地址
func (c *Client) BaseURL() string { return c.baseURL }

// envelope 成功响应外壳
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Post 发送 JSON 请求并把 data 解码到 out
// 下游返回错误外壳时按状态码还原为 apperr，不做重试
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	op := c.service + " " + path

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", c.service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.decorate(ctx, req); err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperr.Upstream(op, fmt.Errorf("%s unreachable: %w", c.service, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Upstream(op, fmt.Errorf("read %s response: %w", c.service, err))
	}

	log.Debug().
		Str("service", c.service).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("downstream call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(op, c.service, resp.StatusCode, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return apperr.Upstream(op, fmt.Errorf("decode %s response: %w", c.service, err))
	}
	if env.Code != 0 {
		return apperr.Upstreamf(op, "%s returned code %d: %s", c.service, env.Code, env.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperr.Upstream(op, fmt.Errorf("decode %s data: %w", c.service, err))
	}
	return nil
}

// decorate 透传请求ID并签发服务间令牌
func (c *Client) decorate(ctx context.Context, req *http.Request) error {
	if rid, ok := ctxutil.GetRequestID(ctx); ok {
		req.Header.Set(RequestIDHeader, rid)
	}
	if c.jwt != nil {
		token, err := c.jwt.GenerateToken(Caller, c.service)
		if err != nil {
			return fmt.Errorf("sign token for %s: %w", c.service, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func decodeError(op, service string, status int, raw []byte) error {
	var e httpresp.ErrorResponse
	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &e); err == nil && e.Message != "" {
		message = e.Message
		if e.Detail != "" && e.Detail != e.Message {
			message += ": " + e.Detail
		}
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return apperr.FromStatus(op, status, service+": "+message, e.Fields)
}

// Probe 探测 /health，返回 online / error / offline
func (c *Client) Probe(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return "offline"
	}
	if rid, ok := ctxutil.GetRequestID(ctx); ok {
		req.Header.Set(RequestIDHeader, rid)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "offline"
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusOK {
		return "online"
	}
	return "error"
}
