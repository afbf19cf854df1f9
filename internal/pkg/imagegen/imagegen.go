package imagegen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"panelforge/internal/config"
)

// Provider 名称
const (
	ProviderPollinations = "pollinations"
	ProviderFal          = "fal"
	ProviderArk          = "ark"
)

// ErrMissingAPIKey 付费后端未配置 image.api_key
var ErrMissingAPIKey = errors.New("image.api_key is not configured")

// Request 生成请求（提示词已带画风前缀）
type Request struct {
	Prompt string
	Width  int
	Height int
}

// Result 生成结果
type Result struct {
	Data      []byte
	SourceURL string // 后端给出的原始地址（base64 后端为空）
}

// Provider 图片生成后端
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Result, error)
}

// New 根据配置创建后端，不做故障转移
func New(cfg *config.ImageConfig) (Provider, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	switch cfg.Provider {
	case ProviderPollinations, "":
		return NewPollinations(cfg.BaseURL, httpClient), nil
	case ProviderFal:
		return NewFal(cfg.BaseURL, cfg.Model, cfg.APIKey, httpClient), nil
	case ProviderArk:
		return NewArk(cfg.BaseURL, cfg.Model, cfg.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported image provider: %s", cfg.Provider)
	}
}

// StatusError 后端返回非 2xx
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// readImage 读取图片响应体，检查状态码与内容
func readImage(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty image body")
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") &&
		!strings.HasPrefix(ct, "application/octet-stream") {
		return nil, fmt.Errorf("unexpected content type %q", ct)
	}
	return data, nil
}

// download 下载后端返回的图片地址
func download(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	return readImage(resp)
}
