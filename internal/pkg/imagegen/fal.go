package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// fal.ai 默认值
const (
	DefaultFalURL   = "https://fal.run"
	DefaultFalModel = "fal-ai/flux-pro"
)

// Fal 付费后端，返回图片地址后再下载
type Fal struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewFal 创建 fal.ai 后端；key 在调用时检查
func NewFal(baseURL, model, apiKey string, httpClient *http.Client) *Fal {
	if baseURL == "" {
		baseURL = DefaultFalURL
	}
	if model == "" {
		model = DefaultFalModel
	}
	return &Fal{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      strings.Trim(model, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Name 后端名称
func (f *Fal) Name() string { return ProviderFal }

type falImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type falRequest struct {
	Prompt    string        `json:"prompt"`
	ImageSize *falImageSize `json:"image_size,omitempty"`
}

type falResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// Generate 生成图片
func (f *Fal) Generate(ctx context.Context, req Request) (*Result, error) {
	if f.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	payload := falRequest{Prompt: req.Prompt}
	if req.Width > 0 && req.Height > 0 {
		payload.ImageSize = &falImageSize{Width: req.Width, Height: req.Height}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/"+f.model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("fal: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Key "+f.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fal: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fal: %w", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))})
	}

	var out falResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("fal: decode response: %w", err)
	}
	if len(out.Images) == 0 || out.Images[0].URL == "" {
		return nil, fmt.Errorf("fal: no image in response")
	}

	data, err := download(ctx, f.httpClient, out.Images[0].URL)
	if err != nil {
		return nil, fmt.Errorf("fal: %w", err)
	}
	return &Result{Data: data, SourceURL: out.Images[0].URL}, nil
}
