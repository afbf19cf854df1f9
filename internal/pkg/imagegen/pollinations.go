package imagegen

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPollinationsURL 免费、无需鉴权的 Pollinations 接口
const DefaultPollinationsURL = "https://image.pollinations.ai"

// Pollinations 免费后端：GET /prompt/{prompt}?width=&height=&nologo=true
type Pollinations struct {
	baseURL    string
	httpClient *http.Client
}

// NewPollinations 创建 Pollinations 后端
func NewPollinations(baseURL string, httpClient *http.Client) *Pollinations {
	if baseURL == "" {
		baseURL = DefaultPollinationsURL
	}
	return &Pollinations{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Name 后端名称
func (p *Pollinations) Name() string { return ProviderPollinations }

// Generate 生成图片
func (p *Pollinations) Generate(ctx context.Context, req Request) (*Result, error) {
	q := url.Values{}
	q.Set("width", strconv.Itoa(req.Width))
	q.Set("height", strconv.Itoa(req.Height))
	q.Set("nologo", "true")

	imageURL := fmt.Sprintf("%s/prompt/%s?%s", p.baseURL, url.PathEscape(req.Prompt), q.Encode())

	data, err := download(ctx, p.httpClient, imageURL)
	if err != nil {
		return nil, fmt.Errorf("pollinations: %w", err)
	}
	return &Result{Data: data, SourceURL: imageURL}, nil
}
