package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
)

// 火山引擎 Ark 默认值
const (
	DefaultArkURL        = "https://ark.cn-beijing.volces.com/api/v3"
	DefaultArkImageModel = "doubao-seedream-3-0-t2i-250415"
)

// Ark 火山引擎 Ark 图片生成（b64_json 返回）
type Ark struct {
	client *arkruntime.Client
	model  string
	apiKey string
}

// NewArk 创建 Ark 后端；key 在调用时检查
func NewArk(baseURL, modelName, apiKey string) *Ark {
	if baseURL == "" {
		baseURL = DefaultArkURL
	}
	if modelName == "" {
		modelName = DefaultArkImageModel
	}
	a := &Ark{model: modelName, apiKey: apiKey}
	if apiKey != "" {
		a.client = arkruntime.NewClientWithApiKey(apiKey, arkruntime.WithBaseUrl(baseURL))
	}
	return a
}

// Name 后端名称
func (a *Ark) Name() string { return ProviderArk }

// Generate 生成图片
func (a *Ark) Generate(ctx context.Context, req Request) (*Result, error) {
	if a.client == nil {
		return nil, ErrMissingAPIKey
	}

	size := fmt.Sprintf("%dx%d", req.Width, req.Height)
	responseFormat := "b64_json"
	watermark := false

	output, err := a.client.GenerateImages(ctx, model.GenerateImagesRequest{
		Model:          a.model,
		Prompt:         req.Prompt,
		Size:           &size,
		ResponseFormat: &responseFormat,
		Watermark:      &watermark,
	})
	if err != nil {
		return nil, fmt.Errorf("ark: GenerateImages: %w", err)
	}

	if len(output.Data) == 0 || output.Data[0].B64Json == nil {
		return nil, fmt.Errorf("ark: no b64_json in response")
	}

	data, err := base64.StdEncoding.DecodeString(*output.Data[0].B64Json)
	if err != nil {
		return nil, fmt.Errorf("ark: decode image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("ark: empty image")
	}
	return &Result{Data: data}, nil
}
