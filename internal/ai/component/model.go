package component

import (
	"context"
	"fmt"

	arkext "github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"panelforge/internal/config"
)

// 各 Provider 的默认值
const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultArkModel    = "doubao-seed-1-6-flash-250615"
	DefaultArkBaseURL  = "https://ark.cn-beijing.volces.com/api/v3"
	azureAPIVersion    = "2024-06-01"
)

// NewChatModel 创建 ChatModel
// 支持 openai, azure, ark；gemini 由 ai.GeminiGenerator 处理
func NewChatModel(ctx context.Context, cfg *config.AIConfig) (model.ChatModel, error) {
	switch cfg.Provider {
	case "openai", "":
		return newOpenAIChatModel(ctx, cfg, false)
	case "azure":
		return newOpenAIChatModel(ctx, cfg, true)
	case "ark":
		return newArkChatModel(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

// sampling 模型采样参数，未配置的项返回 nil
type sampling struct {
	temperature *float32
	topP        *float32
	maxTokens   *int
}

func samplingOf(opts config.AIOptionsConfig) sampling {
	var s sampling
	if opts.Temperature > 0 {
		t := float32(opts.Temperature)
		s.temperature = &t
	}
	if opts.TopP > 0 {
		p := float32(opts.TopP)
		s.topP = &p
	}
	if opts.MaxTokens > 0 {
		n := opts.MaxTokens
		s.maxTokens = &n
	}
	return s
}

// newOpenAIChatModel 创建 OpenAI / Azure OpenAI ChatModel
func newOpenAIChatModel(ctx context.Context, cfg *config.AIConfig, byAzure bool) (model.ChatModel, error) {
	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultOpenAIModel
	}

	s := samplingOf(cfg.Options)
	modelCfg := &openai.ChatModelConfig{
		Model:       modelName,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL, // 代理或兼容 API
		Temperature: s.temperature,
		TopP:        s.topP,
		MaxTokens:   s.maxTokens,
	}

	if byAzure {
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("azure provider requires ai.base_url")
		}
		modelCfg.ByAzure = true
		modelCfg.APIVersion = azureAPIVersion
	}

	return openai.NewChatModel(ctx, modelCfg)
}

// newArkChatModel 创建 Ark ChatModel（使用 eino-ext 模块）
func newArkChatModel(ctx context.Context, cfg *config.AIConfig) (model.ChatModel, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultArkBaseURL
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultArkModel
	}

	s := samplingOf(cfg.Options)
	return arkext.NewChatModel(ctx, &arkext.ChatModelConfig{
		Model:       modelName,
		APIKey:      cfg.APIKey,
		BaseURL:     baseURL,
		Temperature: s.temperature,
		TopP:        s.topP,
		MaxTokens:   s.maxTokens,
	})
}
