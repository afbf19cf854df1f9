package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"panelforge/internal/ai/component"
	"panelforge/internal/config"
)

// ErrMissingAPIKey 未配置 ai.api_key
var ErrMissingAPIKey = errors.New("ai.api_key is not configured")

// TextGenerator 文本生成能力
// 场景切分与台词生成只需要“提示词 -> 文本”
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewTextGenerator 根据配置创建文本生成器
// 未配置 API key 时不报错，调用时才返回 ErrMissingAPIKey
func NewTextGenerator(ctx context.Context, cfg *config.AIConfig) (TextGenerator, error) {
	if cfg.APIKey == "" {
		log.Warn().Str("provider", cfg.Provider).Msg("AI API key not configured, generation requests will fail")
		return missingKey{}, nil
	}

	if cfg.Provider == "gemini" {
		return NewGeminiGenerator(ctx, cfg)
	}

	chatModel, err := component.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewEinoGenerator(chatModel), nil
}

// EinoGenerator 基于 eino ChatModel 的文本生成器（openai, azure, ark）
type EinoGenerator struct {
	chatModel model.ChatModel
}

// NewEinoGenerator 创建基于 Eino 的文本生成器
func NewEinoGenerator(chatModel model.ChatModel) *EinoGenerator {
	return &EinoGenerator{chatModel: chatModel}
}

// Generate 根据提示词生成文本
func (g *EinoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.chatModel == nil {
		return "", fmt.Errorf("chatModel is required")
	}

	messages := []*schema.Message{
		schema.UserMessage(prompt),
	}

	response, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if response.Content == "" {
		return "", fmt.Errorf("empty response from chat model")
	}
	return response.Content, nil
}

type missingKey struct{}

func (missingKey) Generate(context.Context, string) (string, error) {
	return "", ErrMissingAPIKey
}

// GeneratorFunc 函数适配器，主要用于测试
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate 实现 TextGenerator
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
