package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"panelforge/internal/config"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator 基于 Google GenAI 的文本生成器
type GeminiGenerator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiGenerator 创建 Gemini 文本生成器
func NewGeminiGenerator(ctx context.Context, cfg *config.AIConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	genCfg := &genai.GenerateContentConfig{}
	if cfg.Options.Temperature > 0 {
		genCfg.Temperature = genai.Ptr(float32(cfg.Options.Temperature))
	}
	if cfg.Options.TopP > 0 {
		genCfg.TopP = genai.Ptr(float32(cfg.Options.TopP))
	}
	if cfg.Options.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(cfg.Options.MaxTokens)
	}

	return &GeminiGenerator{
		client: client,
		model:  modelName,
		config: genCfg,
	}, nil
}

// Generate 根据提示词生成文本
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, g.config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}
