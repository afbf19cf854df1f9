package config

import (
	"errors"
	"fmt"
	"time"
)

// 服务名称
const (
	ServiceOrchestrator = "orchestrator"
	ServiceScenes       = "scenes"
	ServiceImages       = "images"
	ServiceDialogue     = "dialogue"
	ServicePlacement    = "placement"
	ServiceRenderer     = "renderer"
)

// ServiceNames 所有可启动的服务（编排器在前）
var ServiceNames = []string{
	ServiceOrchestrator,
	ServiceScenes,
	ServiceImages,
	ServiceDialogue,
	ServicePlacement,
	ServiceRenderer,
}

// Config 应用配置根结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Services  ServicesConfig  `mapstructure:"services"`
	AI        AIConfig        `mapstructure:"ai"`
	Image     ImageConfig     `mapstructure:"image"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Placement PlacementConfig `mapstructure:"placement"`
	Render    RenderConfig    `mapstructure:"render"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// ServerConfig HTTP 服务器配置（所有服务共用）
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ServicesConfig 各服务的端口与访问地址
type ServicesConfig struct {
	Orchestrator EndpointConfig `mapstructure:"orchestrator"`
	Scenes       EndpointConfig `mapstructure:"scenes"`
	Images       EndpointConfig `mapstructure:"images"`
	Dialogue     EndpointConfig `mapstructure:"dialogue"`
	Placement    EndpointConfig `mapstructure:"placement"`
	Renderer     EndpointConfig `mapstructure:"renderer"`
}

// EndpointConfig 单个服务的监听端口与对外地址
type EndpointConfig struct {
	Port int    `mapstructure:"port"`
	URL  string `mapstructure:"url"` // 编排器调用该服务使用的基础地址
}

// Endpoint 按服务名获取端点配置
func (s *ServicesConfig) Endpoint(name string) (*EndpointConfig, error) {
	switch name {
	case ServiceOrchestrator:
		return &s.Orchestrator, nil
	case ServiceScenes:
		return &s.Scenes, nil
	case ServiceImages:
		return &s.Images, nil
	case ServiceDialogue:
		return &s.Dialogue, nil
	case ServicePlacement:
		return &s.Placement, nil
	case ServiceRenderer:
		return &s.Renderer, nil
	default:
		return nil, fmt.Errorf("unknown service: %s", name)
	}
}

// AIConfig 语言模型配置
type AIConfig struct {
	Provider string          `mapstructure:"provider"` // openai, azure, ark, gemini
	APIKey   string          `mapstructure:"api_key"`
	Model    string          `mapstructure:"model"`
	BaseURL  string          `mapstructure:"base_url"`
	Options  AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig AI 模型参数
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// ImageConfig 图片生成后端配置
type ImageConfig struct {
	Provider     string        `mapstructure:"provider"` // pollinations, fal, ark
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	DefaultStyle string        `mapstructure:"default_style"`
	Width        int           `mapstructure:"width"`
	Height       int           `mapstructure:"height"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// PipelineConfig 编排流程配置
type PipelineConfig struct {
	PanelCount    int           `mapstructure:"panel_count"`     // 默认格数（6）
	LinesPerPanel int           `mapstructure:"lines_per_panel"` // 每格最多台词数
	SegmentPolicy string        `mapstructure:"segment_policy"`  // normalize, strict
	DialogueMode  string        `mapstructure:"dialogue_mode"`   // llm, extract
	Concurrency   int           `mapstructure:"concurrency"`     // 并行处理的格数
	RateInterval  time.Duration `mapstructure:"rate_interval"`   // 上游调用间隔（0 表示不限速）
	StepTimeout   time.Duration `mapstructure:"step_timeout"`    // 单步调用超时
}

// PlacementConfig 气泡布局参数
type PlacementConfig struct {
	Margin   int `mapstructure:"margin"`
	MinWidth int `mapstructure:"min_width"`
	MaxWidth int `mapstructure:"max_width"`
}

// RenderConfig 气泡渲染参数
type RenderConfig struct {
	FontPath    string  `mapstructure:"font_path"` // 为空时使用内置字体
	FontSize    float64 `mapstructure:"font_size"`
	LineSpacing float64 `mapstructure:"line_spacing"`
	Padding     float64 `mapstructure:"padding"`
}

// CacheConfig 结果缓存配置
type CacheConfig struct {
	Type string        `mapstructure:"type"` // none, memory, redis
	TTL  time.Duration `mapstructure:"ttl"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"` // stdout, file, both
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 服务间认证配置
type AuthConfig struct {
	ServiceSecret string        `mapstructure:"service_secret"` // 为空时不启用服务间认证
	TokenExpiry   time.Duration `mapstructure:"token_expiry"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // local, oss
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
}

// LocalConfig 本地文件系统配置
type LocalConfig struct {
	BasePath      string `mapstructure:"base_path"`      // 基础路径
	BaseURL       string `mapstructure:"base_url"`       // 基础URL（用于生成访问URL）
	PresignExpiry int    `mapstructure:"presign_expiry"` // 预签名URL过期时间（秒）
}

// OSSConfig 阿里云OSS配置
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`          // OSS端点
	Bucket          string `mapstructure:"bucket"`            // Bucket名称
	AccessKeyID     string `mapstructure:"access_key_id"`     // AccessKey ID
	AccessKeySecret string `mapstructure:"access_key_secret"` // AccessKey Secret
	PresignExpiry   int    `mapstructure:"presign_expiry"`    // 预签名URL过期时间（秒）
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	for _, name := range ServiceNames {
		ep, _ := c.Services.Endpoint(name)
		if ep.Port <= 0 || ep.Port > 65535 {
			return fmt.Errorf("invalid port for service %s", name)
		}
	}

	if c.Pipeline.PanelCount < 1 || c.Pipeline.PanelCount > MaxPanelCount {
		return fmt.Errorf("pipeline.panel_count must be between 1 and %d", MaxPanelCount)
	}
	if c.Pipeline.LinesPerPanel < 0 || c.Pipeline.LinesPerPanel > MaxLinesPerPanel {
		return fmt.Errorf("pipeline.lines_per_panel must be between 0 and %d", MaxLinesPerPanel)
	}
	switch c.Pipeline.SegmentPolicy {
	case SegmentPolicyNormalize, SegmentPolicyStrict:
	default:
		return errors.New("pipeline.segment_policy must be normalize/strict")
	}
	switch c.Pipeline.DialogueMode {
	case DialogueModeLLM, DialogueModeExtract:
	default:
		return errors.New("pipeline.dialogue_mode must be llm/extract")
	}
	if c.Pipeline.Concurrency < 1 {
		return errors.New("pipeline.concurrency must be positive")
	}

	if c.Placement.MinWidth <= 0 || c.Placement.MaxWidth < c.Placement.MinWidth {
		return errors.New("invalid placement width range")
	}
	if c.Render.FontSize <= 0 {
		return errors.New("render.font_size must be positive")
	}

	switch c.Cache.Type {
	case "", "none", "memory", "redis":
	default:
		return fmt.Errorf("unsupported cache type: %s", c.Cache.Type)
	}

	return nil
}

// 流程相关常量
const (
	MaxPanelCount    = 12
	MaxLinesPerPanel = 6

	SegmentPolicyNormalize = "normalize"
	SegmentPolicyStrict    = "strict"

	DialogueModeLLM     = "llm"
	DialogueModeExtract = "extract"
)
