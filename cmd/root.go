package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"panelforge/internal/config"
	"panelforge/internal/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "panelforge",
	Short: "Panelforge - story to comic panels",
	Long: `Panelforge turns a short story into a six-panel comic.
It runs as a set of HTTP services: scene splitting, image generation,
dialogue, bubble placement, bubble rendering and an orchestrator.`,
	SilenceUsage: true,
}

// Execute runs the root command; ctx is cancelled on SIGINT/SIGTERM
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./configs/config.yaml)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.panelforge")
	}

	// 环境变量设置，如 PANELFORGE_AI_API_KEY
	viper.SetEnvPrefix("PANELFORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 设置默认值
	setDefaults()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	// 反序列化到结构体
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	log.Debug().Str("config_file", viper.ConfigFileUsed()).Msg("configuration loaded")
}

func setDefaults() {
	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "10m")

	// Services：编排器 8000，其余依次 8001-8005
	for i, name := range config.ServiceNames {
		port := 8000 + i
		viper.SetDefault("services."+name+".port", port)
		viper.SetDefault("services."+name+".url", fmt.Sprintf("http://localhost:%d", port))
	}

	// AI
	viper.SetDefault("ai.provider", "openai")
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.options.temperature", 0.7)
	viper.SetDefault("ai.options.max_tokens", 2048)
	viper.SetDefault("ai.options.top_p", 1.0)

	// Image
	viper.SetDefault("image.provider", "pollinations")
	viper.SetDefault("image.default_style", "manga")
	viper.SetDefault("image.width", 768)
	viper.SetDefault("image.height", 768)
	viper.SetDefault("image.timeout", "120s")

	// Pipeline
	viper.SetDefault("pipeline.panel_count", 6)
	viper.SetDefault("pipeline.lines_per_panel", 2)
	viper.SetDefault("pipeline.segment_policy", config.SegmentPolicyNormalize)
	viper.SetDefault("pipeline.dialogue_mode", config.DialogueModeLLM)
	viper.SetDefault("pipeline.concurrency", 3)
	viper.SetDefault("pipeline.rate_interval", "0s")
	viper.SetDefault("pipeline.step_timeout", "3m")

	// Placement / Render
	viper.SetDefault("placement.margin", 12)
	viper.SetDefault("placement.min_width", 120)
	viper.SetDefault("placement.max_width", 320)
	viper.SetDefault("render.font_size", 20)
	viper.SetDefault("render.line_spacing", 5)
	viper.SetDefault("render.padding", 20)

	// Cache
	viper.SetDefault("cache.type", "memory")
	viper.SetDefault("cache.ttl", "1h")

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.time_format", "RFC3339")

	// MongoDB (uri 为空时不持久化绘本)
	viper.SetDefault("mongo.database", "panelforge")
	viper.SetDefault("mongo.max_pool_size", 100)
	viper.SetDefault("mongo.min_pool_size", 10)

	// Redis
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	// Auth
	viper.SetDefault("auth.token_expiry", "5m")

	// Storage
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local.base_path", "output")
	viper.SetDefault("storage.local.base_url", "http://localhost:8000/download")
	viper.SetDefault("storage.local.presign_expiry", 3600)
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return cfg
}
