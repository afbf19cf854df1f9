package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"panelforge/internal/config"
	"panelforge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [service|all]",
	Short: "Start one service, or all of them",
	Long: `Start a Panelforge service: orchestrator, scenes, images, dialogue,
placement or renderer. "all" (the default) starts every service in this process.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: append([]string{"all"}, config.ServiceNames...),
	RunE:      runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()

	// Server flags
	flags.StringP("host", "H", "0.0.0.0", "server host")
	flags.String("mode", "release", "server mode (debug/release/test)")

	// AI flags
	flags.String("ai-provider", "openai", "AI provider (openai/azure/ark/gemini)")
	flags.String("ai-model", "gpt-4o-mini", "AI model name")
	flags.String("ai-api-key", "", "AI API key (recommend using env: PANELFORGE_AI_API_KEY)")

	// Image flags
	flags.String("image-provider", "pollinations", "image provider (pollinations/fal/ark)")

	// Log flags
	flags.String("log-level", "info", "log level (trace/debug/info/warn/error/fatal)")
	flags.String("log-format", "console", "log format (json/console)")

	// Bind flags to viper
	_ = viper.BindPFlag("server.host", flags.Lookup("host"))
	_ = viper.BindPFlag("server.mode", flags.Lookup("mode"))
	_ = viper.BindPFlag("ai.provider", flags.Lookup("ai-provider"))
	_ = viper.BindPFlag("ai.model", flags.Lookup("ai-model"))
	_ = viper.BindPFlag("ai.api_key", flags.Lookup("ai-api-key"))
	_ = viper.BindPFlag("image.provider", flags.Lookup("image-provider"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	// Validate config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	names := config.ServiceNames
	if len(args) == 1 && args[0] != "all" {
		if !slices.Contains(config.ServiceNames, args[0]) {
			return fmt.Errorf("unknown service %q, want one of: all, %s", args[0], strings.Join(config.ServiceNames, ", "))
		}
		names = []string{args[0]}
	}

	// Create servers
	servers := make([]*server.Server, 0, len(names))
	for _, name := range names {
		srv, err := server.New(cfg, name)
		if err != nil {
			for _, s := range servers {
				s.Close()
			}
			return fmt.Errorf("failed to create %s server: %w", name, err)
		}
		servers = append(servers, srv)
	}

	// Graceful shutdown：根 context 在收到信号时取消
	ctx := cmd.Context()

	log.Info().
		Strs("services", names).
		Str("mode", cfg.Server.Mode).
		Msg("starting servers")

	// 任一服务异常退出时关闭其余服务
	g, ctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			return srv.Run(ctx)
		})
	}
	return g.Wait()
}
