package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"panelforge/internal/config"
)

// Init 初始化全局日志
func Init(cfg *config.LogConfig) error {
	// 设置日志级别
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// 设置时间格式
	switch cfg.TimeFormat {
	case "Unix":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	case "UnixMs":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	default:
		zerolog.TimeFieldFormat = time.RFC3339
	}

	var stdout io.Writer = os.Stdout
	if cfg.Format == "console" {
		stdout = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	// 设置输出（文件始终写 JSON，便于检索）
	var output io.Writer
	switch cfg.Output {
	case "file", "both":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return err
		}
		if cfg.Output == "both" {
			output = zerolog.MultiLevelWriter(stdout, file)
		} else {
			output = file
		}
	default:
		output = stdout
	}

	// 设置全局 logger
	log.Logger = zerolog.New(output).With().Timestamp().Caller().Logger()

	return nil
}

// openLogFile 打开日志文件，目录不存在时自动创建
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		path = filepath.Join("logs", "panelforge.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
}

// Get 获取全局 logger
func Get() zerolog.Logger {
	return log.Logger
}

// ForService 获取带服务名字段的 logger
func ForService(name string) zerolog.Logger {
	return log.Logger.With().Str("service", name).Logger()
}
