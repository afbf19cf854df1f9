package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"panelforge/internal/config"
)

// ErrMiss 缓存未命中
var ErrMiss = errors.New("cache miss")

// Cache 结果缓存接口
// 值以 JSON 形式保存，Get 未命中时返回 ErrMiss
type Cache interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Get(ctx context.Context, key string, dest any) error
	Close() error
}

// New 根据配置创建缓存，type 为空或 none 时返回 nil
func New(cfg *config.Config) (Cache, error) {
	switch cfg.Cache.Type {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryCache(cfg.Cache.TTL), nil
	case "redis":
		c, err := NewRedisCache(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis cache connected")
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Cache.Type)
	}
}

// Key 由若干片段生成缓存 key
func Key(prefix string, parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return prefix + hex.EncodeToString(h[:16])
}

// 常用 key 前缀
const (
	ScenesKeyPrefix   = "scenes:"
	DialogueKeyPrefix = "dialogue:"
)
