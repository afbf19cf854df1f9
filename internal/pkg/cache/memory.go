package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache 进程内缓存，单进程部署或测试时使用
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache 创建进程内缓存
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &MemoryCache{c: gocache.New(defaultTTL, 2*defaultTTL)}
}

// Set 设置缓存，expiration 为 0 时使用默认过期时间
func (m *MemoryCache) Set(_ context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if expiration <= 0 {
		expiration = gocache.DefaultExpiration
	}
	m.c.Set(key, data, expiration)
	return nil
}

// Get 获取缓存
func (m *MemoryCache) Get(_ context.Context, key string, dest any) error {
	v, ok := m.c.Get(key)
	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(v.([]byte), dest)
}

// Close 清空缓存
func (m *MemoryCache) Close() error {
	m.c.Flush()
	return nil
}
