package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Storage 存储接口
// 所有产物（原始画面、合成画面、绘本页）都通过它读写
type Storage interface {
	// Upload 上传文件（服务端上传），返回访问URL
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)

	// Download 下载文件
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetPresignedDownloadURL 获取预签名下载URL
	GetPresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// Exists 检查文件是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// GetFileInfo 获取文件信息
	GetFileInfo(ctx context.Context, key string) (*FileInfo, error)

	// GetStorageType 获取存储类型
	GetStorageType() string
}

// FileInfo 文件信息
type FileInfo struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// StorageType 存储类型
type StorageType string

const (
	StorageTypeLocal StorageType = "local" // 本地文件系统
	StorageTypeOSS   StorageType = "oss"   // 阿里云OSS
)

// LocalPather 可以给出本地文件路径的存储（仅本地文件系统实现）
type LocalPather interface {
	LocalPath(key string) (string, error)
}

// ErrNotFound 文件不存在
var ErrNotFound = errors.New("file not found")

// ErrInvalidKey 非法的存储 key（如包含 ..）
var ErrInvalidKey = errors.New("invalid storage key")

// ReadAll 读取整个文件
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, error) {
	rc, err := s.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
