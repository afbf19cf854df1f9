package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"panelforge/internal/pkg/apperr"
	"panelforge/internal/pkg/storage"
)

// ArtifactService 产物下载服务接口
// 画面、合成图与绘本页都通过存储 key 访问
type ArtifactService interface {
	// Download 返回文件流，调用方负责关闭
	Download(ctx context.Context, key string) (*DownloadFileResult, error)

	// GetDownloadURL 获取带有效期的访问地址
	GetDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)
}

type artifactService struct {
	storage storage.Storage
}

// NewArtifactService 创建产物下载服务
func NewArtifactService(store storage.Storage) ArtifactService {
	return &artifactService{storage: store}
}

// DownloadFileResult 下载结果
type DownloadFileResult struct {
	Data        io.ReadCloser
	FileName    string
	FileSize    int64
	ContentType string
}

func (s *artifactService) Download(ctx context.Context, key string) (*DownloadFileResult, error) {
	const op = "artifacts.download"

	info, err := s.storage.GetFileInfo(ctx, key)
	if err != nil {
		return nil, mapStorageError(op, key, err)
	}

	data, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, mapStorageError(op, key, err)
	}

	return &DownloadFileResult{
		Data:        data,
		FileName:    path.Base(key),
		FileSize:    info.Size,
		ContentType: info.ContentType,
	}, nil
}

func (s *artifactService) GetDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	const op = "artifacts.url"

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return "", mapStorageError(op, key, err)
	}
	if !exists {
		return "", apperr.NotFound(op, fmt.Sprintf("artifact %s not found", key))
	}
	url, err := s.storage.GetPresignedDownloadURL(ctx, key, expiresIn)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return url, nil
}

func mapStorageError(op, key string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFound(op, fmt.Sprintf("artifact %s not found", key))
	case errors.Is(err, storage.ErrInvalidKey):
		return apperr.Field(op, "key", err.Error())
	default:
		return fmt.Errorf("%s %s: %w", op, key, err)
	}
}
