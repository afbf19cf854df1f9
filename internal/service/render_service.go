package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"panelforge/internal/model/comic"
	"panelforge/internal/pkg/apperr"
	"panelforge/internal/pkg/bubble"
	"panelforge/internal/pkg/id"
	"panelforge/internal/pkg/raster"
	"panelforge/internal/pkg/storage"
)

// RenderService 气泡渲染服务接口
type RenderService interface {
	// Render 在存储中的画面上绘制气泡，写回存储
	Render(ctx context.Context, req *comic.RenderRequest) (*comic.RenderResponse, error)
}

type renderService struct {
	renderer *bubble.Renderer
	storage  storage.Storage
}

// NewRenderService 创建气泡渲染服务
func NewRenderService(renderer *bubble.Renderer, store storage.Storage) RenderService {
	return &renderService{renderer: renderer, storage: store}
}

func (s *renderService) Render(ctx context.Context, req *comic.RenderRequest) (*comic.RenderResponse, error) {
	const op = "render.render"

	if req.ImageKey == "" {
		return nil, apperr.Field(op, "image_key", "is required")
	}

	data, err := storage.ReadAll(ctx, s.storage, req.ImageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, apperr.NotFound(op, fmt.Sprintf("image %s not found", req.ImageKey))
	case errors.Is(err, storage.ErrInvalidKey):
		return nil, apperr.Field(op, "image_key", err.Error())
	case err != nil:
		return nil, fmt.Errorf("read image: %w", err)
	}

	base, _, err := raster.Decode(data)
	if err != nil {
		return nil, apperr.Render(op, err)
	}

	out, err := s.renderer.Render(base, req.Placements)
	if err != nil {
		return nil, apperr.Render(op, err)
	}

	key := req.OutputKey
	if key == "" {
		key = id.CompositeKey()
	}
	url, err := s.storage.Upload(ctx, key, bytes.NewReader(out), "image/png")
	if err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			return nil, apperr.Field(op, "output_key", err.Error())
		}
		return nil, fmt.Errorf("store composite: %w", err)
	}

	b := base.Bounds()
	log.Debug().Str("key", key).Int("bubbles", len(req.Placements)).Msg("composite rendered")

	return &comic.RenderResponse{Composite: comic.Composite{
		Key:          key,
		URL:          url,
		LocalFile:    localFile(s.storage, key),
		Width:        b.Dx(),
		Height:       b.Dy(),
		BubblesAdded: len(req.Placements),
	}}, nil
}
