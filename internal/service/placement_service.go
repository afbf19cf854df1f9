package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/rs/zerolog/log"

	"panelforge/internal/config"
	"panelforge/internal/model/comic"
	"panelforge/internal/pkg/apperr"
	"panelforge/internal/pkg/layout"
	"panelforge/internal/pkg/raster"
	"panelforge/internal/pkg/storage"
)

// PlacementService 气泡布局服务接口
type PlacementService interface {
	// Place 为每句台词计算气泡位置，结果数量与台词数量一致
	Place(ctx context.Context, req *comic.PlaceBubblesRequest) (*comic.PlaceBubblesResponse, error)
}

type placementService struct {
	storage storage.Storage
	opts    layout.Options
}

// NewPlacementService 创建气泡布局服务，store 为 nil 时只按尺寸布局
func NewPlacementService(store storage.Storage, cfg *config.Config) PlacementService {
	opts := layout.DefaultOptions()
	if cfg.Placement.Margin > 0 {
		opts.Margin = cfg.Placement.Margin
	}
	if cfg.Placement.MinWidth > 0 {
		opts.MinWidth = cfg.Placement.MinWidth
	}
	if cfg.Placement.MaxWidth >= opts.MinWidth {
		opts.MaxWidth = cfg.Placement.MaxWidth
	}
	if cfg.Render.Padding > 0 {
		opts.Padding = cfg.Render.Padding
	}
	return &placementService{storage: store, opts: opts}
}

func (s *placementService) Place(ctx context.Context, req *comic.PlaceBubblesRequest) (*comic.PlaceBubblesResponse, error) {
	const op = "placement.place"

	for i, l := range req.Lines {
		if strings.TrimSpace(l.Text) == "" {
			return nil, apperr.Field(op, fmt.Sprintf("lines[%d].text", i), "must not be empty")
		}
		if l.BubbleType != "" && !l.BubbleType.Valid() {
			return nil, apperr.Field(op, fmt.Sprintf("lines[%d].bubble_type", i), "must be speech, thought or shout")
		}
	}

	w, h := req.Width, req.Height
	var scores []float64
	if req.ImageKey != "" {
		img, err := s.loadImage(ctx, req.ImageKey)
		switch {
		case err == nil:
			b := img.Bounds()
			w, h = b.Dx(), b.Dy()
			scores = regionScores(img, w, h)
		case w > 0 && h > 0:
			log.Warn().Err(err).Str("image_key", req.ImageKey).Msg("image unreadable, placing by size only")
		default:
			return nil, apperr.Field(op, "image_key", err.Error())
		}
	}
	if w <= 0 || h <= 0 {
		return nil, apperr.Validation(op, "image size is required", map[string]string{
			"width":  "must be positive when image_key is not readable",
			"height": "must be positive when image_key is not readable",
		})
	}

	placements := layout.Place(w, h, scores, req.Lines, s.opts)
	return &comic.PlaceBubblesResponse{Width: w, Height: h, Placements: placements}, nil
}

func (s *placementService) loadImage(ctx context.Context, key string) (image.Image, error) {
	if s.storage == nil {
		return nil, errors.New("no storage configured")
	}
	data, err := storage.ReadAll(ctx, s.storage, key)
	if err != nil {
		return nil, err
	}
	img, _, err := raster.Decode(data)
	return img, err
}

// regionScores 计算每个候选区域的繁忙度
func regionScores(img image.Image, w, h int) []float64 {
	regions := layout.Regions(w, h)
	scores := make([]float64, len(regions))
	for i, r := range regions {
		scores[i] = raster.Busyness(img, r.Rect)
	}
	return scores
}
