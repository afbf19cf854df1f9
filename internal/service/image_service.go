package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"panelforge/internal/config"
	"panelforge/internal/model/comic"
	"panelforge/internal/pkg/apperr"
	"panelforge/internal/pkg/id"
	"panelforge/internal/pkg/imagegen"
	"panelforge/internal/pkg/raster"
	"panelforge/internal/pkg/storage"
)

// 未指定尺寸时的默认画面大小
const (
	DefaultImageWidth  = 768
	DefaultImageHeight = 768
)

// ImageService 图片生成服务接口
type ImageService interface {
	// Generate 按画风生成一张画面并写入存储
	Generate(ctx context.Context, req *comic.GenerateImageRequest) (*comic.GenerateImageResponse, error)

	// Styles 返回可用画风及当前后端
	Styles() *comic.StylesResponse
}

type imageService struct {
	provider     imagegen.Provider
	storage      storage.Storage
	defaultStyle string
	width        int
	height       int
}

// NewImageService 创建图片生成服务
func NewImageService(provider imagegen.Provider, store storage.Storage, cfg *config.ImageConfig) ImageService {
	s := &imageService{
		provider:     provider,
		storage:      store,
		defaultStyle: cfg.DefaultStyle,
		width:        cfg.Width,
		height:       cfg.Height,
	}
	if _, ok := imagegen.LookupStyle(s.defaultStyle); !ok {
		s.defaultStyle = imagegen.DefaultStyle
	}
	if s.width <= 0 {
		s.width = DefaultImageWidth
	}
	if s.height <= 0 {
		s.height = DefaultImageHeight
	}
	return s
}

func (s *imageService) Generate(ctx context.Context, req *comic.GenerateImageRequest) (*comic.GenerateImageResponse, error) {
	const op = "images.generate"

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, apperr.Field(op, "prompt", "must not be empty")
	}

	styleName := req.Style
	if styleName == "" {
		styleName = s.defaultStyle
	}
	style, ok := imagegen.LookupStyle(styleName)
	if !ok {
		return nil, apperr.Field(op, "style", fmt.Sprintf("unknown style %q", styleName))
	}

	width, height := req.Width, req.Height
	if width == 0 {
		width = s.width
	}
	if height == 0 {
		height = s.height
	}

	enhanced := style.Enhance(prompt)
	result, err := s.provider.Generate(ctx, imagegen.Request{Prompt: enhanced, Width: width, Height: height})
	if err != nil {
		return nil, apperr.Upstream(op, fmt.Errorf("%s: %w", s.provider.Name(), err))
	}

	data, w, h, err := raster.ToPNG(result.Data)
	if err != nil {
		return nil, apperr.Upstream(op, fmt.Errorf("%s returned an undecodable image: %w", s.provider.Name(), err))
	}

	key := req.OutputKey
	if key == "" {
		key = id.ImageKey()
	}
	url, err := s.storage.Upload(ctx, key, bytes.NewReader(data), "image/png")
	if err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			return nil, apperr.Field(op, "output_key", err.Error())
		}
		return nil, fmt.Errorf("store image: %w", err)
	}

	log.Info().
		Str("provider", s.provider.Name()).
		Str("style", style.Name).
		Str("key", key).
		Int("bytes", len(data)).
		Msg("image generated")

	return &comic.GenerateImageResponse{
		ImageArtifact: comic.ImageArtifact{
			Key:       key,
			URL:       url,
			LocalFile: localFile(s.storage, key),
			SourceURL: result.SourceURL,
			Width:     w,
			Height:    h,
			Size:      int64(len(data)),
		},
		StyleUsed:      style.Name,
		EnhancedPrompt: enhanced,
		Provider:       s.provider.Name(),
	}, nil
}

func (s *imageService) Styles() *comic.StylesResponse {
	styles := imagegen.Styles()
	resp := &comic.StylesResponse{
		Styles:   make([]comic.StyleInfo, len(styles)),
		Default:  s.defaultStyle,
		Provider: s.provider.Name(),
	}
	for i, st := range styles {
		resp.Styles[i] = comic.StyleInfo{Name: st.Name, Prefix: st.Prefix}
	}
	return resp
}

// localFile 本地存储时返回文件路径，其余存储返回空
func localFile(s storage.Storage, key string) string {
	lp, ok := s.(storage.LocalPather)
	if !ok {
		return ""
	}
	p, err := lp.LocalPath(key)
	if err != nil {
		return ""
	}
	return p
}
