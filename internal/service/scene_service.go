package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"panelforge/internal/ai"
	"panelforge/internal/config"
	"panelforge/internal/model/comic"
	"panelforge/internal/pkg/apperr"
	"panelforge/internal/pkg/cache"
	"panelforge/internal/pkg/comictools"
)

// SceneService 场景切分服务接口
type SceneService interface {
	// Split 将故事切分为恰好 N 段分镜描述
	// 模型返回的段数不等于 N 时按 segment_policy 处理
	Split(ctx context.Context, req *comic.SplitScenesRequest) (*comic.SplitScenesResponse, error)
}

type sceneService struct {
	llm        ai.TextGenerator
	cache      cache.Cache
	cacheTTL   time.Duration
	panelCount int
	policy     string
	model      string
}

// NewSceneService 创建场景切分服务，c 为 nil 时不缓存
func NewSceneService(llm ai.TextGenerator, c cache.Cache, cfg *config.Config) SceneService {
	return &sceneService{
		llm:        llm,
		cache:      c,
		cacheTTL:   cfg.Cache.TTL,
		panelCount: cfg.Pipeline.PanelCount,
		policy:     cfg.Pipeline.SegmentPolicy,
		model:      cfg.AI.Provider + "/" + cfg.AI.Model,
	}
}

func (s *sceneService) Split(ctx context.Context, req *comic.SplitScenesRequest) (*comic.SplitScenesResponse, error) {
	const op = "scenes.split"

	story := strings.TrimSpace(req.Story)
	if story == "" {
		return nil, apperr.Field(op, "story", "must not be empty")
	}
	n := req.PanelCount
	if n == 0 {
		n = s.panelCount
	}
	if n < 1 || n > config.MaxPanelCount {
		return nil, apperr.Field(op, "panel_count", "must be between 1 and "+strconv.Itoa(config.MaxPanelCount))
	}

	key := cache.Key(cache.ScenesKeyPrefix, story, strconv.Itoa(n), s.model, s.policy)
	if s.cache != nil {
		var cached comic.SplitScenesResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			log.Debug().Str("key", key).Msg("scene split served from cache")
			return &cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Msg("scene cache lookup failed")
		}
	}

	text, err := s.llm.Generate(ctx, comictools.ScenePrompt(story, n))
	if err != nil {
		return nil, apperr.Upstream(op, err)
	}

	segments := comictools.ParseScenes(text)
	if len(segments) == 0 {
		return nil, apperr.Upstreamf(op, "language model returned no usable scene descriptions")
	}
	if len(segments) != n {
		if s.policy == config.SegmentPolicyStrict {
			return nil, apperr.Upstreamf(op, "language model returned %d scene descriptions, want %d", len(segments), n)
		}
		log.Info().Int("got", len(segments)).Int("want", n).Msg("normalizing scene count")
	}

	normalized := comictools.NormalizeScenes(segments, n)
	resp := &comic.SplitScenesResponse{
		Scenes: make([]comic.PanelDescription, len(normalized)),
		Raw:    len(segments),
	}
	for i, d := range normalized {
		resp.Scenes[i] = comic.PanelDescription{Index: i + 1, Description: d}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache scene split")
		}
	}
	return resp, nil
}
