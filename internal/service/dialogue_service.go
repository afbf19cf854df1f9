package service

import (
	"context"
	"errors"
	"fmt"
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

// DialogueService 台词生成服务接口
type DialogueService interface {
	// Generate 为每段描述生成台词，结果与描述一一对应
	Generate(ctx context.Context, req *comic.GenerateDialogueRequest) (*comic.GenerateDialogueResponse, error)
}

type dialogueService struct {
	llm           ai.TextGenerator
	cache         cache.Cache
	cacheTTL      time.Duration
	linesPerPanel int
	mode          string
	model         string
}

// NewDialogueService 创建台词生成服务
// mode 为 extract 时不调用模型，直接从描述中的引号提取
func NewDialogueService(llm ai.TextGenerator, c cache.Cache, cfg *config.Config) DialogueService {
	mode := cfg.Pipeline.DialogueMode
	if mode != config.DialogueModeExtract {
		mode = config.DialogueModeLLM
	}
	return &dialogueService{
		llm:           llm,
		cache:         c,
		cacheTTL:      cfg.Cache.TTL,
		linesPerPanel: cfg.Pipeline.LinesPerPanel,
		mode:          mode,
		model:         cfg.AI.Provider + "/" + cfg.AI.Model,
	}
}

func (s *dialogueService) Generate(ctx context.Context, req *comic.GenerateDialogueRequest) (*comic.GenerateDialogueResponse, error) {
	const op = "dialogue.generate"

	if len(req.Descriptions) == 0 {
		return nil, apperr.Field(op, "descriptions", "must not be empty")
	}
	if len(req.Descriptions) > config.MaxPanelCount {
		return nil, apperr.Field(op, "descriptions", fmt.Sprintf("at most %d descriptions", config.MaxPanelCount))
	}
	descriptions := make([]string, len(req.Descriptions))
	for i, d := range req.Descriptions {
		descriptions[i] = strings.TrimSpace(d)
		if descriptions[i] == "" {
			return nil, apperr.Field(op, fmt.Sprintf("descriptions[%d]", i), "must not be empty")
		}
	}

	lines := s.linesPerPanel
	if req.LinesPerPanel != nil {
		lines = *req.LinesPerPanel
	}
	if lines < 0 || lines > config.MaxLinesPerPanel {
		return nil, apperr.Field(op, "lines_per_panel", fmt.Sprintf("must be between 0 and %d", config.MaxLinesPerPanel))
	}

	if lines == 0 {
		return &comic.GenerateDialogueResponse{Panels: emptyDialogue(len(descriptions)), Mode: s.mode}, nil
	}

	if s.mode == config.DialogueModeExtract {
		panels := make([]comic.PanelDialogue, len(descriptions))
		for i, d := range descriptions {
			extracted := comictools.ExtractDialogue(d, lines)
			if extracted == nil {
				extracted = []comic.DialogueLine{}
			}
			panels[i] = comic.PanelDialogue{Index: i + 1, Lines: extracted}
		}
		return &comic.GenerateDialogueResponse{Panels: panels, Mode: s.mode}, nil
	}

	key := cache.Key(cache.DialogueKeyPrefix, append([]string{strconv.Itoa(lines), s.model}, descriptions...)...)
	if s.cache != nil {
		var cached comic.GenerateDialogueResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Msg("dialogue cache lookup failed")
		}
	}

	content, err := s.llm.Generate(ctx, comictools.DialoguePrompt(descriptions, lines))
	if err != nil {
		return nil, apperr.Upstream(op, err)
	}

	panels, err := comictools.ParseDialogueJSON(content, len(descriptions), lines)
	if err != nil {
		log.Warn().Err(err).Str("content", truncate(content, 200)).Msg("language model returned malformed dialogue")
		return nil, apperr.Upstream(op, err)
	}

	resp := &comic.GenerateDialogueResponse{Panels: panels, Mode: config.DialogueModeLLM}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache dialogue")
		}
	}
	return resp, nil
}

func emptyDialogue(n int) []comic.PanelDialogue {
	panels := make([]comic.PanelDialogue, n)
	for i := range panels {
		panels[i] = comic.PanelDialogue{Index: i + 1, Lines: []comic.DialogueLine{}}
	}
	return panels
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
