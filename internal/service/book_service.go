package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"panelforge/internal/config"
	"panelforge/internal/model/comic"
	"panelforge/internal/pkg/apperr"
	"panelforge/internal/pkg/id"
	"panelforge/internal/pkg/imagegen"
	"panelforge/internal/pkg/pdfbook"
	"panelforge/internal/pkg/raster"
	"panelforge/internal/pkg/storage"
	bookRepo "panelforge/internal/repository/book"
)

// Downstream 编排器调用的五个下游服务
type Downstream interface {
	SplitScenes(ctx context.Context, req *comic.SplitScenesRequest) (*comic.SplitScenesResponse, error)
	GenerateDialogue(ctx context.Context, req *comic.GenerateDialogueRequest) (*comic.GenerateDialogueResponse, error)
	GenerateImage(ctx context.Context, req *comic.GenerateImageRequest) (*comic.GenerateImageResponse, error)
	PlaceBubbles(ctx context.Context, req *comic.PlaceBubblesRequest) (*comic.PlaceBubblesResponse, error)
	Render(ctx context.Context, req *comic.RenderRequest) (*comic.RenderResponse, error)

	// Probe 探测各服务的 /health
	Probe(ctx context.Context) []comic.ServiceStatus
}

// BookService 绘本编排服务接口
type BookService interface {
	// Create 执行完整流程：分镜 -> 台词 -> 每格并行（图片 -> 布局 -> 渲染）-> 排版
	// 任意一格失败会取消其余格，整个请求失败
	Create(ctx context.Context, req *comic.CreateBookRequest) (*comic.Book, error)

	// Get 查询已保存的绘本
	Get(ctx context.Context, bookID string) (*comic.Book, error)

	// Health 汇总下游服务状态
	Health(ctx context.Context) *comic.HealthReport
}

type bookService struct {
	downstream Downstream
	storage    storage.Storage
	repo       bookRepo.BookRepository
	limiter    *rate.Limiter
	pipeline   config.PipelineConfig
	width      int
	height     int
	style      string
}

// NewBookService 创建绘本编排服务
// store 为 nil 时不生成排版页；repo 为 nil 时不持久化
func NewBookService(downstream Downstream, store storage.Storage, repo bookRepo.BookRepository, cfg *config.Config) BookService {
	s := &bookService{
		downstream: downstream,
		storage:    store,
		repo:       repo,
		pipeline:   cfg.Pipeline,
		width:      cfg.Image.Width,
		height:     cfg.Image.Height,
		style:      cfg.Image.DefaultStyle,
	}
	if s.pipeline.Concurrency < 1 {
		s.pipeline.Concurrency = 1
	}
	if s.pipeline.PanelCount < 1 {
		s.pipeline.PanelCount = 6
	}
	if cfg.Pipeline.RateInterval > 0 {
		s.limiter = rate.NewLimiter(rate.Every(cfg.Pipeline.RateInterval), 1)
	}
	if s.width <= 0 {
		s.width = DefaultImageWidth
	}
	if s.height <= 0 {
		s.height = DefaultImageHeight
	}
	if _, ok := imagegen.LookupStyle(s.style); !ok {
		s.style = imagegen.DefaultStyle
	}
	return s
}

// StepError 某一格某一步的失败
type StepError struct {
	Service string
	Step    string
	Panel   int // 0 表示不属于某一格
	Err     error
}

func (e *StepError) Error() string {
	if e.Panel > 0 {
		return fmt.Sprintf("panel %d: %s (%s): %v", e.Panel, e.Step, e.Service, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Step, e.Service, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// stepFailed 保留下游错误类别，附加服务、格序号与步骤
func stepFailed(service, step string, panel int, err error) error {
	se := &StepError{Service: service, Step: step, Panel: panel, Err: err}
	out := &apperr.Error{Kind: apperr.KindOf(err), Message: se.Error(), Err: se}
	if out.Kind == apperr.KindInternal {
		out.Kind = apperr.KindUpstream
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		out.Fields = ae.Fields
	}
	return out
}

func (s *bookService) Create(ctx context.Context, req *comic.CreateBookRequest) (*comic.Book, error) {
	const op = "books.create"

	story := strings.TrimSpace(req.Story)
	if story == "" {
		return nil, apperr.Field(op, "story", "must not be empty")
	}
	style := req.Style
	if style == "" {
		style = s.style
	}
	if _, ok := imagegen.LookupStyle(style); !ok {
		return nil, apperr.Field(op, "style", fmt.Sprintf("unknown style %q", style))
	}
	n := req.PanelCount
	if n == 0 {
		n = s.pipeline.PanelCount
	}
	if n < 1 || n > config.MaxPanelCount {
		return nil, apperr.Field(op, "panel_count", fmt.Sprintf("must be between 1 and %d", config.MaxPanelCount))
	}
	width, height := req.Width, req.Height
	if width == 0 {
		width = s.width
	}
	if height == 0 {
		height = s.height
	}

	book := &comic.Book{
		ID:         id.New(),
		Story:      story,
		Style:      style,
		PanelCount: n,
		Status:     comic.BookStatusRunning,
	}
	logger := log.With().Str("book_id", book.ID).Logger()
	if s.repo != nil {
		if err := s.repo.Create(ctx, book); err != nil {
			return nil, fmt.Errorf("create book record: %w", err)
		}
	} else {
		book.CreatedAt = time.Now()
	}

	start := time.Now()
	if err := s.run(ctx, book, req.LinesPerPanel, width, height); err != nil {
		logger.Error().Err(err).Msg("book generation failed")
		s.finish(ctx, book, err)
		return nil, err
	}
	s.finish(ctx, book, nil)
	logger.Info().Int("panels", n).Dur("elapsed", time.Since(start)).Msg("book generated")
	return book, nil
}

func (s *bookService) run(ctx context.Context, book *comic.Book, linesPerPanel *int, width, height int) error {
	scenes, err := withStep(ctx, s, func(ctx context.Context) (*comic.SplitScenesResponse, error) {
		return s.downstream.SplitScenes(ctx, &comic.SplitScenesRequest{Story: book.Story, PanelCount: book.PanelCount})
	})
	if err != nil {
		return stepFailed(config.ServiceScenes, "split scenes", 0, err)
	}
	if len(scenes.Scenes) != book.PanelCount {
		return stepFailed(config.ServiceScenes, "split scenes", 0,
			apperr.Upstreamf("books.create", "scene splitter returned %d scenes, want %d", len(scenes.Scenes), book.PanelCount))
	}

	descriptions := make([]string, len(scenes.Scenes))
	for i, sc := range scenes.Scenes {
		descriptions[i] = sc.Description
	}
	dialogue, err := withStep(ctx, s, func(ctx context.Context) (*comic.GenerateDialogueResponse, error) {
		return s.downstream.GenerateDialogue(ctx, &comic.GenerateDialogueRequest{Descriptions: descriptions, LinesPerPanel: linesPerPanel})
	})
	if err != nil {
		return stepFailed(config.ServiceDialogue, "generate dialogue", 0, err)
	}

	book.Panels = make([]comic.BookPanel, book.PanelCount)
	for i := range book.Panels {
		book.Panels[i] = comic.BookPanel{Index: i + 1, Description: descriptions[i], Dialogue: []comic.DialogueLine{}}
		if i < len(dialogue.Panels) && dialogue.Panels[i].Lines != nil {
			book.Panels[i].Dialogue = dialogue.Panels[i].Lines
		}
	}

	// 每个 goroutine 只写自己的那一格
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.pipeline.Concurrency)
	for i := range book.Panels {
		panel := &book.Panels[i]
		g.Go(func() error {
			return s.panel(gctx, book, panel, width, height)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if s.storage != nil {
		pages, rendered, err := s.assemblePages(ctx, book)
		if err != nil {
			return stepFailed(config.ServiceOrchestrator, "assemble pages", 0, err)
		}
		book.Pages = pages

		doc, err := s.writePDF(ctx, book, rendered)
		if err != nil {
			return stepFailed(config.ServiceOrchestrator, "write pdf", 0, err)
		}
		book.PDF = doc
	}
	return nil
}

// panel 处理单格：图片 -> 布局 -> 渲染
func (s *bookService) panel(ctx context.Context, book *comic.Book, p *comic.BookPanel, width, height int) error {
	img, err := withStep(ctx, s, func(ctx context.Context) (*comic.GenerateImageResponse, error) {
		return s.downstream.GenerateImage(ctx, &comic.GenerateImageRequest{
			Prompt:    p.Description,
			Style:     book.Style,
			Width:     width,
			Height:    height,
			OutputKey: id.PanelRawKey(book.ID, p.Index),
		})
	})
	if err != nil {
		return stepFailed(config.ServiceImages, "generate image", p.Index, err)
	}
	p.Image = &img.ImageArtifact

	placed, err := withStep(ctx, s, func(ctx context.Context) (*comic.PlaceBubblesResponse, error) {
		return s.downstream.PlaceBubbles(ctx, &comic.PlaceBubblesRequest{
			Width:    img.Width,
			Height:   img.Height,
			ImageKey: img.Key,
			Lines:    p.Dialogue,
		})
	})
	if err != nil {
		return stepFailed(config.ServicePlacement, "place bubbles", p.Index, err)
	}
	if len(placed.Placements) != len(p.Dialogue) {
		return stepFailed(config.ServicePlacement, "place bubbles", p.Index,
			apperr.Upstreamf("books.create", "placement returned %d bubbles for %d lines", len(placed.Placements), len(p.Dialogue)))
	}
	p.Placements = placed.Placements

	rendered, err := withStep(ctx, s, func(ctx context.Context) (*comic.RenderResponse, error) {
		return s.downstream.Render(ctx, &comic.RenderRequest{
			ImageKey:   img.Key,
			Placements: placed.Placements,
			OutputKey:  id.PanelKey(book.ID, p.Index),
		})
	})
	if err != nil {
		return stepFailed(config.ServiceRenderer, "render bubbles", p.Index, err)
	}
	p.Composite = &rendered.Composite

	log.Debug().Str("book_id", book.ID).Int("panel", p.Index).Msg("panel completed")
	return nil
}

// withStep 限速并为单步调用加超时
func withStep[T any](ctx context.Context, s *bookService, call func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return zero, err
		}
	}
	if s.pipeline.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.pipeline.StepTimeout)
		defer cancel()
	}
	return call(ctx)
}

// assemblePages 每四格合成一页 2x2 排版，同时返回编码后的页面供写入 PDF
func (s *bookService) assemblePages(ctx context.Context, book *comic.Book) ([]comic.BookPage, []pdfbook.Page, error) {
	const perPage = 4
	opts := raster.DefaultGridOptions()

	var pages []comic.BookPage
	var rendered []pdfbook.Page
	for start := 0; start < len(book.Panels); start += perPage {
		end := min(start+perPage, len(book.Panels))

		var imgs []image.Image
		var indexes []int
		for _, p := range book.Panels[start:end] {
			if p.Composite == nil {
				return nil, nil, fmt.Errorf("panel %d has no composite", p.Index)
			}
			data, err := storage.ReadAll(ctx, s.storage, p.Composite.Key)
			if err != nil {
				return nil, nil, fmt.Errorf("read composite %s: %w", p.Composite.Key, err)
			}
			img, _, err := raster.Decode(data)
			if err != nil {
				return nil, nil, apperr.Render("books.pages", err)
			}
			imgs = append(imgs, img)
			indexes = append(indexes, p.Index)
		}

		grid := raster.ComposeGrid(imgs, opts)
		out, err := raster.EncodePNG(grid)
		if err != nil {
			return nil, nil, apperr.Render("books.pages", err)
		}
		number := len(pages) + 1
		key := id.PageKey(book.ID, number)
		url, err := s.storage.Upload(ctx, key, bytes.NewReader(out), "image/png")
		if err != nil {
			return nil, nil, fmt.Errorf("store page %d: %w", number, err)
		}
		pages = append(pages, comic.BookPage{Number: number, ImageKey: key, ImageURL: url, Panels: indexes})
		rendered = append(rendered, pdfbook.Page{Data: out, Width: grid.Bounds().Dx(), Height: grid.Bounds().Dy()})
	}
	return pages, rendered, nil
}

// writePDF 将排版页写成 books/<id>/book.pdf
func (s *bookService) writePDF(ctx context.Context, book *comic.Book, pages []pdfbook.Page) (*comic.BookDocument, error) {
	var buf bytes.Buffer
	if err := pdfbook.Write(&buf, book.Story, pages); err != nil {
		return nil, apperr.Render("books.pdf", err)
	}
	size := int64(buf.Len())
	key := id.BookPDFKey(book.ID)
	url, err := s.storage.Upload(ctx, key, &buf, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("store pdf: %w", err)
	}
	return &comic.BookDocument{Key: key, URL: url, Pages: len(pages), Size: size}, nil
}

// finish 写入最终状态，请求已取消时仍然落库
func (s *bookService) finish(ctx context.Context, book *comic.Book, runErr error) {
	now := time.Now()
	if runErr != nil {
		book.Status = comic.BookStatusFailed
		book.Error = runErr.Error()
	} else {
		book.Status = comic.BookStatusCompleted
		book.CompletedAt = &now
	}
	book.UpdatedAt = now

	if s.repo == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.repo.Update(saveCtx, book); err != nil {
		log.Error().Err(err).Str("book_id", book.ID).Msg("failed to persist book status")
	}
}

func (s *bookService) Get(ctx context.Context, bookID string) (*comic.Book, error) {
	const op = "books.get"

	if s.repo == nil {
		return nil, apperr.Unavailable(op, "book persistence is not configured")
	}
	if !id.IsValid(bookID) {
		return nil, apperr.Field(op, "id", "must be a UUID")
	}
	book, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, bookRepo.ErrNotFound) {
			return nil, apperr.NotFound(op, fmt.Sprintf("book %s not found", bookID))
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return book, nil
}

func (s *bookService) Health(ctx context.Context) *comic.HealthReport {
	report := &comic.HealthReport{Status: "healthy", Services: s.downstream.Probe(ctx)}
	for _, st := range report.Services {
		if st.Status != "online" {
			report.Status = "degraded"
			break
		}
	}
	return report
}
