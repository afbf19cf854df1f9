package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "panelforge/docs"
	"panelforge/internal/ai"
	"panelforge/internal/client"
	"panelforge/internal/config"
	"panelforge/internal/handler"
	bookHandler "panelforge/internal/handler/book"
	dialogueHandler "panelforge/internal/handler/dialogue"
	imagesHandler "panelforge/internal/handler/images"
	placementHandler "panelforge/internal/handler/placement"
	renderHandler "panelforge/internal/handler/render"
	scenesHandler "panelforge/internal/handler/scenes"
	"panelforge/internal/pkg/bubble"
	"panelforge/internal/pkg/cache"
	"panelforge/internal/pkg/imagegen"
	"panelforge/internal/pkg/jwt"
	"panelforge/internal/pkg/mongodb"
	"panelforge/internal/pkg/storage"
	"panelforge/internal/pkg/storagefactory"
	bookRepo "panelforge/internal/repository/book"
	"panelforge/internal/server/middleware"
	"panelforge/internal/service"
)

// Server 单个服务的 HTTP 服务器
type Server struct {
	cfg     *config.Config
	service string
	engine  *gin.Engine

	storage    storage.Storage
	llm        ai.TextGenerator
	images     imagegen.Provider
	downstream service.Downstream
	mongo      *mongodb.Client
	cache      cache.Cache
	renderer   *bubble.Renderer
}

// Option 服务器选项（主要用于测试时注入依赖）
type Option func(*Server)

// WithStorage 使用指定存储
func WithStorage(s storage.Storage) Option {
	return func(srv *Server) { srv.storage = s }
}

// WithTextGenerator 使用指定语言模型
func WithTextGenerator(g ai.TextGenerator) Option {
	return func(srv *Server) { srv.llm = g }
}

// WithImageProvider 使用指定图片后端
func WithImageProvider(p imagegen.Provider) Option {
	return func(srv *Server) { srv.images = p }
}

// WithDownstream 编排器使用指定的下游客户端
func WithDownstream(d service.Downstream) Option {
	return func(srv *Server) { srv.downstream = d }
}

// New 创建指定服务的服务器实例
func New(cfg *config.Config, name string, opts ...Option) (*Server, error) {
	if _, err := cfg.Services.Endpoint(name); err != nil {
		return nil, err
	}

	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &Server{
		cfg:     cfg,
		service: name,
		engine:  gin.New(),
	}
	for _, opt := range opts {
		opt(srv)
	}

	if err := srv.initDependencies(); err != nil {
		srv.Close()
		return nil, err
	}

	// 设置路由
	srv.setupRoutes()

	return srv, nil
}

// initDependencies 只初始化当前服务需要的依赖
func (s *Server) initDependencies() error {
	ctx := context.Background()

	switch s.service {
	case config.ServiceImages, config.ServicePlacement, config.ServiceRenderer, config.ServiceOrchestrator:
		if s.storage == nil {
			st, err := storagefactory.NewStorage(ctx, &s.cfg.Storage)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			s.storage = st
		}
	}

	switch s.service {
	case config.ServiceScenes, config.ServiceDialogue:
		if s.llm == nil {
			g, err := ai.NewTextGenerator(ctx, &s.cfg.AI)
			if err != nil {
				return fmt.Errorf("init language model: %w", err)
			}
			s.llm = g
		}

		// 缓存 (可选)
		c, err := cache.New(s.cfg)
		if err != nil {
			log.Warn().Err(err).Str("type", s.cfg.Cache.Type).Msg("failed to init cache, continuing without it")
		} else if c != nil {
			s.cache = c
			log.Info().Str("type", s.cfg.Cache.Type).Msg("result cache enabled")
		}

	case config.ServiceImages:
		if s.images == nil {
			p, err := imagegen.New(&s.cfg.Image)
			if err != nil {
				return fmt.Errorf("init image provider: %w", err)
			}
			s.images = p
		}

	case config.ServiceRenderer:
		renderer, err := newRenderer(&s.cfg.Render)
		if err != nil {
			return fmt.Errorf("init renderer: %w", err)
		}
		s.renderer = renderer

	case config.ServiceOrchestrator:
		if s.downstream == nil {
			s.downstream = client.NewServices(s.cfg, nil)
		}

		// 初始化 MongoDB (可选)
		if s.cfg.Mongo.URI != "" {
			mc, err := mongodb.New(&s.cfg.Mongo)
			if err != nil {
				log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without it")
			} else {
				s.mongo = mc
				log.Info().Str("database", s.cfg.Mongo.Database).Msg("connected to MongoDB")

				// 创建索引
				if err := mongodb.EnsureIndexes(mc.Database()); err != nil {
					log.Warn().Err(err).Msg("failed to ensure indexes")
				}
			}
		}
	}
	return nil
}

// newRenderer 加载配置的字体，失败时退回内置字体
func newRenderer(cfg *config.RenderConfig) (*bubble.Renderer, error) {
	opts := bubble.OptionsFromConfig(cfg)
	renderer, err := bubble.NewRenderer(opts)
	if err == nil || opts.FontPath == "" {
		return renderer, err
	}

	log.Error().Err(err).Str("font_path", opts.FontPath).Msg("failed to load font, using built-in font")
	opts.FontPath = ""
	return bubble.NewRenderer(opts)
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger(s.service))
	s.engine.Use(middleware.CORS())

	// 健康检查
	healthHandler := handler.NewHealthHandler(s.service, s.ready)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1
	v1 := s.engine.Group("/api/v1")

	// 下游服务之间的调用需要编排器签发的令牌
	if s.service != config.ServiceOrchestrator && s.cfg.Auth.ServiceSecret != "" {
		v1.Use(middleware.ServiceAuth(jwt.NewJWT(s.cfg.Auth.ServiceSecret, s.cfg.Auth.TokenExpiry), s.service))
	}

	switch s.service {
	case config.ServiceOrchestrator:
		var repo bookRepo.BookRepository
		if s.mongo != nil {
			repo = bookRepo.NewRepo(s.mongo.Database())
		} else {
			log.Warn().Msg("MongoDB not configured, books are not persisted")
		}
		bookSvc := service.NewBookService(s.downstream, s.storage, repo, s.cfg)
		artifactSvc := service.NewArtifactService(s.storage)
		h := bookHandler.NewHandler(bookSvc, artifactSvc)

		s.engine.GET("/health", h.Health)
		s.engine.GET("/download/*key", h.DownloadFile)
		v1.POST("/books", h.CreateBook)
		v1.GET("/books/:book_id", h.GetBook)
		v1.GET("/artifacts/url", h.GetDownloadURL)
		return

	case config.ServiceScenes:
		h := scenesHandler.NewHandler(service.NewSceneService(s.llm, s.cache, s.cfg))
		v1.POST("/scenes", h.Split)

	case config.ServiceImages:
		h := imagesHandler.NewHandler(service.NewImageService(s.images, s.storage, &s.cfg.Image))
		v1.POST("/images", h.Generate)
		v1.GET("/styles", h.Styles)
		s.engine.GET("/styles", h.Styles)

	case config.ServiceDialogue:
		h := dialogueHandler.NewHandler(service.NewDialogueService(s.llm, s.cache, s.cfg))
		v1.POST("/dialogue", h.Generate)

	case config.ServicePlacement:
		h := placementHandler.NewHandler(service.NewPlacementService(s.storage, s.cfg))
		v1.POST("/placements", h.Place)

	case config.ServiceRenderer:
		h := renderHandler.NewHandler(service.NewRenderService(s.renderer, s.storage))
		v1.POST("/render", h.Render)
	}

	s.engine.GET("/health", healthHandler.Health)
}

// ready 就绪检查：编排器在配置了 MongoDB 时检查连接
func (s *Server) ready() error {
	if s.mongo == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.mongo.Ping(ctx)
}

// Addr 监听地址
func (s *Server) Addr() string {
	ep, _ := s.cfg.Services.Endpoint(s.service)
	return net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(ep.Port))
}

// Run 启动服务器，ctx 取消时优雅退出
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.Addr(),
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("service", s.service).Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Str("service", s.service).Msg("shutting down server...")
		defer s.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("%s: %w", s.service, err)
	}
}

// Close 关闭连接
func (s *Server) Close() {
	if s.mongo != nil {
		if err := s.mongo.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
		s.mongo = nil
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close cache")
		}
		s.cache = nil
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
