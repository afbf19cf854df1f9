package book

import (
	httputil "panelforge/internal/pkg/http"
	"panelforge/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// Handler 绘本编排处理器
type Handler struct {
	bookService     service.BookService
	artifactService service.ArtifactService
}

// NewHandler 创建绘本编排处理器
func NewHandler(bookService service.BookService, artifactService service.ArtifactService) *Handler {
	return &Handler{
		bookService:     bookService,
		artifactService: artifactService,
	}
}
