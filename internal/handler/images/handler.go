package images

import (
	"github.com/gin-gonic/gin"

	"panelforge/internal/handler"
	"panelforge/internal/model/comic"
	httputil "panelforge/internal/pkg/http"
	"panelforge/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// Handler 图片生成处理器
type Handler struct {
	imageService service.ImageService
}

// NewHandler 创建图片生成处理器
func NewHandler(imageService service.ImageService) *Handler {
	return &Handler{imageService: imageService}
}

// Generate 生成画面
// @Summary      生成画面
// @Description  按画风生成一张画面并写入存储，返回存储 key、访问 URL 与尺寸
// @Tags         图片生成
// @Accept       json
// @Produce      json
// @Param        request  body      comic.GenerateImageRequest  true  "提示词与画风"
// @Success      200      {object}  map[string]interface{}      "{\"code\": 0, \"message\": \"success\", \"data\": {\"image_url\": \"...\"}}"
// @Failure      400      {object}  ErrorResponse  "请求参数错误（如未知画风）"
// @Failure      502      {object}  ErrorResponse  "图片后端调用失败"
// @Router       /api/v1/images [post]
func (h *Handler) Generate(c *gin.Context) {
	var req comic.GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, "images.generate", err)
		return
	}

	resp, err := h.imageService.Generate(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, resp)
}

// Styles 列出画风
// @Summary      画风列表
// @Tags         图片生成
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "{\"code\": 0, \"message\": \"success\", \"data\": {\"styles\": [...]}}"
// @Router       /api/v1/styles [get]
func (h *Handler) Styles(c *gin.Context) {
	handler.OK(c, h.imageService.Styles())
}
