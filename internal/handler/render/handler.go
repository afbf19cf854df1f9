package render

import (
	"github.com/gin-gonic/gin"

	"panelforge/internal/handler"
	"panelforge/internal/model/comic"
	httputil "panelforge/internal/pkg/http"
	"panelforge/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// Handler 气泡渲染处理器
type Handler struct {
	renderService service.RenderService
}

// NewHandler 创建气泡渲染处理器
func NewHandler(renderService service.RenderService) *Handler {
	return &Handler{renderService: renderService}
}

// Render 绘制气泡
// @Summary      绘制气泡
// @Description  在存储中的画面上绘制气泡并写回存储，输出尺寸与原图一致
// @Tags         气泡渲染
// @Accept       json
// @Produce      json
// @Param        request  body      comic.RenderRequest     true  "画面与气泡"
// @Success      200      {object}  map[string]interface{}  "{\"code\": 0, \"message\": \"success\", \"data\": {\"image_url\": \"...\"}}"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      404      {object}  ErrorResponse  "画面不存在"
// @Failure      500      {object}  ErrorResponse  "气泡几何或画面数据错误"
// @Router       /api/v1/render [post]
func (h *Handler) Render(c *gin.Context) {
	var req comic.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, "render.render", err)
		return
	}

	resp, err := h.renderService.Render(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, resp)
}
