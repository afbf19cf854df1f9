package placement

import (
	"github.com/gin-gonic/gin"

	"panelforge/internal/handler"
	"panelforge/internal/model/comic"
	httputil "panelforge/internal/pkg/http"
	"panelforge/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// Handler 气泡布局处理器
type Handler struct {
	placementService service.PlacementService
}

// NewHandler 创建气泡布局处理器
func NewHandler(placementService service.PlacementService) *Handler {
	return &Handler{placementService: placementService}
}

// Place 计算气泡位置
// @Summary      气泡布局
// @Description  为每句台词计算气泡位置，所有气泡都在画面内；给出 image_key 时按画面内容避开繁忙区域
// @Tags         气泡布局
// @Accept       json
// @Produce      json
// @Param        request  body      comic.PlaceBubblesRequest  true  "画面尺寸与台词"
// @Success      200      {object}  map[string]interface{}     "{\"code\": 0, \"message\": \"success\", \"data\": {\"placements\": [...]}}"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Router       /api/v1/placements [post]
func (h *Handler) Place(c *gin.Context) {
	var req comic.PlaceBubblesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, "placement.place", err)
		return
	}

	resp, err := h.placementService.Place(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, resp)
}
