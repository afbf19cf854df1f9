package scenes

import (
	"github.com/gin-gonic/gin"

	"panelforge/internal/handler"
	"panelforge/internal/model/comic"
	httputil "panelforge/internal/pkg/http"
	"panelforge/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// Handler 场景切分处理器
type Handler struct {
	sceneService service.SceneService
}

// NewHandler 创建场景切分处理器
func NewHandler(sceneService service.SceneService) *Handler {
	return &Handler{sceneService: sceneService}
}

// Split 将故事切分为分镜描述
// @Summary      切分分镜
// @Description  调用语言模型将故事切分为 panel_count 段分镜描述（默认 6 段）
// @Tags         场景切分
// @Accept       json
// @Produce      json
// @Param        request  body      comic.SplitScenesRequest  true  "故事"
// @Success      200      {object}  map[string]interface{}    "{\"code\": 0, \"message\": \"success\", \"data\": {\"scenes\": [...]}}"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      502      {object}  ErrorResponse  "语言模型调用失败"
// @Router       /api/v1/scenes [post]
func (h *Handler) Split(c *gin.Context) {
	var req comic.SplitScenesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, "scenes.split", err)
		return
	}

	resp, err := h.sceneService.Split(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, resp)
}
