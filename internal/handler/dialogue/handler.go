package dialogue

import (
	"github.com/gin-gonic/gin"

	"panelforge/internal/handler"
	"panelforge/internal/model/comic"
	httputil "panelforge/internal/pkg/http"
	"panelforge/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// Handler 台词生成处理器
type Handler struct {
	dialogueService service.DialogueService
}

// NewHandler 创建台词生成处理器
func NewHandler(dialogueService service.DialogueService) *Handler {
	return &Handler{dialogueService: dialogueService}
}

// Generate 生成台词
// @Summary      生成台词
// @Description  为每段分镜描述生成台词，结果与描述一一对应
// @Tags         台词生成
// @Accept       json
// @Produce      json
// @Param        request  body      comic.GenerateDialogueRequest  true  "分镜描述"
// @Success      200      {object}  map[string]interface{}         "{\"code\": 0, \"message\": \"success\", \"data\": {\"panels\": [...]}}"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      502      {object}  ErrorResponse  "语言模型调用失败或返回无法解析"
// @Router       /api/v1/dialogue [post]
func (h *Handler) Generate(c *gin.Context) {
	var req comic.GenerateDialogueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, "dialogue.generate", err)
		return
	}

	resp, err := h.dialogueService.Generate(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, resp)
}
