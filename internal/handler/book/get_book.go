package book

import (
	"github.com/gin-gonic/gin"

	"panelforge/internal/handler"
)

// GetBookRequest 查询绘本请求
type GetBookRequest struct {
	BookID string `uri:"book_id" binding:"required"`
}

// GetBook 查询绘本
// @Summary      查询绘本
// @Description  根据ID查询已保存的绘本（需要配置 MongoDB）
// @Tags         绘本
// @Produce      json
// @Param        book_id  path      string  true  "绘本ID"
// @Success      200      {object}  map[string]interface{}  "{\"code\": 0, \"message\": \"success\", \"data\": {...}}"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      404      {object}  ErrorResponse  "绘本不存在"
// @Failure      503      {object}  ErrorResponse  "未配置持久化"
// @Router       /api/v1/books/{book_id} [get]
func (h *Handler) GetBook(c *gin.Context) {
	var req GetBookRequest
	if err := c.ShouldBindUri(&req); err != nil {
		handler.BindError(c, "books.get", err)
		return
	}

	book, err := h.bookService.Get(c.Request.Context(), req.BookID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, book)
}
