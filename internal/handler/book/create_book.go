package book

import (
	"github.com/gin-gonic/gin"

	"panelforge/internal/handler"
	"panelforge/internal/model/comic"
)

// CreateBookResponseData 绘本生成响应数据
type CreateBookResponseData struct {
	Book       *comic.Book `json:"book"`
	Composites []string    `json:"composites"` // 按格序的合成图地址
}

// CreateBook 生成绘本
// @Summary      生成绘本
// @Description  故事 -> 分镜 -> 台词 -> 每格并行（画面 -> 布局 -> 渲染）-> 2x2 排版页；任意一步失败整个请求失败
// @Tags         绘本
// @Accept       json
// @Produce      json
// @Param        request  body      comic.CreateBookRequest  true  "故事与参数"
// @Success      200      {object}  map[string]interface{}   "{\"code\": 0, \"message\": \"success\", \"data\": {\"book\": {...}, \"composites\": [...]}}"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      502      {object}  ErrorResponse  "下游服务失败"
// @Router       /api/v1/books [post]
func (h *Handler) CreateBook(c *gin.Context) {
	var req comic.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, "books.create", err)
		return
	}

	book, err := h.bookService.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, CreateBookResponseData{
		Book:       book,
		Composites: book.CompositeURLs(),
	})
}
