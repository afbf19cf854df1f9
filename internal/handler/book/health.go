package book

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health 编排器健康检查，附带下游服务状态
// @Summary      健康检查（含下游服务）
// @Tags         健康检查
// @Produce      json
// @Success      200  {object}  comic.HealthReport
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.bookService.Health(c.Request.Context()))
}
