package book

import (
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"panelforge/internal/handler"
	"panelforge/internal/pkg/apperr"
)

// DownloadFile 下载产物
// @Summary      下载产物
// @Description  根据存储 key 下载画面、合成图或绘本页
// @Tags         绘本
// @Produce      application/octet-stream
// @Param        key  path      string  true  "存储 key，如 books/{id}/panel_01.png"
// @Success      200  {file}    binary  "文件流"
// @Failure      400  {object}  ErrorResponse  "非法 key"
// @Failure      404  {object}  ErrorResponse  "文件不存在"
// @Router       /download/{key} [get]
func (h *Handler) DownloadFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		handler.Error(c, apperr.Field("artifacts.download", "key", "is required"))
		return
	}

	result, err := h.artifactService.Download(c.Request.Context(), key)
	if err != nil {
		handler.Error(c, err)
		return
	}
	defer result.Data.Close()

	// 设置响应头
	c.Header("Content-Type", result.ContentType)
	c.Header("Content-Disposition", `inline; filename="`+result.FileName+`"`)
	c.Header("Content-Length", fmt.Sprintf("%d", result.FileSize))

	// 流式传输文件，头已写出后只能记录错误
	if _, err := io.Copy(c.Writer, result.Data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to stream file")
	}
}
