package book

import (
	"time"

	"github.com/gin-gonic/gin"

	"panelforge/internal/handler"
)

// GetDownloadURLRequest 获取下载地址请求
type GetDownloadURLRequest struct {
	Key       string `form:"key" binding:"required"`
	ExpiresIn int    `form:"expires_in" binding:"omitempty,min=1,max=86400"` // 有效期（秒），默认 3600
}

// GetDownloadURLResponseData 获取下载地址响应数据
type GetDownloadURLResponseData struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GetDownloadURL 获取产物的临时访问地址
// @Summary      获取下载地址
// @Description  OSS 存储返回预签名 URL，本地存储返回 /download 地址
// @Tags         绘本
// @Produce      json
// @Param        key         query     string  true   "存储 key"
// @Param        expires_in  query     int     false  "有效期（秒）"
// @Success      200         {object}  map[string]interface{}  "{\"code\": 0, \"message\": \"success\", \"data\": {\"url\": \"...\"}}"
// @Failure      400         {object}  ErrorResponse  "请求参数错误"
// @Failure      404         {object}  ErrorResponse  "文件不存在"
// @Router       /api/v1/artifacts/url [get]
func (h *Handler) GetDownloadURL(c *gin.Context) {
	var req GetDownloadURLRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		handler.BindError(c, "artifacts.url", err)
		return
	}

	expiresIn := time.Hour
	if req.ExpiresIn > 0 {
		expiresIn = time.Duration(req.ExpiresIn) * time.Second
	}

	url, err := h.artifactService.GetDownloadURL(c.Request.Context(), req.Key, expiresIn)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, GetDownloadURLResponseData{
		URL:       url,
		ExpiresAt: time.Now().Add(expiresIn),
	})
}
