package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpresp "panelforge/internal/pkg/http"
	"panelforge/internal/pkg/jwt"
)

// ServiceAuth 服务间认证中间件
// 从 Authorization header 中提取 Bearer token，校验其 audience 为当前服务
func ServiceAuth(jwtUtil *jwt.JWT, service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpresp.NewErrorResponse(40101, "未授权"))
			return
		}

		// 提取 Token（Bearer {token}）
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpresp.NewErrorResponse(40101, "Invalid authorization header"))
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1], service)
		if err != nil {
			code := 40102
			if errors.Is(err, jwt.ErrExpiredToken) {
				code = 40103
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpresp.NewErrorResponse(code, "Token无效或已过期", err.Error()))
			return
		}

		c.Set("caller", claims.Service)
		c.Next()
	}
}
