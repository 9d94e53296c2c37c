package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ==================== 推送同步鉴权 ====================

// PushAuth 静态共享密钥 Bearer 鉴权
// 供外部系统推送批次的端点使用；密钥未配置时直接拒绝所有请求
// 比对用常数时间，避免时序侧信道
func PushAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   "推送同步未配置密钥",
			})
			c.Abort()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "鉴权失败",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
